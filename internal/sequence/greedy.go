package sequence

import "github.com/skyline93/casetab/internal/squish"

// Action kinds considered by the constructive heuristic, in tie-break
// priority order: ties on gain prefer appending to a part's tail, then
// prepending to its head, then connecting two parts through a block, then
// opening a new part; remaining ties go to the lowest block index. The fixed
// order keeps the heuristic fully deterministic.
const (
	actAppend = iota
	actPrepend
	actConnect
	actNewPart
)

type action struct {
	kind  int
	part  int // target part
	other int // second part (connect) or second block (new part)
	block int
	gain  int
}

// Greedy builds a block order constructively: it seeds a part with the
// single highest-weight directed edge, then repeatedly takes the action with
// the highest marginal overlap. Several disjoint parts may grow at once and
// are merged by their best connecting overlaps at the end.
func Greedy(m squish.Matrix) []int {
	u := len(m)
	if u == 0 {
		return nil
	}
	if u == 1 {
		return []int{0}
	}

	used := make([]bool, u)
	i, j := bestEdge(m, used)
	parts := [][]int{{i, j}}
	used[i], used[j] = true, true
	remaining := u - 2

	for remaining > 0 {
		act := bestAction(m, parts, used, remaining)
		switch act.kind {
		case actAppend:
			parts[act.part] = append(parts[act.part], act.block)
			used[act.block] = true
			remaining--
		case actPrepend:
			parts[act.part] = append([]int{act.block}, parts[act.part]...)
			used[act.block] = true
			remaining--
		case actConnect:
			joined := append([]int(nil), parts[act.part]...)
			joined = append(joined, act.block)
			joined = append(joined, parts[act.other]...)
			parts[act.part] = joined
			parts = append(parts[:act.other], parts[act.other+1:]...)
			used[act.block] = true
			remaining--
		case actNewPart:
			parts = append(parts, []int{act.block, act.other})
			used[act.block], used[act.other] = true, true
			remaining -= 2
		}
	}

	return mergeParts(m, parts)
}

// bestEdge returns the unused directed pair with maximal overlap, ties going
// to the lowest source then target index.
func bestEdge(m squish.Matrix, used []bool) (int, int) {
	bi, bj, bw := -1, -1, -1
	for i := range m {
		if used[i] {
			continue
		}
		for j := range m {
			if i == j || used[j] {
				continue
			}
			if m[i][j] > bw {
				bi, bj, bw = i, j, m[i][j]
			}
		}
	}
	return bi, bj
}

func bestAction(m squish.Matrix, parts [][]int, used []bool, remaining int) action {
	best := action{kind: -1, gain: -1}

	// Appends and prepends, scanned before anything else so they win ties.
	for p, part := range parts {
		tail := part[len(part)-1]
		head := part[0]
		for b := range m {
			if used[b] {
				continue
			}
			if m[tail][b] > best.gain {
				best = action{kind: actAppend, part: p, block: b, gain: m[tail][b]}
			}
		}
		for b := range m {
			if used[b] {
				continue
			}
			if m[b][head] > best.gain {
				best = action{kind: actPrepend, part: p, block: b, gain: m[b][head]}
			}
		}
	}

	// Connecting two parts through an unused block gains two overlaps at
	// once.
	for p := range parts {
		for q := range parts {
			if p == q {
				continue
			}
			tail := parts[p][len(parts[p])-1]
			head := parts[q][0]
			for b := range m {
				if used[b] {
					continue
				}
				if gain := m[tail][b] + m[b][head]; gain > best.gain {
					best = action{kind: actConnect, part: p, other: q, block: b, gain: gain}
				}
			}
		}
	}

	if remaining >= 2 {
		for i := range m {
			if used[i] {
				continue
			}
			for j := range m {
				if i == j || used[j] {
					continue
				}
				if m[i][j] > best.gain {
					best = action{kind: actNewPart, block: i, other: j, gain: m[i][j]}
				}
			}
		}
	}

	return best
}

// mergeParts concatenates all parts, repeatedly joining the pair with the
// best tail-to-head overlap.
func mergeParts(m squish.Matrix, parts [][]int) []int {
	for len(parts) > 1 {
		bp, bq, bw := 0, 1, -1
		for p := range parts {
			for q := range parts {
				if p == q {
					continue
				}
				w := m[parts[p][len(parts[p])-1]][parts[q][0]]
				if w > bw {
					bp, bq, bw = p, q, w
				}
			}
		}
		parts[bp] = append(parts[bp], parts[bq]...)
		parts = append(parts[:bq], parts[bq+1:]...)
	}
	return parts[0]
}
