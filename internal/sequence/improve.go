package sequence

import "github.com/skyline93/casetab/internal/squish"

// defaultMoveBudget caps the number of accepted moves per Improve call.
const defaultMoveBudget = 1 << 14

// Improve applies local improvement passes to a full order: swapping the two
// halves around a cut point, relocating a single block, and swapping two
// blocks. A move is accepted only if it strictly raises the total overlap;
// the passes repeat until no move improves or the budget runs out.
func Improve(m squish.Matrix, order []int, budget int) []int {
	cur := append([]int(nil), order...)
	if len(cur) < 2 {
		return cur
	}
	if budget <= 0 {
		budget = defaultMoveBudget
	}

	for budget > 0 {
		if halfSwap(m, cur) || moveOne(m, cur) || swapTwo(m, cur) {
			budget--
			continue
		}
		break
	}
	return cur
}

// halfSwap cuts the order at some position and exchanges the two halves.
func halfSwap(m squish.Matrix, cur []int) bool {
	score := squish.Total(m, cur)
	for i := 1; i < len(cur); i++ {
		cand := append(append([]int(nil), cur[i:]...), cur[:i]...)
		if squish.Total(m, cand) > score {
			copy(cur, cand)
			return true
		}
	}
	return false
}

// moveOne relocates a single block to a different position.
func moveOne(m squish.Matrix, cur []int) bool {
	score := squish.Total(m, cur)
	for i := range cur {
		rest := make([]int, 0, len(cur)-1)
		rest = append(rest, cur[:i]...)
		rest = append(rest, cur[i+1:]...)

		for j := 0; j <= len(rest); j++ {
			if j == i {
				continue
			}
			cand := make([]int, 0, len(cur))
			cand = append(cand, rest[:j]...)
			cand = append(cand, cur[i])
			cand = append(cand, rest[j:]...)
			if squish.Total(m, cand) > score {
				copy(cur, cand)
				return true
			}
		}
	}
	return false
}

// swapTwo exchanges the positions of two blocks.
func swapTwo(m squish.Matrix, cur []int) bool {
	score := squish.Total(m, cur)
	for i := 0; i < len(cur); i++ {
		for j := i + 1; j < len(cur); j++ {
			cur[i], cur[j] = cur[j], cur[i]
			if squish.Total(m, cur) > score {
				return true
			}
			cur[i], cur[j] = cur[j], cur[i]
		}
	}
	return false
}
