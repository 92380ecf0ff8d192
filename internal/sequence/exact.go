// Package sequence chooses the order in which unique blocks are squished.
// The problem is a maximum-weight Hamiltonian path over the directed overlap
// matrix, so exact search is only feasible for small block counts and the
// heuristics carry everything else.
package sequence

import (
	"context"
	"runtime"
	"sync"

	"github.com/pkg/errors"
	"github.com/skyline93/casetab/internal/squish"
	"golang.org/x/sync/errgroup"
)

// maxExactBlocks bounds brute force to roughly 13! permutations.
const maxExactBlocks = 13

// ErrBudget is returned when exact search cannot finish within its limits.
// Callers recover by falling back to the heuristic path.
var ErrBudget = errors.New("sequence: search budget exceeded")

type exactResult struct {
	order  []int
	weight int
}

type walker struct {
	ctx   context.Context
	m     squish.Matrix
	order []int
	used  uint32
	steps uint64

	best exactResult
}

// Exact enumerates every permutation of the unique blocks and returns one
// with maximal total overlap. The search space is partitioned by first block
// across workers; each worker keeps a private best and the results are
// reduced in block order afterwards, so the outcome is deterministic. The
// context deadline is honored and reported as ErrBudget.
func Exact(ctx context.Context, m squish.Matrix) ([]int, error) {
	u := len(m)
	switch {
	case u == 0:
		return nil, nil
	case u == 1:
		return []int{0}, nil
	case u > maxExactBlocks:
		return nil, errors.Wrapf(ErrBudget, "%d unique blocks", u)
	}

	results := make([]exactResult, u)
	var mu sync.Mutex

	wg, wgCtx := errgroup.WithContext(ctx)
	wg.SetLimit(runtime.NumCPU())

	for first := 0; first < u; first++ {
		first := first
		wg.Go(func() error {
			w := &walker{
				ctx:   wgCtx,
				m:     m,
				order: make([]int, u),
				best:  exactResult{weight: -1},
			}
			w.order[0] = first
			w.used = 1 << uint(first)

			if err := w.walk(1, 0); err != nil {
				return err
			}

			mu.Lock()
			results[first] = w.best
			mu.Unlock()
			return nil
		})
	}

	if err := wg.Wait(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, errors.Wrap(ErrBudget, "deadline exceeded")
		}
		return nil, err
	}

	best := results[0]
	for _, res := range results[1:] {
		if res.weight > best.weight {
			best = res
		}
	}
	return best.order, nil
}

func (w *walker) walk(depth, weight int) error {
	if depth == len(w.order) {
		if weight > w.best.weight {
			w.best.weight = weight
			w.best.order = append(w.best.order[:0], w.order...)
		}
		return nil
	}

	w.steps++
	if w.steps&0xfff == 0 {
		if err := w.ctx.Err(); err != nil {
			return err
		}
	}

	prev := w.order[depth-1]
	for next := range w.m {
		if w.used&(1<<uint(next)) != 0 {
			continue
		}
		w.order[depth] = next
		w.used |= 1 << uint(next)
		err := w.walk(depth+1, weight+w.m[prev][next])
		w.used &^= 1 << uint(next)
		if err != nil {
			return err
		}
	}
	return nil
}
