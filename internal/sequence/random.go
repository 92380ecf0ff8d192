package sequence

import (
	"context"
	"math/rand"

	"github.com/skyline93/casetab/internal/squish"
)

const defaultRestarts = 64

// Randomized runs repeated shuffle-then-improve restarts and keeps the best
// order seen. The seed must be supplied explicitly so generated tables stay
// reproducible; the context deadline bounds the total effort. The
// deterministic heuristic result is the floor, so Randomized never returns a
// worse order than Improve(Greedy).
func Randomized(ctx context.Context, m squish.Matrix, seed int64, restarts int) []int {
	best := Improve(m, Greedy(m), 0)
	bestW := squish.Total(m, best)
	if len(m) < 2 {
		return best
	}
	if restarts <= 0 {
		restarts = defaultRestarts
	}

	rnd := rand.New(rand.NewSource(seed))
	for r := 0; r < restarts; r++ {
		if ctx.Err() != nil {
			break
		}
		cand := Improve(m, rnd.Perm(len(m)), 0)
		if w := squish.Total(m, cand); w > bestW {
			best, bestW = cand, w
		}
	}
	return best
}
