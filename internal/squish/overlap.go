package squish

import (
	"context"
	"runtime"

	"github.com/skyline93/casetab/internal/casetab"
	"golang.org/x/sync/errgroup"
)

// Overlap returns the length of the longest suffix of a that equals a prefix
// of b. Zero runs and coincidentally matching nonzero runs both count. The
// relation is asymmetric: Overlap(a, b) and Overlap(b, a) are unrelated.
func Overlap(a, b casetab.Block) int {
	max := len(a)
	if len(b) < max {
		max = len(b)
	}

	for k := max; k > 0; k-- {
		if equal(a[len(a)-k:], b[:k]) {
			return k
		}
	}
	return 0
}

func equal(a, b []int32) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Matrix holds Overlap(i, j) for every ordered pair of unique blocks. The
// diagonal is never consulted and stays zero.
type Matrix [][]int

// BuildMatrix computes all pairwise overlaps. Each overlap is a pure
// function of two immutable blocks, so rows are computed concurrently.
func BuildMatrix(ctx context.Context, blocks []casetab.Block) (Matrix, error) {
	m := make(Matrix, len(blocks))
	for i := range m {
		m[i] = make([]int, len(blocks))
	}

	wg, wgCtx := errgroup.WithContext(ctx)
	wg.SetLimit(runtime.NumCPU())

	for i := range blocks {
		i := i
		wg.Go(func() error {
			if err := wgCtx.Err(); err != nil {
				return err
			}
			for j := range blocks {
				if i == j {
					continue
				}
				m[i][j] = Overlap(blocks[i], blocks[j])
			}
			return nil
		})
	}

	if err := wg.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}
