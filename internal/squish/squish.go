// Package squish merges an ordered sequence of unique blocks into a single
// flat array by overlapping each block's prefix with the previous block's
// suffix, and records where every block starts in the merged result.
package squish

import (
	"github.com/pkg/errors"
	"github.com/skyline93/casetab/internal/casetab"
)

// Result is the output of squishing one block sequence.
type Result struct {
	// Data is the merged flat array.
	Data []int32

	// Offsets maps every unique block id (input order, not sequence order)
	// to the start of its contents within Data.
	Offsets []int
}

// Squish writes the blocks of uniques to a flat array in the given order.
// The first block is written in full; every later block contributes only the
// suffix that does not overlap its predecessor. order must be a permutation
// of the unique block ids.
func Squish(uniques []casetab.Block, order []int) Result {
	res := Result{Offsets: make([]int, len(uniques))}

	for i, uid := range order {
		b := uniques[uid]
		if i == 0 {
			res.Offsets[uid] = 0
			res.Data = append(res.Data, b...)
			continue
		}

		ov := Overlap(uniques[order[i-1]], b)
		res.Offsets[uid] = len(res.Data) - ov
		res.Data = append(res.Data, b[ov:]...)
	}
	return res
}

// Verify recomputes every unique block from the squished array and compares
// it with the original contents. A mismatch means the overlap computation is
// broken; it is never an expected runtime condition.
func Verify(uniques []casetab.Block, res Result) error {
	for uid, b := range uniques {
		off := res.Offsets[uid]
		if off < 0 || off+len(b) > len(res.Data) {
			return errors.Errorf("block %d: offset %d out of range", uid, off)
		}
		if !equal(res.Data[off:off+len(b)], b) {
			return errors.Errorf("block %d: reconstructed contents differ", uid)
		}
	}
	return nil
}

// Total returns the summed overlap along the sequence, i.e. the number of
// elements saved compared to writing every block in full.
func Total(m Matrix, order []int) int {
	total := 0
	for i := 1; i < len(order); i++ {
		total += m[order[i-1]][order[i]]
	}
	return total
}
