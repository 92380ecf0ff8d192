// Package index maps block positions to their offsets in the squished data
// array, and can compress that mapping itself with the same block pipeline
// used for the delta table.
package index

import (
	"context"

	"github.com/pkg/errors"
	"github.com/skyline93/casetab/internal/casetab"
	"github.com/skyline93/casetab/internal/squish"
)

// OrderFunc chooses a squish order for a set of unique blocks. The builder
// supplies the same chooser for the primary table and the index layer.
type OrderFunc func(m squish.Matrix) []int

// Build composes the position-to-unique mapping from deduplication with the
// unique-to-offset mapping from squishing.
func Build(byPos []int, offsets []int) []uint32 {
	idx := make([]uint32, len(byPos))
	for pos, uid := range byPos {
		idx[pos] = uint32(offsets[uid])
	}
	return idx
}

// Compressed is the two-level form of an index: a small jndex locating each
// index chunk inside the squished chunk contents.
type Compressed struct {
	// ChunkSize is the partition granularity applied to the index array.
	ChunkSize int

	// Jndex maps each chunk position to the start of its contents in Values.
	Jndex []uint16

	// Values holds the deduplicated, squished index entries.
	Values []uint32
}

// Compress reapplies partition, dedup, sequence and squish to the index
// array itself. The chunk size must evenly divide the index length.
func Compress(ctx context.Context, idx []uint32, chunkSize int, order OrderFunc) (*Compressed, error) {
	blocks, err := casetab.Partition(casetab.WidenIndex(idx), chunkSize)
	if err != nil {
		return nil, err
	}
	uniques, byPos := casetab.Dedup(blocks)

	m, err := squish.BuildMatrix(ctx, uniques)
	if err != nil {
		return nil, err
	}
	res := squish.Squish(uniques, order(m))
	if err := squish.Verify(uniques, res); err != nil {
		return nil, errors.Wrap(err, "index compression")
	}

	c := &Compressed{
		ChunkSize: chunkSize,
		Jndex:     make([]uint16, len(byPos)),
		Values:    make([]uint32, len(res.Data)),
	}
	for pos, uid := range byPos {
		c.Jndex[pos] = uint16(res.Offsets[uid])
	}
	for i, v := range res.Data {
		c.Values[i] = uint32(v)
	}
	return c, nil
}
