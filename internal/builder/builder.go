// Package builder runs the offline compression pipeline: partition the raw
// delta table into blocks, deduplicate them, choose a squish order, merge
// overlapping blocks into a flat data array and derive the lookup index,
// optionally compressing the index the same way. The result is a codec.Table
// ready for embedding; it is self-checked against the raw input before being
// returned.
package builder

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/skyline93/casetab/internal/casetab"
	"github.com/skyline93/casetab/internal/codec"
	"github.com/skyline93/casetab/internal/index"
	"github.com/skyline93/casetab/internal/sequence"
	"github.com/skyline93/casetab/internal/squish"
)

// Build compresses raw into a lookup table according to cfg.
func Build(ctx context.Context, raw []int16, cfg casetab.Config) (*codec.Table, error) {
	if err := cfg.Validate(len(raw)); err != nil {
		return nil, err
	}

	blocks, err := casetab.Partition(casetab.Widen(raw), cfg.BlockSize)
	if err != nil {
		return nil, err
	}
	uniques, byPos := casetab.Dedup(blocks)
	log.Debugf("partitioned %d deltas into %d blocks, %d unique", len(raw), len(blocks), len(uniques))
	if log.IsLevelEnabled(log.DebugLevel) {
		for uid, b := range uniques {
			id := casetab.Hash(b)
			log.Debugf("unique block %d: %s", uid, id.Str())
		}
	}

	m, err := squish.BuildMatrix(ctx, uniques)
	if err != nil {
		return nil, err
	}

	order, err := chooseOrder(ctx, m, cfg)
	if err != nil {
		return nil, err
	}
	res := squish.Squish(uniques, order)
	if err := squish.Verify(uniques, res); err != nil {
		return nil, errors.Wrap(err, "squish")
	}
	log.Debugf("squished %d unique blocks to %d entries (saved %d)",
		len(uniques), len(res.Data), len(uniques)*cfg.BlockSize-len(res.Data))

	t := &codec.Table{
		Domain:    len(raw),
		BlockSize: cfg.BlockSize,
		Data:      narrow(res.Data),
	}

	idx := index.Build(byPos, res.Offsets)
	if cfg.SequenceSize > 0 {
		chooser := func(m squish.Matrix) []int {
			order, err := chooseOrder(ctx, m, cfg)
			if err != nil {
				// chooseOrder only fails on context errors; any permutation
				// decodes correctly, compactness is all that is lost.
				return sequence.Greedy(m)
			}
			return order
		}
		c, err := index.Compress(ctx, idx, cfg.SequenceSize, chooser)
		if err != nil {
			return nil, err
		}
		t.ChunkSize = c.ChunkSize
		t.Jndex = c.Jndex
		t.IndexData = c.Values
	} else {
		t.Index = idx
	}

	if err := Verify(t, raw); err != nil {
		return nil, err
	}
	return t, nil
}

// Verify decodes every key of the table and compares it with the raw input.
// A mismatch is an IntegrityError; a table failing this check must not be
// emitted.
func Verify(t *codec.Table, raw []int16) error {
	for k := range raw {
		if got := t.Lookup(uint16(k)); got != raw[k] {
			return &casetab.IntegrityError{Key: k, Want: int32(raw[k]), Got: int32(got)}
		}
	}
	return nil
}

// chooseOrder picks the block sequence for the configured search mode. Exact
// search that exceeds its budget degrades to the heuristic path with a
// warning instead of failing the build.
func chooseOrder(ctx context.Context, m squish.Matrix, cfg casetab.Config) ([]int, error) {
	switch cfg.Search {
	case casetab.SearchGreedy:
		return sequence.Greedy(m), nil

	case casetab.SearchExact:
		dctx, cancel := context.WithTimeout(ctx, cfg.TimeBudgetOrDefault())
		order, err := sequence.Exact(dctx, m)
		cancel()
		if err == nil {
			return order, nil
		}
		if !errors.Is(err, sequence.ErrBudget) {
			return nil, err
		}
		log.Warnf("exact search over %d blocks exceeds the budget, falling back to heuristic: %v", len(m), err)
		fallthrough

	case casetab.SearchImprove:
		return sequence.Improve(m, sequence.Greedy(m), 0), nil

	case casetab.SearchRandom:
		dctx, cancel := context.WithTimeout(ctx, cfg.TimeBudgetOrDefault())
		defer cancel()
		return sequence.Randomized(dctx, m, cfg.Seed, cfg.Restarts), nil
	}
	return nil, &casetab.ConfigError{Reason: "unknown search mode"}
}

func narrow(data []int32) []int16 {
	out := make([]int16, len(data))
	for i, d := range data {
		out[i] = int16(d)
	}
	return out
}
