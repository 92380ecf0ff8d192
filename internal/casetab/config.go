package casetab

import (
	"fmt"
	"math/bits"
	"time"
)

// MaxDomain is the size of the full code point domain covered by a table.
const MaxDomain = 1 << 16

// SearchMode selects how the block sequence is chosen.
type SearchMode uint

// Constants for the different search strategies.
const (
	SearchGreedy  SearchMode = 0 // constructive heuristic only
	SearchImprove SearchMode = 1 // heuristic plus local improvement
	SearchExact   SearchMode = 2 // brute-force permutation search
	SearchRandom  SearchMode = 3 // seeded randomized restarts
	SearchInvalid SearchMode = 4
)

func (m SearchMode) String() string {
	switch m {
	case SearchGreedy:
		return "heuristic"
	case SearchImprove:
		return "heuristic+improve"
	case SearchExact:
		return "exact"
	case SearchRandom:
		return "randomized"
	}
	return "invalid"
}

// ParseSearchMode converts the given string to a SearchMode.
func ParseSearchMode(s string) (SearchMode, error) {
	for m := SearchGreedy; m < SearchInvalid; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	return SearchInvalid, fmt.Errorf("unknown search mode %q", s)
}

const DefaultTimeBudget = 30 * time.Second

// Config bundles all options for building a table.
type Config struct {
	// BlockSize is the partition granularity for the primary table. It must
	// be a power of two that divides the domain size.
	BlockSize int

	// SequenceSize is the partition granularity for the secondary index
	// compression. Zero leaves the index uncompressed.
	SequenceSize int

	Search SearchMode

	// TimeBudget caps the effort spent by exact and randomized search.
	TimeBudget time.Duration

	// Seed and Restarts only apply to randomized search.
	Seed     int64
	Restarts int
}

// TimeBudgetOrDefault returns the configured search budget, or the default
// when unset.
func (c Config) TimeBudgetOrDefault() time.Duration {
	if c.TimeBudget <= 0 {
		return DefaultTimeBudget
	}
	return c.TimeBudget
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Validate checks the configuration against the given domain size.
func (c Config) Validate(domain int) error {
	if !isPowerOfTwo(domain) || domain > MaxDomain {
		return &ConfigError{Reason: fmt.Sprintf("domain size %d must be a power of two up to %d", domain, MaxDomain)}
	}
	if !isPowerOfTwo(c.BlockSize) {
		return &ConfigError{Reason: fmt.Sprintf("block size %d is not a power of two", c.BlockSize)}
	}
	if c.BlockSize > domain {
		return &ConfigError{Reason: fmt.Sprintf("block size %d exceeds domain size %d", c.BlockSize, domain)}
	}
	if c.SequenceSize != 0 {
		blocks := domain / c.BlockSize
		if !isPowerOfTwo(c.SequenceSize) || c.SequenceSize > blocks {
			return &ConfigError{Reason: fmt.Sprintf("sequence size %d must be a power of two up to %d", c.SequenceSize, blocks)}
		}
	}
	if c.Search >= SearchInvalid {
		return &ConfigError{Reason: "unknown search mode"}
	}
	return nil
}

// BlockShift returns log2 of the block size.
func (c Config) BlockShift() uint {
	return uint(bits.TrailingZeros(uint(c.BlockSize)))
}
