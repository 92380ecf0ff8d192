package builder_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/skyline93/casetab/internal/builder"
	"github.com/skyline93/casetab/internal/casetab"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "builder")
}

// --------------------------------------------------------------------

// scenarioRaw holds four 256-entry blocks: a block starting with eight 32s,
// the zero block, a block ending with eight 32s, and the zero block again.
func scenarioRaw() []int16 {
	raw := make([]int16, 1024)
	for i := 0; i < 8; i++ {
		raw[i] = 32
	}
	for i := 760; i < 768; i++ {
		raw[i] = 32
	}
	return raw
}

// foldishRaw resembles a simple case-fold delta table over a 1024-key
// domain: a few contiguous runs of +/-32 and an isolated wide delta.
func foldishRaw() []int16 {
	raw := make([]int16, 1024)
	for k := 0x41; k <= 0x5A; k++ {
		raw[k] = 32
	}
	for k := 0xC0; k <= 0xDE; k++ {
		raw[k] = 32
	}
	for k := 0x100; k < 0x130; k += 2 {
		raw[k] = 1
	}
	raw[0x178] = -121
	return raw
}

func roundTrip(raw []int16, cfg casetab.Config) {
	t, err := builder.Build(context.Background(), raw, cfg)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	for k := range raw {
		ExpectWithOffset(1, t.Lookup(uint16(k))).To(Equal(raw[k]), "key %#04x", k)
	}
}

var _ = Describe("Build", func() {
	It("should compress the three-unique-block scenario", func() {
		raw := scenarioRaw()
		t, err := builder.Build(context.Background(), raw, casetab.Config{
			BlockSize: 256,
			Search:    casetab.SearchExact,
		})
		Expect(err).NotTo(HaveOccurred())

		// Three unique blocks of 256 entries squish down to 272: the zero
		// block vanishes into the first block's zero tail, and the third
		// block's zero head overlaps everything but its final eight entries.
		Expect(t.Data).To(HaveLen(272))
		Expect(t.Index).To(Equal([]uint32{0, 8, 16, 8}))

		for k := range raw {
			Expect(t.Lookup(uint16(k))).To(Equal(raw[k]), "key %#04x", k)
		}
	})

	It("should reach the same size heuristically on the scenario", func() {
		t, err := builder.Build(context.Background(), scenarioRaw(), casetab.Config{
			BlockSize: 256,
			Search:    casetab.SearchImprove,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Data).To(HaveLen(272))
	})

	It("should round-trip every key for every block size and mode", func() {
		raw := foldishRaw()
		for _, bs := range []int{16, 64, 256} {
			for _, mode := range []casetab.SearchMode{casetab.SearchGreedy, casetab.SearchImprove} {
				roundTrip(raw, casetab.Config{BlockSize: bs, Search: mode})
			}
		}
	})

	It("should round-trip under randomized search", func() {
		roundTrip(foldishRaw(), casetab.Config{
			BlockSize: 64,
			Search:    casetab.SearchRandom,
			Seed:      3,
			Restarts:  8,
		})
	})

	It("should fall back to the heuristic when exact search is too big", func() {
		// Nearly every 16-entry block is distinct here, which is more
		// uniques than brute force accepts, so the build must degrade
		// instead of failing.
		raw := make([]int16, 1024)
		for k := range raw {
			raw[k] = int16((k*7)%23 - 11)
		}
		roundTrip(raw, casetab.Config{BlockSize: 16, Search: casetab.SearchExact})
	})

	It("should build a two-level index", func() {
		raw := foldishRaw()
		t, err := builder.Build(context.Background(), raw, casetab.Config{
			BlockSize:    64,
			SequenceSize: 4,
			Search:       casetab.SearchImprove,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(t.TwoLevel()).To(BeTrue())
		Expect(t.Index).To(BeNil())
		Expect(t.Jndex).To(HaveLen(4))

		for k := range raw {
			Expect(t.Lookup(uint16(k))).To(Equal(raw[k]), "key %#04x", k)
		}
	})

	It("should be deterministic outside randomized mode", func() {
		cfg := casetab.Config{BlockSize: 64, SequenceSize: 4, Search: casetab.SearchImprove}
		a, err := builder.Build(context.Background(), foldishRaw(), cfg)
		Expect(err).NotTo(HaveOccurred())
		b, err := builder.Build(context.Background(), foldishRaw(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(b))
	})

	It("should reject invalid configurations up front", func() {
		_, err := builder.Build(context.Background(), foldishRaw(), casetab.Config{BlockSize: 100})
		var cerr *casetab.ConfigError
		Expect(errors.As(err, &cerr)).To(BeTrue())
	})

	It("should handle an all-zero table", func() {
		raw := make([]int16, 1024)
		t, err := builder.Build(context.Background(), raw, casetab.Config{
			BlockSize: 256,
			Search:    casetab.SearchImprove,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Data).To(HaveLen(256))
		for k := range raw {
			Expect(t.Lookup(uint16(k))).To(Equal(int16(0)))
		}
	})
})
