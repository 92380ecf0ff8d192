package casetab_test

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/skyline93/casetab/internal/casetab"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "casetab")
}

// --------------------------------------------------------------------

var _ = Describe("Partition", func() {
	It("should split the domain into contiguous blocks", func() {
		raw := make([]int32, 16)
		for i := range raw {
			raw[i] = int32(i)
		}
		blocks, err := casetab.Partition(raw, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(blocks).To(HaveLen(4))
		Expect(blocks[0]).To(Equal(casetab.Block{0, 1, 2, 3}))
		Expect(blocks[3]).To(Equal(casetab.Block{12, 13, 14, 15}))
	})

	It("should reject sizes that do not divide the domain", func() {
		_, err := casetab.Partition(make([]int32, 16), 5)
		var cerr *casetab.ConfigError
		Expect(errors.As(err, &cerr)).To(BeTrue())
	})
})

var _ = Describe("Dedup", func() {
	raw := []int32{
		7, 7, 0, 0,
		0, 0, 0, 0,
		7, 7, 0, 0,
		0, 0, 0, 0,
	}

	It("should collapse identical blocks in first-seen order", func() {
		blocks, err := casetab.Partition(raw, 4)
		Expect(err).NotTo(HaveOccurred())

		uniques, byPos := casetab.Dedup(blocks)
		Expect(uniques).To(HaveLen(2))
		Expect(uniques[0]).To(Equal(casetab.Block{7, 7, 0, 0}))
		Expect(uniques[1]).To(Equal(casetab.Block{0, 0, 0, 0}))
		Expect(byPos).To(Equal([]int{0, 1, 0, 1}))
	})

	It("should be idempotent", func() {
		blocks, err := casetab.Partition(raw, 4)
		Expect(err).NotTo(HaveOccurred())

		u1, p1 := casetab.Dedup(blocks)
		u2, p2 := casetab.Dedup(blocks)
		Expect(u1).To(Equal(u2))
		Expect(p1).To(Equal(p2))
	})

	It("should keep a single canonical all-zero block", func() {
		blocks, err := casetab.Partition(make([]int32, 64), 8)
		Expect(err).NotTo(HaveOccurred())

		uniques, byPos := casetab.Dedup(blocks)
		Expect(uniques).To(HaveLen(1))
		Expect(byPos).To(Equal([]int{0, 0, 0, 0, 0, 0, 0, 0}))
	})
})

var _ = Describe("Hash", func() {
	It("should identify blocks by contents only", func() {
		a := casetab.Hash([]int32{1, 2, 3})
		b := casetab.Hash([]int32{1, 2, 3})
		c := casetab.Hash([]int32{1, 2, 4})
		Expect(a.Equal(b)).To(BeTrue())
		Expect(a.Equal(c)).To(BeFalse())
		Expect(a.IsNull()).To(BeFalse())
	})

	It("should shorten IDs for log output", func() {
		id := casetab.Hash([]int32{1, 2, 3})
		Expect(id.Str()).To(Equal(id.String()[:8]))

		var null casetab.ID
		Expect(null.Str()).To(Equal("[null]"))

		var nilID *casetab.ID
		Expect(nilID.Str()).To(Equal("[nil]"))
	})
})

var _ = Describe("Config", func() {
	It("should accept a sane configuration", func() {
		cfg := casetab.Config{BlockSize: 256, SequenceSize: 16}
		Expect(cfg.Validate(casetab.MaxDomain)).To(Succeed())
	})

	It("should reject block sizes that are not powers of two", func() {
		cfg := casetab.Config{BlockSize: 100}
		Expect(cfg.Validate(casetab.MaxDomain)).To(HaveOccurred())
	})

	It("should reject block sizes above the domain", func() {
		cfg := casetab.Config{BlockSize: 2048}
		Expect(cfg.Validate(1024)).To(HaveOccurred())
	})

	It("should reject oversized sequence sizes", func() {
		cfg := casetab.Config{BlockSize: 256, SequenceSize: 512}
		Expect(cfg.Validate(casetab.MaxDomain)).To(HaveOccurred())
	})

	It("should round-trip search mode names", func() {
		for m := casetab.SearchGreedy; m < casetab.SearchInvalid; m++ {
			parsed, err := casetab.ParseSearchMode(m.String())
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed).To(Equal(m))
		}
		_, err := casetab.ParseSearchMode("bogus")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("LoadDeltas", func() {
	It("should fill a dense table", func() {
		in := strings.NewReader("# simple folds\n0041;32\n005A;32\n00C0; -64\n\n")
		raw, err := casetab.LoadDeltas(in)
		Expect(err).NotTo(HaveOccurred())
		Expect(raw).To(HaveLen(casetab.MaxDomain))
		Expect(raw[0x41]).To(Equal(int16(32)))
		Expect(raw[0x5A]).To(Equal(int16(32)))
		Expect(raw[0xC0]).To(Equal(int16(-64)))
		Expect(raw[0x42]).To(Equal(int16(0)))
	})

	It("should reject malformed lines", func() {
		_, err := casetab.LoadDeltas(strings.NewReader("0041=32\n"))
		Expect(err).To(HaveOccurred())

		_, err = casetab.LoadDeltas(strings.NewReader("GGGG;1\n"))
		Expect(err).To(HaveOccurred())

		_, err = casetab.LoadDeltas(strings.NewReader("0041;notanumber\n"))
		Expect(err).To(HaveOccurred())
	})
})
