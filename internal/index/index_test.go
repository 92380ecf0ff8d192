package index_test

import (
	"context"
	"testing"

	"github.com/skyline93/casetab/internal/index"
	"github.com/skyline93/casetab/internal/sequence"
	"github.com/skyline93/casetab/internal/squish"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "index")
}

// --------------------------------------------------------------------

var _ = Describe("Build", func() {
	It("should compose positions with unique offsets", func() {
		byPos := []int{0, 1, 2, 1}
		offsets := []int{0, 8, 16}
		Expect(index.Build(byPos, offsets)).To(Equal([]uint32{0, 8, 16, 8}))
	})
})

var _ = Describe("Compress", func() {
	order := func(m squish.Matrix) []int {
		return sequence.Improve(m, sequence.Greedy(m), 0)
	}

	// lookup resolves one index position through the two-level form.
	lookup := func(c *index.Compressed, pos int) uint32 {
		chunk := pos / c.ChunkSize
		within := pos % c.ChunkSize
		return c.Values[int(c.Jndex[chunk])+within]
	}

	It("should reconstruct every index entry", func() {
		idx := []uint32{0, 8, 16, 8, 0, 8, 16, 8, 0, 0, 0, 0, 24, 32, 0, 8}
		c, err := index.Compress(context.Background(), idx, 4, order)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Jndex).To(HaveLen(4))

		for pos, want := range idx {
			Expect(lookup(c, pos)).To(Equal(want), "position %d", pos)
		}
	})

	It("should deduplicate repeated chunks", func() {
		idx := []uint32{5, 5, 5, 5, 5, 5, 5, 5}
		c, err := index.Compress(context.Background(), idx, 4, order)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Values).To(HaveLen(4))
		Expect(c.Jndex).To(Equal([]uint16{0, 0}))
	})

	It("should reject chunk sizes that do not divide the index", func() {
		_, err := index.Compress(context.Background(), make([]uint32, 10), 4, order)
		Expect(err).To(HaveOccurred())
	})
})
