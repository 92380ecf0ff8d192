// Package codec resolves keys against a compressed case-delta table. All
// lookups are pure array indexing over immutable data, so a Table may be
// shared by any number of concurrent readers without locking.
package codec

import "math/bits"

// Table is the final build artifact: the squished delta data plus either a
// flat index or a two-level compressed index.
type Table struct {
	// Domain is the number of keys covered, a power of two.
	Domain int

	// BlockSize is the partition granularity of the delta data.
	BlockSize int

	// Data holds the squished delta blocks.
	Data []int16

	// Index maps each block position to its offset in Data. Nil when the
	// index is stored in two-level form.
	Index []uint32

	// ChunkSize, Jndex and IndexData carry the two-level index form:
	// IndexData holds the squished index entries and Jndex locates each
	// index chunk within it. Jndex is nil for the flat form.
	ChunkSize int
	Jndex     []uint16
	IndexData []uint32
}

// TwoLevel reports whether the index is stored in compressed form.
func (t *Table) TwoLevel() bool {
	return t.Jndex != nil
}

// Lookup returns the delta stored for key k. Keys must be below Domain;
// out-of-range keys are a caller contract violation.
func (t *Table) Lookup(k uint16) int16 {
	shift := uint(bits.TrailingZeros(uint(t.BlockSize)))
	mask := uint32(t.BlockSize - 1)
	pos := uint32(k) >> shift

	if t.Jndex == nil {
		return t.Data[t.Index[pos]+uint32(k)&mask]
	}

	cshift := uint(bits.TrailingZeros(uint(t.ChunkSize)))
	cmask := uint32(t.ChunkSize - 1)
	off := t.IndexData[uint32(t.Jndex[pos>>cshift])+pos&cmask]
	return t.Data[off+uint32(k)&mask]
}

// Fold returns the case-converted counterpart of k, i.e. k plus its delta.
func (t *Table) Fold(k uint16) uint16 {
	return uint16(int32(k) + int32(t.Lookup(k)))
}

// Merged is the single-array table form: the first Domain/BlockSize entries
// are the index, whose values point directly into the remainder of the same
// array, so decoding is t[t[k>>shift]+(k&mask)].
type Merged struct {
	BlockSize int
	T         []int32
}

// Merged returns the single-array form of a flat-index table.
func (t *Table) Merged() Merged {
	n := len(t.Index)
	arr := make([]int32, n+len(t.Data))
	for i, off := range t.Index {
		arr[i] = int32(off) + int32(n)
	}
	for i, d := range t.Data {
		arr[n+i] = int32(d)
	}
	return Merged{BlockSize: t.BlockSize, T: arr}
}

// Lookup returns the delta stored for key k.
func (m Merged) Lookup(k uint16) int16 {
	shift := uint(bits.TrailingZeros(uint(m.BlockSize)))
	mask := uint32(m.BlockSize - 1)
	return int16(m.T[uint32(m.T[uint32(k)>>shift])+uint32(k)&mask])
}

// OpCost reports the fixed per-lookup work of a table configuration.
type OpCost struct {
	Reads  int // memory reads
	Adds   int // integer additions
	BitOps int // shifts and masks
}

// Cost returns the per-lookup operation counts for the table's form. The
// single-array and flat-index forms decode with two reads; the two-level
// form pays one extra read and two extra bit operations for the jndex hop.
func (t *Table) Cost() OpCost {
	if t.TwoLevel() {
		return OpCost{Reads: 3, Adds: 2, BitOps: 4}
	}
	return OpCost{Reads: 2, Adds: 1, BitOps: 2}
}

// SizeBytes returns the total size of the stored arrays.
func (t *Table) SizeBytes() int {
	return 2*len(t.Data) + 4*len(t.Index) + 2*len(t.Jndex) + 4*len(t.IndexData)
}
