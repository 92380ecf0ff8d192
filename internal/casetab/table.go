package casetab

import "fmt"

// Block is a fixed-size contiguous slice of the delta array. Blocks are
// computed once from the raw input and never mutated afterwards.
type Block []int32

// Partition splits raw into contiguous blocks of the given size. The size
// must evenly divide len(raw).
func Partition(raw []int32, size int) ([]Block, error) {
	if size <= 0 || len(raw)%size != 0 {
		return nil, &ConfigError{Reason: fmt.Sprintf("block size %d does not divide domain size %d", size, len(raw))}
	}

	blocks := make([]Block, len(raw)/size)
	for i := range blocks {
		blocks[i] = Block(raw[i*size : (i+1)*size])
	}
	return blocks, nil
}

// Dedup collapses byte-identical blocks. It returns the distinct block
// contents in first-seen order plus, for every block position, the id of its
// unique representative. Deduplication is keyed by content hash, so the
// all-zero block collapses to a single instance like any other repeat.
func Dedup(blocks []Block) ([]Block, []int) {
	var uniques []Block
	byPos := make([]int, len(blocks))
	seen := make(map[ID]int)

	for pos, b := range blocks {
		id := Hash(b)
		uid, ok := seen[id]
		if !ok {
			uid = len(uniques)
			uniques = append(uniques, b)
			seen[id] = uid
		}
		byPos[pos] = uid
	}
	return uniques, byPos
}

// Widen converts a raw delta table to the pipeline's working element type.
func Widen(raw []int16) []int32 {
	out := make([]int32, len(raw))
	for i, d := range raw {
		out[i] = int32(d)
	}
	return out
}

// WidenIndex converts an index array to the pipeline's working element type
// so the index can be compressed by the same machinery as the delta table.
func WidenIndex(idx []uint32) []int32 {
	out := make([]int32, len(idx))
	for i, v := range idx {
		out[i] = int32(v)
	}
	return out
}
