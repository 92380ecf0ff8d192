package casetab

import (
	"encoding/binary"
	"encoding/hex"

	sha256 "github.com/minio/sha256-simd"
)

// idSize contains the size of an ID, in bytes.
const idSize = sha256.Size

// ID identifies a block by the hash of its delta contents.
type ID [idSize]byte

const shortStr = 4

// Str returns the shortened string version of id.
func (id *ID) Str() string {
	if id == nil {
		return "[nil]"
	}

	if id.IsNull() {
		return "[null]"
	}

	return hex.EncodeToString(id[:shortStr])
}

func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// IsNull returns true iff id only consists of null bytes.
func (id ID) IsNull() bool {
	var nullID ID

	return id == nullID
}

// Equal compares an ID to another other.
func (id ID) Equal(other ID) bool {
	return id == other
}

// Hash returns the ID for a block's contents. Two blocks receive the same
// ID iff their delta sequences are identical, which makes the all-zero
// block a single canonical instance.
func Hash(deltas []int32) ID {
	h := sha256.New()
	var buf [4]byte
	for _, d := range deltas {
		binary.LittleEndian.PutUint32(buf[:], uint32(d))
		h.Write(buf[:])
	}

	var id ID
	copy(id[:], h.Sum(nil))
	return id
}
