package artifact

import (
	"fmt"
	"io"
	"math/bits"

	"github.com/pkg/errors"
	"github.com/skyline93/casetab/internal/codec"
)

// WriteGo emits the table as a self-contained Go source file: the arrays as
// composite literals plus a lookup function, for embedding the table as
// static read-only data in a consuming program.
func WriteGo(w io.Writer, t *codec.Table, pkg, name string) error {
	ew := &errWriter{w: w}

	fmt.Fprintf(ew, "// Code generated by casetab. DO NOT EDIT.\n\n")
	fmt.Fprintf(ew, "package %s\n\n", pkg)
	fmt.Fprintf(ew, "const %sBlockShift = %d\n", name, bits.TrailingZeros(uint(t.BlockSize)))
	fmt.Fprintf(ew, "const %sBlockMask = %#x\n\n", name, t.BlockSize-1)

	if t.TwoLevel() {
		fmt.Fprintf(ew, "const %sChunkShift = %d\n", name, bits.TrailingZeros(uint(t.ChunkSize)))
		fmt.Fprintf(ew, "const %sChunkMask = %#x\n\n", name, t.ChunkSize-1)

		writeInt16Array(ew, name+"Data", t.Data)
		writeUint16Array(ew, name+"Jndex", t.Jndex)
		writeUint32Array(ew, name+"IndexData", t.IndexData)

		fmt.Fprintf(ew, `// %sDelta returns the case delta for k.
func %sDelta(k uint16) int16 {
	pos := uint32(k) >> %sBlockShift
	off := %sIndexData[uint32(%sJndex[pos>>%sChunkShift])+pos&%sChunkMask]
	return %sData[off+uint32(k)&%sBlockMask]
}
`, name, name, name, name, name, name, name, name, name)
		return ew.err
	}

	writeInt16Array(ew, name+"Data", t.Data)
	writeUint32Array(ew, name+"Index", t.Index)

	fmt.Fprintf(ew, `// %sDelta returns the case delta for k.
func %sDelta(k uint16) int16 {
	return %sData[%sIndex[uint32(k)>>%sBlockShift]+uint32(k)&%sBlockMask]
}
`, name, name, name, name, name, name)
	return ew.err
}

const valuesPerLine = 12

func writeInt16Array(w io.Writer, name string, vals []int16) {
	fmt.Fprintf(w, "var %s = [%d]int16{", name, len(vals))
	for i, v := range vals {
		if i%valuesPerLine == 0 {
			fmt.Fprintf(w, "\n\t")
		}
		fmt.Fprintf(w, "%d, ", v)
	}
	fmt.Fprintf(w, "\n}\n\n")
}

func writeUint16Array(w io.Writer, name string, vals []uint16) {
	fmt.Fprintf(w, "var %s = [%d]uint16{", name, len(vals))
	for i, v := range vals {
		if i%valuesPerLine == 0 {
			fmt.Fprintf(w, "\n\t")
		}
		fmt.Fprintf(w, "%d, ", v)
	}
	fmt.Fprintf(w, "\n}\n\n")
}

func writeUint32Array(w io.Writer, name string, vals []uint32) {
	fmt.Fprintf(w, "var %s = [%d]uint32{", name, len(vals))
	for i, v := range vals {
		if i%valuesPerLine == 0 {
			fmt.Fprintf(w, "\n\t")
		}
		fmt.Fprintf(w, "%d, ", v)
	}
	fmt.Fprintf(w, "\n}\n\n")
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = errors.Wrap(err, "write source")
	}
	return n, err
}
