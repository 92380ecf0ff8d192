// Package artifact reads and writes the on-disk form of a compressed table:
// a small header followed by the arrays as little-endian fixed-width
// integers, optionally zstd-compressed as a whole.
package artifact

import (
	"bytes"
	"encoding/binary"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/skyline93/casetab/internal/codec"
)

var magic = []byte{'C', 'T', 'A', 'B'}

const version = uint16(1)

const (
	flagTwoLevel = uint8(1 << 0)
	flagZstd     = uint8(1 << 1)
)

// maxArrayLen caps array lengths read from untrusted input.
const maxArrayLen = 1 << 26

// maxDomain bounds the key domain a table can cover; lookups take uint16
// keys.
const maxDomain = 1 << 16

var (
	errBadMagic   = errors.New("artifact: bad magic byte sequence")
	errBadVersion = errors.New("artifact: unsupported version")
)

var (
	allocEnc sync.Once
	allocDec sync.Once
	enc      *zstd.Encoder
	dec      *zstd.Decoder
)

func getZstdEncoder() *zstd.Encoder {
	allocEnc.Do(func() {
		opts := []zstd.EOption{
			// Disable CRC, the builder self-check already guards the
			// contents and it makes the output four bytes shorter.
			zstd.WithEncoderCRC(false),
		}

		e, err := zstd.NewWriter(nil, opts...)
		if err != nil {
			panic(err)
		}
		enc = e
	})
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	allocDec.Do(func() {
		d, err := zstd.NewReader(nil)
		if err != nil {
			panic(err)
		}
		dec = d
	})
	return dec
}

// Encode writes t to w. When compress is set the array payload is
// zstd-compressed; the header always stays uncompressed so the configuration
// can be inspected cheaply.
func Encode(w io.Writer, t *codec.Table, compress bool) error {
	flags := uint8(0)
	if t.TwoLevel() {
		flags |= flagTwoLevel
	}
	if compress {
		flags |= flagZstd
	}

	payload := encodePayload(t)
	if compress {
		payload = getZstdEncoder().EncodeAll(payload, nil)
	}

	hdr := new(bytes.Buffer)
	hdr.Write(magic)
	writeU16(hdr, version)
	hdr.WriteByte(flags)
	writeU32(hdr, uint32(t.Domain))
	writeU32(hdr, uint32(t.BlockSize))
	writeU32(hdr, uint32(t.ChunkSize))
	writeU32(hdr, uint32(len(payload)))

	if _, err := w.Write(hdr.Bytes()); err != nil {
		return errors.Wrap(err, "write header")
	}
	if _, err := w.Write(payload); err != nil {
		return errors.Wrap(err, "write payload")
	}
	return nil
}

func encodePayload(t *codec.Table) []byte {
	buf := new(bytes.Buffer)

	writeU32(buf, uint32(len(t.Data)))
	for _, d := range t.Data {
		writeU16(buf, uint16(d))
	}

	if t.TwoLevel() {
		writeU32(buf, uint32(len(t.Jndex)))
		for _, v := range t.Jndex {
			writeU16(buf, v)
		}
		writeU32(buf, uint32(len(t.IndexData)))
		for _, v := range t.IndexData {
			writeU32(buf, v)
		}
		return buf.Bytes()
	}

	writeU32(buf, uint32(len(t.Index)))
	for _, v := range t.Index {
		writeU32(buf, v)
	}
	return buf.Bytes()
}

// Decode reads a table written by Encode.
func Decode(r io.Reader) (*codec.Table, error) {
	hdr := make([]byte, 4+2+1+4+4+4+4)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	if !bytes.Equal(hdr[:4], magic) {
		return nil, errBadMagic
	}
	if binary.LittleEndian.Uint16(hdr[4:6]) != version {
		return nil, errBadVersion
	}

	flags := hdr[6]
	t := &codec.Table{
		Domain:    int(binary.LittleEndian.Uint32(hdr[7:11])),
		BlockSize: int(binary.LittleEndian.Uint32(hdr[11:15])),
		ChunkSize: int(binary.LittleEndian.Uint32(hdr[15:19])),
	}

	payloadLen := binary.LittleEndian.Uint32(hdr[19:23])
	if payloadLen > maxArrayLen {
		return nil, errors.Errorf("artifact: payload of %d bytes exceeds limit", payloadLen)
	}
	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, errors.Wrap(err, "read payload")
	}

	if flags&flagZstd != 0 {
		var err error
		payload, err = getZstdDecoder().DecodeAll(payload, nil)
		if err != nil {
			return nil, errors.Wrap(err, "decompress payload")
		}
	}

	p := &payloadReader{buf: payload}
	n := p.length()
	t.Data = make([]int16, n)
	for i := range t.Data {
		t.Data[i] = int16(p.u16())
	}

	if flags&flagTwoLevel != 0 {
		n = p.length()
		t.Jndex = make([]uint16, n)
		for i := range t.Jndex {
			t.Jndex[i] = p.u16()
		}
		n = p.length()
		t.IndexData = make([]uint32, n)
		for i := range t.IndexData {
			t.IndexData[i] = p.u32()
		}
	} else {
		n = p.length()
		t.Index = make([]uint32, n)
		for i := range t.Index {
			t.Index[i] = p.u32()
		}
	}

	if p.err != nil {
		return nil, p.err
	}
	if err := validate(t); err != nil {
		return nil, err
	}
	return t, nil
}

// validate rejects artifacts whose header geometry or offsets do not fit
// together. Decoded tables are indexed without bounds checks on the lookup
// path, so a corrupt artifact must fail here rather than panic later.
func validate(t *codec.Table) error {
	if !isPowerOfTwo(t.BlockSize) || !isPowerOfTwo(t.Domain) || t.BlockSize > t.Domain || t.Domain > maxDomain {
		return errors.Errorf("artifact: implausible geometry: domain %d, block size %d", t.Domain, t.BlockSize)
	}
	positions := t.Domain / t.BlockSize

	if t.TwoLevel() {
		if !isPowerOfTwo(t.ChunkSize) || t.ChunkSize > positions {
			return errors.Errorf("artifact: implausible chunk size %d for %d block positions", t.ChunkSize, positions)
		}
		if len(t.Jndex) != positions/t.ChunkSize {
			return errors.Errorf("artifact: jndex holds %d chunks, expected %d", len(t.Jndex), positions/t.ChunkSize)
		}
		for i, v := range t.Jndex {
			if int(v)+t.ChunkSize > len(t.IndexData) {
				return errors.Errorf("artifact: jndex entry %d points past the index data", i)
			}
		}
		for i, v := range t.IndexData {
			if int(v)+t.BlockSize > len(t.Data) {
				return errors.Errorf("artifact: index entry %d points past the data array", i)
			}
		}
		return nil
	}

	if len(t.Index) != positions {
		return errors.Errorf("artifact: index holds %d blocks, expected %d", len(t.Index), positions)
	}
	for i, v := range t.Index {
		if int(v)+t.BlockSize > len(t.Data) {
			return errors.Errorf("artifact: index entry %d points past the data array", i)
		}
	}
	return nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

type payloadReader struct {
	buf []byte
	off int
	err error
}

func (p *payloadReader) u16() uint16 {
	if p.err != nil || p.off+2 > len(p.buf) {
		p.fail()
		return 0
	}
	v := binary.LittleEndian.Uint16(p.buf[p.off:])
	p.off += 2
	return v
}

func (p *payloadReader) u32() uint32 {
	if p.err != nil || p.off+4 > len(p.buf) {
		p.fail()
		return 0
	}
	v := binary.LittleEndian.Uint32(p.buf[p.off:])
	p.off += 4
	return v
}

// length reads an array count and bounds it against the limit.
func (p *payloadReader) length() uint32 {
	n := p.u32()
	if n > maxArrayLen {
		p.err = errors.New("artifact: array length exceeds limit")
		return 0
	}
	return n
}

func (p *payloadReader) fail() {
	if p.err == nil {
		p.err = errors.New("artifact: truncated payload")
	}
}
