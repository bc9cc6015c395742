package pmx

import (
	"errors"
	"fmt"
	"io"

	"github.com/anaminus/parse"

	"github.com/Faultbox/pmxkit/pkg/encoding"
)

// blobChunk bounds each allocation while reading a length-prefixed string,
// so a corrupt length cannot force a huge buffer up front.
const blobChunk = 64 * 1024

// maxPrealloc caps slice capacity taken from an untrusted count.
const maxPrealloc = 4096

// reader is the decode cursor. Errors are sticky: after the first failure
// every read is a no-op returning a zero value, and err reports the cause.
type reader struct {
	br       *parse.BinaryReader
	settings Settings
	scratch  [4]byte
}

func newReader(r io.Reader) *reader {
	return &reader{br: parse.NewBinaryReader(r)}
}

func (r *reader) err() error {
	return r.br.Err()
}

func (r *reader) failed() bool {
	return r.br.Err() != nil
}

func (r *reader) offset() int64 {
	return r.br.N()
}

func (r *reader) fail(err error) {
	r.br.Add(0, err)
}

func (r *reader) u8() uint8 {
	var v uint8
	r.br.Number(&v)
	return v
}

func (r *reader) u16() uint16 {
	var v uint16
	r.br.Number(&v)
	return v
}

func (r *reader) i32() int32 {
	var v int32
	r.br.Number(&v)
	return v
}

func (r *reader) u32() uint32 {
	var v uint32
	r.br.Number(&v)
	return v
}

func (r *reader) f32() float32 {
	var v float32
	r.br.Number(&v)
	return v
}

func (r *reader) vec2() Vec2 {
	var v Vec2
	r.floats(v[:])
	return v
}

func (r *reader) vec3() Vec3 {
	var v Vec3
	r.floats(v[:])
	return v
}

func (r *reader) vec4() Vec4 {
	var v Vec4
	r.floats(v[:])
	return v
}

// floats fills dst with consecutive float32 values. parse only accepts
// scalars, so vectors are read component by component.
func (r *reader) floats(dst []float32) {
	for i := range dst {
		if r.br.Number(&dst[i]) {
			return
		}
	}
}

// count reads a 4-byte element count.
func (r *reader) count() int {
	return int(r.u32())
}

// index reads a nullable reference of the given kind.
func (r *reader) index(kind IndexKind) int32 {
	b := r.scratch[:r.settings.Width(kind)]
	if r.br.Bytes(b) {
		return 0
	}
	return int32(DecodeIndex(b, kind))
}

// vertexIndex reads an unsigned vertex reference.
func (r *reader) vertexIndex() uint32 {
	b := r.scratch[:r.settings.VertexIndexSize]
	if r.br.Bytes(b) {
		return 0
	}
	return uint32(DecodeIndex(b, KindVertex))
}

// text reads a length-prefixed string in the document encoding.
func (r *reader) text() string {
	n := r.u32()
	if r.failed() {
		return ""
	}
	if r.settings.Encoding == encoding.UTF16LE && n%2 != 0 {
		r.fail(fmt.Errorf("%w: odd UTF-16 byte count %d", ErrMalformedString, n))
		return ""
	}
	data := r.blob(int64(n))
	if r.failed() {
		return ""
	}
	s, err := encoding.Decode(r.settings.Encoding, data)
	if err != nil {
		r.fail(fmt.Errorf("%w: %w", ErrInvalidTextEncoding, err))
		return ""
	}
	return s
}

func (r *reader) blob(n int64) []byte {
	data := make([]byte, 0, min(n, blobChunk))
	for remaining := n; remaining > 0; {
		chunk := min(remaining, blobChunk)
		start := len(data)
		data = append(data, make([]byte, chunk)...)
		if r.br.Bytes(data[start:]) {
			return nil
		}
		remaining -= chunk
	}
	return data
}

// truncation maps the end-of-stream errors surfaced by the cursor onto
// ErrTruncatedInput, leaving every other error untouched.
func truncation(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w", ErrTruncatedInput, err)
	}
	return err
}

// newList returns a slice ready to receive n decoded elements. Empty lists
// decode as nil.
func newList[S ~[]E, E any](n int) S {
	if n == 0 {
		return nil
	}
	return make(S, 0, min(n, maxPrealloc))
}
