package pmx

import (
	"fmt"
	"io"
	"math"

	"github.com/anaminus/parse"

	"github.com/Faultbox/pmxkit/pkg/encoding"
)

// writer is the encode cursor, mirroring reader: the first failure sticks and
// later writes are skipped.
type writer struct {
	bw       *parse.BinaryWriter
	settings Settings
	scratch  [4]byte
}

func newWriter(w io.Writer) *writer {
	return &writer{bw: parse.NewBinaryWriter(w)}
}

func (w *writer) err() error {
	return w.bw.Err()
}

func (w *writer) failed() bool {
	return w.bw.Err() != nil
}

func (w *writer) offset() int64 {
	return w.bw.N()
}

func (w *writer) fail(err error) {
	w.bw.Add(0, err)
}

func (w *writer) u8(v uint8)     { w.bw.Number(v) }
func (w *writer) u16(v uint16)   { w.bw.Number(v) }
func (w *writer) i32(v int32)    { w.bw.Number(v) }
func (w *writer) u32(v uint32)   { w.bw.Number(v) }
func (w *writer) f32(v float32)  { w.bw.Number(v) }
func (w *writer) vec2(v Vec2)    { w.floats(v[:]) }
func (w *writer) vec3(v Vec3)    { w.floats(v[:]) }
func (w *writer) vec4(v Vec4)    { w.floats(v[:]) }
func (w *writer) bytes(b []byte) { w.bw.Bytes(b) }

func (w *writer) floats(src []float32) {
	for _, x := range src {
		if w.bw.Number(x) {
			return
		}
	}
}

func (w *writer) flag(v bool) {
	if v {
		w.u8(1)
	} else {
		w.u8(0)
	}
}

// count writes a 4-byte element count taken from the in-memory length.
func (w *writer) count(n int) {
	if n < 0 || uint64(n) > math.MaxUint32 {
		w.fail(fmt.Errorf("%w: element count %d", ErrInvalidSetting, n))
		return
	}
	w.u32(uint32(n))
}

// index writes a nullable reference of the given kind.
func (w *writer) index(kind IndexKind, v int32) {
	if w.failed() {
		return
	}
	b := w.scratch[:w.settings.Width(kind)]
	if err := EncodeIndex(b, kind, int64(v)); err != nil {
		w.fail(err)
		return
	}
	w.bw.Bytes(b)
}

// vertexIndex writes an unsigned vertex reference.
func (w *writer) vertexIndex(v uint32) {
	if w.failed() {
		return
	}
	b := w.scratch[:w.settings.VertexIndexSize]
	if err := EncodeIndex(b, KindVertex, int64(v)); err != nil {
		w.fail(err)
		return
	}
	w.bw.Bytes(b)
}

// text writes a length-prefixed string in the document encoding.
func (w *writer) text(s string) {
	if w.failed() {
		return
	}
	data, err := encoding.Encode(w.settings.Encoding, s)
	if err != nil {
		w.fail(fmt.Errorf("%w: %w", ErrInvalidTextEncoding, err))
		return
	}
	w.count(len(data))
	w.bw.Bytes(data)
}
