package pmx

import (
	"encoding/binary"
	"fmt"
)

// NoRef is the canonical "no reference" value for nullable index kinds.
// It decodes from the all-ones pattern of any width.
const NoRef int32 = -1

// IndexKind identifies which section an index refers to. It selects both the
// configured width and the signedness policy.
type IndexKind uint8

const (
	KindVertex IndexKind = iota
	KindTexture
	KindMaterial
	KindBone
	KindMorph
	KindRigidBody
)

var indexKinds = []IndexKind{KindVertex, KindTexture, KindMaterial, KindBone, KindMorph, KindRigidBody}

// String returns the kind name.
func (k IndexKind) String() string {
	switch k {
	case KindVertex:
		return "vertex"
	case KindTexture:
		return "texture"
	case KindMaterial:
		return "material"
	case KindBone:
		return "bone"
	case KindMorph:
		return "morph"
	case KindRigidBody:
		return "rigid body"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(k))
	}
}

// Nullable reports whether the kind is stored signed with NoRef reserved.
// Vertex references are never optional and are stored unsigned.
func (k IndexKind) Nullable() bool {
	return k != KindVertex
}

// DecodeIndex interprets b (1, 2 or 4 bytes, little-endian) as an index of
// the given kind. Nullable kinds are sign-extended so the all-ones pattern
// yields NoRef at every width.
func DecodeIndex(b []byte, kind IndexKind) int64 {
	if kind.Nullable() {
		switch len(b) {
		case 1:
			return int64(int8(b[0]))
		case 2:
			return int64(int16(binary.LittleEndian.Uint16(b)))
		case 4:
			return int64(int32(binary.LittleEndian.Uint32(b)))
		}
		return 0
	}
	switch len(b) {
	case 1:
		return int64(b[0])
	case 2:
		return int64(binary.LittleEndian.Uint16(b))
	case 4:
		return int64(binary.LittleEndian.Uint32(b))
	}
	return 0
}

// EncodeIndex stores v into b using exactly len(b) bytes. It fails with
// ErrIndexWidthOverflow instead of truncating.
func EncodeIndex(b []byte, kind IndexKind, v int64) error {
	width := len(b)
	if !validWidth(uint8(width)) {
		return fmt.Errorf("%w: %d", ErrInvalidIndexWidth, width)
	}
	lo, hi := indexRange(kind, uint8(width))
	if v < lo || v > hi {
		return fmt.Errorf("%w: %s index %d needs more than %d bytes", ErrIndexWidthOverflow, kind, v, width)
	}
	switch width {
	case 1:
		b[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(b, uint32(v))
	}
	return nil
}

// indexRange returns the inclusive range of values representable for kind at
// the given width. The 4-byte vertex all-ones pattern is reserved.
func indexRange(kind IndexKind, width uint8) (lo, hi int64) {
	bits := 8 * uint(width)
	if kind.Nullable() {
		return -(1 << (bits - 1)), 1<<(bits-1) - 1
	}
	hi = 1<<bits - 1
	if width == 4 {
		hi--
	}
	return 0, hi
}

// IndexSizeFor returns the smallest conventional width able to address count
// elements of the given kind, leaving room for NoRef on nullable kinds.
func IndexSizeFor(kind IndexKind, count int) uint8 {
	if kind.Nullable() {
		switch {
		case count <= 127:
			return 1
		case count <= 32767:
			return 2
		default:
			return 4
		}
	}
	switch {
	case count <= 255:
		return 1
	case count <= 65535:
		return 2
	default:
		return 4
	}
}

// widthStep maps a width to its position in the 1, 2, 4 progression.
func widthStep(w uint8) int {
	switch w {
	case 1:
		return 0
	case 2:
		return 1
	default:
		return 2
	}
}
