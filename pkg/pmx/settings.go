package pmx

import (
	"fmt"

	"github.com/Faultbox/pmxkit/pkg/encoding"
)

// settingsSize is the byte length of the settings block in PMX 2.0 and 2.1.
const settingsSize = 8

// MaxAdditionalUV is the number of extra UV channels a vertex may carry.
const MaxAdditionalUV = 4

// Settings is the per-document encoding and index width configuration.
// It is read once, ahead of every other field, and never changes afterwards.
type Settings struct {
	Encoding     encoding.Encoding
	AdditionalUV uint8

	VertexIndexSize    uint8
	TextureIndexSize   uint8
	MaterialIndexSize  uint8
	BoneIndexSize      uint8
	MorphIndexSize     uint8
	RigidBodyIndexSize uint8
}

// DefaultSettings returns UTF-16LE settings with 4-byte indices everywhere.
func DefaultSettings() Settings {
	return Settings{
		Encoding:           encoding.UTF16LE,
		VertexIndexSize:    4,
		TextureIndexSize:   4,
		MaterialIndexSize:  4,
		BoneIndexSize:      4,
		MorphIndexSize:     4,
		RigidBodyIndexSize: 4,
	}
}

// Width returns the configured byte width for references of the given kind.
func (s Settings) Width(kind IndexKind) uint8 {
	switch kind {
	case KindVertex:
		return s.VertexIndexSize
	case KindTexture:
		return s.TextureIndexSize
	case KindMaterial:
		return s.MaterialIndexSize
	case KindBone:
		return s.BoneIndexSize
	case KindMorph:
		return s.MorphIndexSize
	case KindRigidBody:
		return s.RigidBodyIndexSize
	default:
		return 0
	}
}

// Validate checks every field against the ranges the format allows.
func (s Settings) Validate() error {
	if !s.Encoding.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownEncoding, uint8(s.Encoding))
	}
	if s.AdditionalUV > MaxAdditionalUV {
		return fmt.Errorf("%w: additional UV count %d exceeds %d", ErrInvalidSetting, s.AdditionalUV, MaxAdditionalUV)
	}
	for _, kind := range indexKinds {
		if w := s.Width(kind); !validWidth(w) {
			return fmt.Errorf("%w: %s index width %d", ErrInvalidIndexWidth, kind, w)
		}
	}
	return nil
}

func (s Settings) bytes() [settingsSize]byte {
	return [settingsSize]byte{
		byte(s.Encoding),
		s.AdditionalUV,
		s.VertexIndexSize,
		s.TextureIndexSize,
		s.MaterialIndexSize,
		s.BoneIndexSize,
		s.MorphIndexSize,
		s.RigidBodyIndexSize,
	}
}

func settingsFromBytes(b [settingsSize]byte) Settings {
	return Settings{
		Encoding:           encoding.Encoding(b[0]),
		AdditionalUV:       b[1],
		VertexIndexSize:    b[2],
		TextureIndexSize:   b[3],
		MaterialIndexSize:  b[4],
		BoneIndexSize:      b[5],
		MorphIndexSize:     b[6],
		RigidBodyIndexSize: b[7],
	}
}

func validWidth(w uint8) bool {
	return w == 1 || w == 2 || w == 4
}
