// Package pmx reads and writes PMX (Polygon Model eXtended) 2.0 and 2.1
// model documents.
//
// A document is read in one pass into a Model and written back from one.
// Every index in the document is stored at the byte width chosen by its
// Settings block; the codec reproduces those widths exactly, so a decoded
// model re-encodes to identical bytes.
package pmx

import "github.com/Faultbox/pmxkit/pkg/encoding"

// Magic is the 4-byte signature at the start of every PMX document.
const Magic = "PMX "

// Supported document versions.
const (
	Version20 float32 = 2.0
	Version21 float32 = 2.1
)

// Vec2 is a 2-component float vector.
type Vec2 [2]float32

// Vec3 is a 3-component float vector.
type Vec3 [3]float32

// Vec4 is a 4-component float vector.
type Vec4 [4]float32

// Model is a complete PMX document.
type Model struct {
	Version  float32
	Settings Settings

	Name           string
	EnglishName    string
	Comment        string
	EnglishComment string

	Vertices []Vertex
	// Indices is the triangle list shared by all materials, three entries
	// per face.
	Indices  []uint32
	Textures []string

	Materials   []Material
	Bones       []Bone
	Morphs      []Morph
	Frames      []Frame
	RigidBodies []RigidBody
	Joints      []Joint
	SoftBodies  []SoftBody
}

// HasSoftBodies reports whether the model's version stores a soft body section.
func (m *Model) HasSoftBodies() bool {
	return m.Version >= Version21
}

// FaceCount returns the number of triangles in the index buffer.
func (m *Model) FaceCount() int {
	return len(m.Indices) / 3
}

// MaterialRange returns the start offset and length of the index buffer run
// drawn by material i.
func (m *Model) MaterialRange(i int) (start, count int) {
	for j := 0; j < i && j < len(m.Materials); j++ {
		start += int(m.Materials[j].IndexCount)
	}
	if i >= 0 && i < len(m.Materials) {
		count = int(m.Materials[i].IndexCount)
	}
	return start, count
}

// FindBone returns the index of the first bone with the given name, or NoRef.
func (m *Model) FindBone(name string) int32 {
	for i := range m.Bones {
		if m.Bones[i].Name == name {
			return int32(i)
		}
	}
	return NoRef
}

// FindMorph returns the index of the first morph with the given name, or NoRef.
func (m *Model) FindMorph(name string) int32 {
	for i := range m.Morphs {
		if m.Morphs[i].Name == name {
			return int32(i)
		}
	}
	return NoRef
}

// RootBones returns the indices of bones without a parent.
func (m *Model) RootBones() []int32 {
	var roots []int32
	for i := range m.Bones {
		if m.Bones[i].IsRoot() {
			roots = append(roots, int32(i))
		}
	}
	return roots
}

// MinimalSettings returns settings with the smallest conventional index
// widths able to address every section of the model. The additional UV
// count is carried over from the model's current settings.
func (m *Model) MinimalSettings(enc encoding.Encoding) Settings {
	return Settings{
		Encoding:           enc,
		AdditionalUV:       m.Settings.AdditionalUV,
		VertexIndexSize:    IndexSizeFor(KindVertex, len(m.Vertices)),
		TextureIndexSize:   IndexSizeFor(KindTexture, len(m.Textures)),
		MaterialIndexSize:  IndexSizeFor(KindMaterial, len(m.Materials)),
		BoneIndexSize:      IndexSizeFor(KindBone, len(m.Bones)),
		MorphIndexSize:     IndexSizeFor(KindMorph, len(m.Morphs)),
		RigidBodyIndexSize: IndexSizeFor(KindRigidBody, len(m.RigidBodies)),
	}
}

// sectionLen returns the element count of the section referenced by kind.
func (m *Model) sectionLen(kind IndexKind) int {
	switch kind {
	case KindVertex:
		return len(m.Vertices)
	case KindTexture:
		return len(m.Textures)
	case KindMaterial:
		return len(m.Materials)
	case KindBone:
		return len(m.Bones)
	case KindMorph:
		return len(m.Morphs)
	case KindRigidBody:
		return len(m.RigidBodies)
	}
	return 0
}
