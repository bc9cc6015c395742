package pmx

import "fmt"

// MorphType is the discriminant shared by every offset of a morph.
type MorphType uint8

const (
	MorphGroup    MorphType = 0
	MorphVertex   MorphType = 1
	MorphBone     MorphType = 2
	MorphUV       MorphType = 3
	MorphUV1      MorphType = 4
	MorphUV2      MorphType = 5
	MorphUV3      MorphType = 6
	MorphUV4      MorphType = 7
	MorphMaterial MorphType = 8
	MorphFlip     MorphType = 9  // 2.1
	MorphImpulse  MorphType = 10 // 2.1
)

// String returns a human-readable morph type name.
func (t MorphType) String() string {
	switch t {
	case MorphGroup:
		return "Group"
	case MorphVertex:
		return "Vertex"
	case MorphBone:
		return "Bone"
	case MorphUV:
		return "UV"
	case MorphUV1, MorphUV2, MorphUV3, MorphUV4:
		return fmt.Sprintf("AdditionalUV%d", t-MorphUV)
	case MorphMaterial:
		return "Material"
	case MorphFlip:
		return "Flip"
	case MorphImpulse:
		return "Impulse"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(t))
	}
}

// MorphCategory is the editor panel a morph is listed under.
type MorphCategory uint8

const (
	CategorySystem  MorphCategory = 0
	CategoryEyebrow MorphCategory = 1
	CategoryEye     MorphCategory = 2
	CategoryMouth   MorphCategory = 3
	CategoryOther   MorphCategory = 4
)

// MaterialOperation selects how a material offset is applied.
type MaterialOperation uint8

const (
	MaterialMultiply MaterialOperation = 0
	MaterialAdd      MaterialOperation = 1
)

// VertexOffset moves one vertex.
type VertexOffset struct {
	Vertex uint32
	Offset Vec3
}

// UVOffset shifts one UV channel of a vertex.
type UVOffset struct {
	Vertex uint32
	Offset Vec4
}

// BoneOffset translates and rotates a bone. Rotation is a quaternion (x, y, z, w).
type BoneOffset struct {
	Bone        int32
	Translation Vec3
	Rotation    Vec4
}

// MaterialOffset adjusts material properties. Material NoRef targets every
// material.
type MaterialOffset struct {
	Material    int32
	Operation   MaterialOperation
	Diffuse     Vec4
	Specular    Vec3
	Shininess   float32
	Ambient     Vec3
	EdgeColor   Vec4
	EdgeSize    float32
	TextureTint Vec4
	SphereTint  Vec4
	ToonTint    Vec4
}

// GroupOffset drives another morph.
type GroupOffset struct {
	Morph  int32
	Weight float32
}

// FlipOffset switches to another morph.
type FlipOffset struct {
	Morph int32
	Value float32
}

// ImpulseOffset applies velocity and torque to a rigid body.
type ImpulseOffset struct {
	RigidBody int32
	Local     bool
	Velocity  Vec3
	Torque    Vec3
}

// MorphOffsets is the offset list of a morph. Its concrete type decides the
// morph type, so a morph always holds exactly one kind of offset.
type MorphOffsets interface {
	Type() MorphType
	Len() int
	morphOffsets()
}

type (
	GroupOffsets    []GroupOffset
	VertexOffsets   []VertexOffset
	BoneOffsets     []BoneOffset
	MaterialOffsets []MaterialOffset
	FlipOffsets     []FlipOffset
	ImpulseOffsets  []ImpulseOffset
)

// UVOffsets targets the primary UV (Channel 0) or additional UV 1-4.
type UVOffsets struct {
	Channel uint8
	Offsets []UVOffset
}

func (GroupOffsets) Type() MorphType    { return MorphGroup }
func (VertexOffsets) Type() MorphType   { return MorphVertex }
func (BoneOffsets) Type() MorphType     { return MorphBone }
func (MaterialOffsets) Type() MorphType { return MorphMaterial }
func (FlipOffsets) Type() MorphType     { return MorphFlip }
func (ImpulseOffsets) Type() MorphType  { return MorphImpulse }
func (o UVOffsets) Type() MorphType     { return MorphUV + MorphType(o.Channel) }

func (o GroupOffsets) Len() int    { return len(o) }
func (o VertexOffsets) Len() int   { return len(o) }
func (o BoneOffsets) Len() int     { return len(o) }
func (o MaterialOffsets) Len() int { return len(o) }
func (o FlipOffsets) Len() int     { return len(o) }
func (o ImpulseOffsets) Len() int  { return len(o) }
func (o UVOffsets) Len() int       { return len(o.Offsets) }

func (GroupOffsets) morphOffsets()    {}
func (VertexOffsets) morphOffsets()   {}
func (BoneOffsets) morphOffsets()     {}
func (MaterialOffsets) morphOffsets() {}
func (FlipOffsets) morphOffsets()     {}
func (ImpulseOffsets) morphOffsets()  {}
func (UVOffsets) morphOffsets()       {}

// Morph is a named set of offsets blended by a single weight.
type Morph struct {
	Name        string
	EnglishName string
	Category    MorphCategory
	Offsets     MorphOffsets
}

// Type returns the morph type derived from its offsets.
func (m *Morph) Type() MorphType {
	if m.Offsets == nil {
		return MorphVertex
	}
	return m.Offsets.Type()
}

func (r *reader) readMorph() Morph {
	var m Morph
	m.Name = r.text()
	m.EnglishName = r.text()
	m.Category = MorphCategory(r.u8())
	typ := MorphType(r.u8())
	n := r.count()
	if r.failed() {
		return m
	}
	m.Offsets = r.readMorphOffsets(typ, n)
	return m
}

// readMorphOffsets decodes n records, all with the payload shape selected by typ.
func (r *reader) readMorphOffsets(typ MorphType, n int) MorphOffsets {
	switch typ {
	case MorphGroup:
		offsets := newList[GroupOffsets](n)
		for i := 0; i < n && !r.failed(); i++ {
			offsets = append(offsets, GroupOffset{Morph: r.index(KindMorph), Weight: r.f32()})
		}
		return offsets
	case MorphVertex:
		offsets := newList[VertexOffsets](n)
		for i := 0; i < n && !r.failed(); i++ {
			offsets = append(offsets, VertexOffset{Vertex: r.vertexIndex(), Offset: r.vec3()})
		}
		return offsets
	case MorphBone:
		offsets := newList[BoneOffsets](n)
		for i := 0; i < n && !r.failed(); i++ {
			offsets = append(offsets, BoneOffset{Bone: r.index(KindBone), Translation: r.vec3(), Rotation: r.vec4()})
		}
		return offsets
	case MorphUV, MorphUV1, MorphUV2, MorphUV3, MorphUV4:
		offsets := UVOffsets{Channel: uint8(typ - MorphUV), Offsets: newList[[]UVOffset](n)}
		for i := 0; i < n && !r.failed(); i++ {
			offsets.Offsets = append(offsets.Offsets, UVOffset{Vertex: r.vertexIndex(), Offset: r.vec4()})
		}
		return offsets
	case MorphMaterial:
		offsets := newList[MaterialOffsets](n)
		for i := 0; i < n && !r.failed(); i++ {
			offsets = append(offsets, r.readMaterialOffset())
		}
		return offsets
	case MorphFlip:
		offsets := newList[FlipOffsets](n)
		for i := 0; i < n && !r.failed(); i++ {
			offsets = append(offsets, FlipOffset{Morph: r.index(KindMorph), Value: r.f32()})
		}
		return offsets
	case MorphImpulse:
		offsets := newList[ImpulseOffsets](n)
		for i := 0; i < n && !r.failed(); i++ {
			offsets = append(offsets, ImpulseOffset{
				RigidBody: r.index(KindRigidBody),
				Local:     r.u8() != 0,
				Velocity:  r.vec3(),
				Torque:    r.vec3(),
			})
		}
		return offsets
	default:
		r.fail(fmt.Errorf("%w: morph type %d", ErrUnknownVariantTag, uint8(typ)))
		return nil
	}
}

func (r *reader) readMaterialOffset() MaterialOffset {
	return MaterialOffset{
		Material:    r.index(KindMaterial),
		Operation:   MaterialOperation(r.u8()),
		Diffuse:     r.vec4(),
		Specular:    r.vec3(),
		Shininess:   r.f32(),
		Ambient:     r.vec3(),
		EdgeColor:   r.vec4(),
		EdgeSize:    r.f32(),
		TextureTint: r.vec4(),
		SphereTint:  r.vec4(),
		ToonTint:    r.vec4(),
	}
}

func (w *writer) writeMorph(m *Morph) {
	w.text(m.Name)
	w.text(m.EnglishName)
	w.u8(uint8(m.Category))
	if m.Offsets == nil {
		w.u8(uint8(MorphVertex))
		w.count(0)
		return
	}
	if uv, ok := m.Offsets.(UVOffsets); ok && uv.Channel > MaxAdditionalUV {
		w.fail(fmt.Errorf("%w: UV morph channel %d", ErrUnknownVariantTag, uv.Channel))
		return
	}
	w.u8(uint8(m.Offsets.Type()))
	w.count(m.Offsets.Len())

	switch offsets := m.Offsets.(type) {
	case GroupOffsets:
		for _, o := range offsets {
			w.index(KindMorph, o.Morph)
			w.f32(o.Weight)
		}
	case VertexOffsets:
		for _, o := range offsets {
			w.vertexIndex(o.Vertex)
			w.vec3(o.Offset)
		}
	case BoneOffsets:
		for _, o := range offsets {
			w.index(KindBone, o.Bone)
			w.vec3(o.Translation)
			w.vec4(o.Rotation)
		}
	case UVOffsets:
		for _, o := range offsets.Offsets {
			w.vertexIndex(o.Vertex)
			w.vec4(o.Offset)
		}
	case MaterialOffsets:
		for i := range offsets {
			w.writeMaterialOffset(&offsets[i])
		}
	case FlipOffsets:
		for _, o := range offsets {
			w.index(KindMorph, o.Morph)
			w.f32(o.Value)
		}
	case ImpulseOffsets:
		for _, o := range offsets {
			w.index(KindRigidBody, o.RigidBody)
			w.flag(o.Local)
			w.vec3(o.Velocity)
			w.vec3(o.Torque)
		}
	}
}

func (w *writer) writeMaterialOffset(o *MaterialOffset) {
	w.index(KindMaterial, o.Material)
	w.u8(uint8(o.Operation))
	w.vec4(o.Diffuse)
	w.vec3(o.Specular)
	w.f32(o.Shininess)
	w.vec3(o.Ambient)
	w.vec4(o.EdgeColor)
	w.f32(o.EdgeSize)
	w.vec4(o.TextureTint)
	w.vec4(o.SphereTint)
	w.vec4(o.ToonTint)
}
