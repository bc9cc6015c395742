package pmx

import "fmt"

// MaterialFlags is the draw-flag byte of a material.
type MaterialFlags uint8

const (
	MaterialDoubleSided  MaterialFlags = 0x01
	MaterialGroundShadow MaterialFlags = 0x02
	MaterialCastShadow   MaterialFlags = 0x04
	MaterialSelfShadow   MaterialFlags = 0x08
	MaterialDrawEdge     MaterialFlags = 0x10
	MaterialVertexColor  MaterialFlags = 0x20 // 2.1
	MaterialDrawPoint    MaterialFlags = 0x40 // 2.1
	MaterialDrawLine     MaterialFlags = 0x80 // 2.1
)

// SphereMode selects how the sphere texture is combined.
type SphereMode uint8

const (
	SphereDisabled SphereMode = 0
	SphereMultiply SphereMode = 1
	SphereAdd      SphereMode = 2
	SphereSubTex   SphereMode = 3
)

// String returns a human-readable sphere mode name.
func (m SphereMode) String() string {
	switch m {
	case SphereDisabled:
		return "Disabled"
	case SphereMultiply:
		return "Multiply"
	case SphereAdd:
		return "Add"
	case SphereSubTex:
		return "SubTexture"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(m))
	}
}

// ToonMode selects whether Material.Toon is a texture index or the number of
// one of the shared toon textures.
type ToonMode uint8

const (
	ToonTexture ToonMode = 0
	ToonShared  ToonMode = 1
)

// Shared reports whether the toon reference names a shared toon texture.
// Any non-zero mode byte is treated as shared.
func (m ToonMode) Shared() bool {
	return m != ToonTexture
}

// Material describes how one contiguous run of the index buffer is drawn.
type Material struct {
	Name        string
	EnglishName string

	Diffuse   Vec4
	Specular  Vec3
	Shininess float32
	Ambient   Vec3
	Flags     MaterialFlags
	EdgeColor Vec4
	EdgeSize  float32

	Texture       int32
	SphereTexture int32
	SphereMode    SphereMode
	ToonMode      ToonMode
	// Toon is a texture index for ToonTexture, or the shared toon number
	// (stored as one byte) for ToonShared.
	Toon int32

	Memo string
	// IndexCount is the number of index buffer entries drawn with this material.
	IndexCount int32
}

func (r *reader) readMaterial() Material {
	var m Material
	m.Name = r.text()
	m.EnglishName = r.text()
	m.Diffuse = r.vec4()
	m.Specular = r.vec3()
	m.Shininess = r.f32()
	m.Ambient = r.vec3()
	m.Flags = MaterialFlags(r.u8())
	m.EdgeColor = r.vec4()
	m.EdgeSize = r.f32()
	m.Texture = r.index(KindTexture)
	m.SphereTexture = r.index(KindTexture)
	m.SphereMode = SphereMode(r.u8())
	m.ToonMode = ToonMode(r.u8())
	if m.ToonMode.Shared() {
		m.Toon = int32(r.u8())
	} else {
		m.Toon = r.index(KindTexture)
	}
	m.Memo = r.text()
	m.IndexCount = r.i32()
	return m
}

func (w *writer) writeMaterial(m *Material) {
	w.text(m.Name)
	w.text(m.EnglishName)
	w.vec4(m.Diffuse)
	w.vec3(m.Specular)
	w.f32(m.Shininess)
	w.vec3(m.Ambient)
	w.u8(uint8(m.Flags))
	w.vec4(m.EdgeColor)
	w.f32(m.EdgeSize)
	w.index(KindTexture, m.Texture)
	w.index(KindTexture, m.SphereTexture)
	w.u8(uint8(m.SphereMode))
	w.u8(uint8(m.ToonMode))
	if m.ToonMode.Shared() {
		if m.Toon < 0 || m.Toon > 0xFF {
			w.fail(fmt.Errorf("%w: shared toon %d needs more than 1 byte", ErrIndexWidthOverflow, m.Toon))
			return
		}
		w.u8(uint8(m.Toon))
	} else {
		w.index(KindTexture, m.Toon)
	}
	w.text(m.Memo)
	w.i32(m.IndexCount)
}
