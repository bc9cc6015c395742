package pmx

import "fmt"

// SkinningMethod is the discriminant stored before a vertex's skinning payload.
type SkinningMethod uint8

const (
	MethodBDEF1 SkinningMethod = 0
	MethodBDEF2 SkinningMethod = 1
	MethodBDEF4 SkinningMethod = 2
	MethodSDEF  SkinningMethod = 3
	MethodQDEF  SkinningMethod = 4
)

// String returns a human-readable method name.
func (m SkinningMethod) String() string {
	switch m {
	case MethodBDEF1:
		return "BDEF1"
	case MethodBDEF2:
		return "BDEF2"
	case MethodBDEF4:
		return "BDEF4"
	case MethodSDEF:
		return "SDEF"
	case MethodQDEF:
		return "QDEF"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(m))
	}
}

// Skinning is one of BDEF1, BDEF2, BDEF4, SDEF or QDEF. The set is closed;
// the method tag is always derived from the concrete type.
type Skinning interface {
	Method() SkinningMethod
	skinning()
}

// BDEF1 binds a vertex fully to one bone.
type BDEF1 struct {
	Bone int32
}

// BDEF2 blends two bones. Weight applies to Bones[0]; the second bone's
// weight is 1-Weight by convention and is not stored.
type BDEF2 struct {
	Bones  [2]int32
	Weight float32
}

// BDEF4 blends four bones with independent weights.
type BDEF4 struct {
	Bones   [4]int32
	Weights [4]float32
}

// SDEF is spherical deformation between two bones.
type SDEF struct {
	Bones  [2]int32
	Weight float32
	C      Vec3
	R0     Vec3
	R1     Vec3
}

// QDEF is dual-quaternion deformation over four bones (PMX 2.1).
type QDEF struct {
	Bones   [4]int32
	Weights [4]float32
}

func (BDEF1) Method() SkinningMethod { return MethodBDEF1 }
func (BDEF2) Method() SkinningMethod { return MethodBDEF2 }
func (BDEF4) Method() SkinningMethod { return MethodBDEF4 }
func (SDEF) Method() SkinningMethod  { return MethodSDEF }
func (QDEF) Method() SkinningMethod  { return MethodQDEF }

func (BDEF1) skinning() {}
func (BDEF2) skinning() {}
func (BDEF4) skinning() {}
func (SDEF) skinning()  {}
func (QDEF) skinning()  {}

// SkinningBones returns the bone references held by s.
func SkinningBones(s Skinning) []int32 {
	switch s := s.(type) {
	case BDEF1:
		return []int32{s.Bone}
	case BDEF2:
		return s.Bones[:]
	case BDEF4:
		return s.Bones[:]
	case SDEF:
		return s.Bones[:]
	case QDEF:
		return s.Bones[:]
	}
	return nil
}

func (r *reader) readSkinning() Skinning {
	method := SkinningMethod(r.u8())
	if r.failed() {
		return nil
	}
	switch method {
	case MethodBDEF1:
		return BDEF1{Bone: r.index(KindBone)}
	case MethodBDEF2:
		var s BDEF2
		s.Bones[0] = r.index(KindBone)
		s.Bones[1] = r.index(KindBone)
		s.Weight = r.f32()
		return s
	case MethodBDEF4:
		var s BDEF4
		r.readBones4(&s.Bones, &s.Weights)
		return s
	case MethodSDEF:
		var s SDEF
		s.Bones[0] = r.index(KindBone)
		s.Bones[1] = r.index(KindBone)
		s.Weight = r.f32()
		s.C = r.vec3()
		s.R0 = r.vec3()
		s.R1 = r.vec3()
		return s
	case MethodQDEF:
		var s QDEF
		r.readBones4(&s.Bones, &s.Weights)
		return s
	default:
		r.fail(fmt.Errorf("%w: skinning method %d", ErrUnknownVariantTag, uint8(method)))
		return nil
	}
}

func (r *reader) readBones4(bones *[4]int32, weights *[4]float32) {
	for i := range bones {
		bones[i] = r.index(KindBone)
	}
	for i := range weights {
		weights[i] = r.f32()
	}
}

func (w *writer) writeSkinning(s Skinning) {
	if s == nil {
		w.fail(fmt.Errorf("%w: vertex has no skinning", ErrUnknownVariantTag))
		return
	}
	w.u8(uint8(s.Method()))
	switch s := s.(type) {
	case BDEF1:
		w.index(KindBone, s.Bone)
	case BDEF2:
		w.index(KindBone, s.Bones[0])
		w.index(KindBone, s.Bones[1])
		w.f32(s.Weight)
	case BDEF4:
		w.writeBones4(s.Bones, s.Weights)
	case SDEF:
		w.index(KindBone, s.Bones[0])
		w.index(KindBone, s.Bones[1])
		w.f32(s.Weight)
		w.vec3(s.C)
		w.vec3(s.R0)
		w.vec3(s.R1)
	case QDEF:
		w.writeBones4(s.Bones, s.Weights)
	}
}

func (w *writer) writeBones4(bones [4]int32, weights [4]float32) {
	for _, b := range bones {
		w.index(KindBone, b)
	}
	for _, wt := range weights {
		w.f32(wt)
	}
}
