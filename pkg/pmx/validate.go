package pmx

import "fmt"

// Validate checks that every cross-reference in the model is either NoRef
// or inside the referenced section, that vertex references address an
// existing vertex, and that the material index counts cover the index
// buffer exactly. It returns the first violation found and never modifies
// the model.
func (m *Model) Validate() error {
	v := validator{m: m}
	v.vertices()
	v.indices()
	v.materials()
	v.bones()
	v.morphs()
	v.frames()
	v.physics()
	return v.err
}

// CheckWidths reports configured index widths that cannot address every
// element of their section, or that exceed the smallest conventional width
// by more than slack steps in the 1, 2, 4 progression.
func (m *Model) CheckWidths(slack int) error {
	for _, kind := range indexKinds {
		width := m.Settings.Width(kind)
		count := m.sectionLen(kind)
		if _, hi := indexRange(kind, width); int64(count)-1 > hi {
			return fmt.Errorf("%w: %s index width %d cannot address %d elements",
				ErrReferentialIntegrity, kind, width, count)
		}
		minimal := IndexSizeFor(kind, count)
		if widthStep(width)-widthStep(minimal) > slack {
			return fmt.Errorf("%w: %s index width %d exceeds minimal width %d for %d elements",
				ErrReferentialIntegrity, kind, width, minimal, count)
		}
	}
	return nil
}

// validator accumulates the first reference violation.
type validator struct {
	m   *Model
	err error
}

func (v *validator) ref(section string, index int, field string, kind IndexKind, value int32) {
	if v.err != nil || value == NoRef {
		return
	}
	limit := v.m.sectionLen(kind)
	if value < 0 || int(value) >= limit {
		v.err = &ReferenceError{Section: section, Index: index, Field: field, Value: int64(value), Limit: limit}
	}
}

func (v *validator) vertex(section string, index int, field string, value uint32) {
	if v.err != nil {
		return
	}
	if limit := len(v.m.Vertices); uint64(value) >= uint64(limit) {
		v.err = &ReferenceError{Section: section, Index: index, Field: field, Value: int64(value), Limit: limit}
	}
}

func (v *validator) vertices() {
	for i := range v.m.Vertices {
		for _, bone := range SkinningBones(v.m.Vertices[i].Skinning) {
			v.ref(sectionVertices, i, "Skinning.Bones", KindBone, bone)
		}
	}
}

func (v *validator) indices() {
	for i, idx := range v.m.Indices {
		v.vertex(sectionIndices, i, "Vertex", idx)
	}
}

func (v *validator) materials() {
	var sum int64
	for i := range v.m.Materials {
		mat := &v.m.Materials[i]
		v.ref(sectionMaterials, i, "Texture", KindTexture, mat.Texture)
		v.ref(sectionMaterials, i, "SphereTexture", KindTexture, mat.SphereTexture)
		if !mat.ToonMode.Shared() {
			v.ref(sectionMaterials, i, "Toon", KindTexture, mat.Toon)
		}
		sum += int64(mat.IndexCount)
	}
	if v.err == nil && sum != int64(len(v.m.Indices)) {
		v.err = fmt.Errorf("%w: material index counts sum to %d, index buffer holds %d",
			ErrReferentialIntegrity, sum, len(v.m.Indices))
	}
}

func (v *validator) bones() {
	for i := range v.m.Bones {
		b := &v.m.Bones[i]
		v.ref(sectionBones, i, "Parent", KindBone, b.Parent)
		if tail, ok := b.Tail.(TailBone); ok {
			v.ref(sectionBones, i, "Tail.Bone", KindBone, tail.Bone)
		}
		if b.Grant.active() {
			v.ref(sectionBones, i, "Grant.Parent", KindBone, b.Grant.Parent)
		}
		if b.IK != nil {
			v.ref(sectionBones, i, "IK.Target", KindBone, b.IK.Target)
			for _, link := range b.IK.Links {
				v.ref(sectionBones, i, "IK.Links.Bone", KindBone, link.Bone)
			}
		}
	}
}

func (v *validator) morphs() {
	for i := range v.m.Morphs {
		switch offsets := v.m.Morphs[i].Offsets.(type) {
		case GroupOffsets:
			for _, o := range offsets {
				v.ref(sectionMorphs, i, "Group.Morph", KindMorph, o.Morph)
				if v.err == nil && int(o.Morph) == i {
					v.err = fmt.Errorf("%w: morphs[%d] is a group morph containing itself", ErrReferentialIntegrity, i)
				}
			}
		case VertexOffsets:
			for _, o := range offsets {
				v.vertex(sectionMorphs, i, "Vertex.Vertex", o.Vertex)
			}
		case BoneOffsets:
			for _, o := range offsets {
				v.ref(sectionMorphs, i, "Bone.Bone", KindBone, o.Bone)
			}
		case UVOffsets:
			for _, o := range offsets.Offsets {
				v.vertex(sectionMorphs, i, "UV.Vertex", o.Vertex)
			}
		case MaterialOffsets:
			// NoRef addresses every material.
			for _, o := range offsets {
				v.ref(sectionMorphs, i, "Material.Material", KindMaterial, o.Material)
			}
		case FlipOffsets:
			for _, o := range offsets {
				v.ref(sectionMorphs, i, "Flip.Morph", KindMorph, o.Morph)
			}
		case ImpulseOffsets:
			for _, o := range offsets {
				v.ref(sectionMorphs, i, "Impulse.RigidBody", KindRigidBody, o.RigidBody)
			}
		}
	}
}

func (v *validator) frames() {
	for i := range v.m.Frames {
		for _, e := range v.m.Frames[i].Elements {
			if kind, ok := e.Target.kind(); ok {
				v.ref(sectionFrames, i, "Elements.Index", kind, e.Index)
			}
		}
	}
}

func (v *validator) physics() {
	for i := range v.m.RigidBodies {
		v.ref(sectionRigidBodies, i, "Bone", KindBone, v.m.RigidBodies[i].Bone)
	}
	for i := range v.m.Joints {
		p := &v.m.Joints[i].Param
		v.ref(sectionJoints, i, "RigidBodyA", KindRigidBody, p.RigidBodyA)
		v.ref(sectionJoints, i, "RigidBodyB", KindRigidBody, p.RigidBodyB)
	}
	for i := range v.m.SoftBodies {
		s := &v.m.SoftBodies[i]
		v.ref(sectionSoftBodies, i, "Material", KindMaterial, s.Material)
		for _, a := range s.Anchors {
			v.ref(sectionSoftBodies, i, "Anchors.RigidBody", KindRigidBody, a.RigidBody)
			v.vertex(sectionSoftBodies, i, "Anchors.Vertex", a.Vertex)
		}
		for _, pin := range s.PinVertices {
			v.vertex(sectionSoftBodies, i, "PinVertices", pin)
		}
	}
}
