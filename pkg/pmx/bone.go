package pmx

import "fmt"

// BoneFlags is the 16-bit flag word stored with each bone.
type BoneFlags uint16

const (
	BoneConnected          BoneFlags = 0x0001 // tail points at a bone instead of an offset
	BoneRotatable          BoneFlags = 0x0002
	BoneMovable            BoneFlags = 0x0004
	BoneVisible            BoneFlags = 0x0008
	BoneOperable           BoneFlags = 0x0010
	BoneFlagIK             BoneFlags = 0x0020
	BoneLocalGrant         BoneFlags = 0x0080
	BoneGrantRotation      BoneFlags = 0x0100
	BoneGrantTranslation   BoneFlags = 0x0200
	BoneFixedAxis          BoneFlags = 0x0400
	BoneLocalAxes          BoneFlags = 0x0800
	BonePhysicsAfterDeform BoneFlags = 0x1000
	BoneExternalParent     BoneFlags = 0x2000
)

// capabilityFlags are the bits that gate optional fields. They are never
// kept in Bone.Flags; encoding derives them from the populated groups.
const capabilityFlags = BoneConnected | BoneFlagIK | BoneGrantRotation | BoneGrantTranslation |
	BoneFixedAxis | BoneLocalAxes | BoneExternalParent

// BoneTail is either TailBone or TailOffset.
type BoneTail interface {
	boneTail()
}

// TailBone points the bone's tail at another bone.
type TailBone struct {
	Bone int32
}

// TailOffset places the tail at a fixed offset from the bone head.
type TailOffset struct {
	Offset Vec3
}

func (TailBone) boneTail()   {}
func (TailOffset) boneTail() {}

// BoneGrant inherits rotation and/or translation from another bone.
type BoneGrant struct {
	Rotation    bool
	Translation bool
	Parent      int32
	Weight      float32
}

// active reports whether the grant sets either flag bit. Only active grants
// are stored.
func (g *BoneGrant) active() bool {
	return g != nil && (g.Rotation || g.Translation)
}

// LocalAxes fixes the bone's local X and Z axes.
type LocalAxes struct {
	X Vec3
	Z Vec3
}

// AngleLimit bounds an IK link's rotation in radians.
type AngleLimit struct {
	Min Vec3
	Max Vec3
}

// IKLink is one joint of an IK chain.
type IKLink struct {
	Bone   int32
	Limits *AngleLimit
}

// BoneIK holds inverse kinematics solver parameters. The codec stores them
// and never evaluates them.
type BoneIK struct {
	Target     int32
	Loops      int32
	LimitAngle float32
	Links      []IKLink
}

// Bone is a skeleton node. Optional groups are nil when absent.
type Bone struct {
	Name        string
	EnglishName string
	Position    Vec3
	Parent      int32
	Layer       int32
	// Flags holds behaviour bits (rotatable, visible, ...). Bits that gate
	// optional fields are ignored here and rebuilt on encode.
	Flags BoneFlags

	Tail        BoneTail
	Grant       *BoneGrant
	FixedAxis   *Vec3
	LocalAxes   *LocalAxes
	ExternalKey *int32
	IK          *BoneIK
}

// WireFlags returns the flag word as it is stored in the document.
func (b *Bone) WireFlags() BoneFlags {
	flags := b.Flags &^ capabilityFlags
	if _, ok := b.Tail.(TailBone); ok {
		flags |= BoneConnected
	}
	if b.Grant != nil {
		if b.Grant.Rotation {
			flags |= BoneGrantRotation
		}
		if b.Grant.Translation {
			flags |= BoneGrantTranslation
		}
	}
	if b.FixedAxis != nil {
		flags |= BoneFixedAxis
	}
	if b.LocalAxes != nil {
		flags |= BoneLocalAxes
	}
	if b.ExternalKey != nil {
		flags |= BoneExternalParent
	}
	if b.IK != nil {
		flags |= BoneFlagIK
	}
	return flags
}

// IsRoot reports whether the bone has no parent.
func (b *Bone) IsRoot() bool {
	return b.Parent == NoRef
}

func (r *reader) readBone() Bone {
	var b Bone
	b.Name = r.text()
	b.EnglishName = r.text()
	b.Position = r.vec3()
	b.Parent = r.index(KindBone)
	b.Layer = r.i32()
	flags := BoneFlags(r.u16())
	b.Flags = flags &^ capabilityFlags

	if flags&BoneConnected != 0 {
		b.Tail = TailBone{Bone: r.index(KindBone)}
	} else {
		b.Tail = TailOffset{Offset: r.vec3()}
	}
	if flags&(BoneGrantRotation|BoneGrantTranslation) != 0 {
		b.Grant = &BoneGrant{
			Rotation:    flags&BoneGrantRotation != 0,
			Translation: flags&BoneGrantTranslation != 0,
			Parent:      r.index(KindBone),
			Weight:      r.f32(),
		}
	}
	if flags&BoneFixedAxis != 0 {
		axis := r.vec3()
		b.FixedAxis = &axis
	}
	if flags&BoneLocalAxes != 0 {
		b.LocalAxes = &LocalAxes{X: r.vec3(), Z: r.vec3()}
	}
	if flags&BoneExternalParent != 0 {
		key := r.i32()
		b.ExternalKey = &key
	}
	if flags&BoneFlagIK != 0 {
		b.IK = r.readIK()
	}
	return b
}

func (r *reader) readIK() *BoneIK {
	ik := &BoneIK{
		Target:     r.index(KindBone),
		Loops:      r.i32(),
		LimitAngle: r.f32(),
	}
	n := r.count()
	if r.failed() {
		return ik
	}
	ik.Links = newList[[]IKLink](n)
	for i := 0; i < n && !r.failed(); i++ {
		link := IKLink{Bone: r.index(KindBone)}
		if r.u8() != 0 {
			link.Limits = &AngleLimit{Min: r.vec3(), Max: r.vec3()}
		}
		ik.Links = append(ik.Links, link)
	}
	return ik
}

func (w *writer) writeBone(b *Bone) {
	w.text(b.Name)
	w.text(b.EnglishName)
	w.vec3(b.Position)
	w.index(KindBone, b.Parent)
	w.i32(b.Layer)
	w.u16(uint16(b.WireFlags()))

	switch tail := b.Tail.(type) {
	case TailBone:
		w.index(KindBone, tail.Bone)
	case TailOffset:
		w.vec3(tail.Offset)
	default:
		w.vec3(Vec3{})
	}
	if g := b.Grant; g != nil {
		if !g.active() {
			w.fail(fmt.Errorf("%w: bone grant inherits neither rotation nor translation", ErrInvalidSetting))
			return
		}
		w.index(KindBone, g.Parent)
		w.f32(g.Weight)
	}
	if b.FixedAxis != nil {
		w.vec3(*b.FixedAxis)
	}
	if b.LocalAxes != nil {
		w.vec3(b.LocalAxes.X)
		w.vec3(b.LocalAxes.Z)
	}
	if b.ExternalKey != nil {
		w.i32(*b.ExternalKey)
	}
	if ik := b.IK; ik != nil {
		w.index(KindBone, ik.Target)
		w.i32(ik.Loops)
		w.f32(ik.LimitAngle)
		w.count(len(ik.Links))
		for _, link := range ik.Links {
			w.index(KindBone, link.Bone)
			w.flag(link.Limits != nil)
			if link.Limits != nil {
				w.vec3(link.Limits.Min)
				w.vec3(link.Limits.Max)
			}
		}
	}
}
