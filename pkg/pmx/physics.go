package pmx

// RigidShape is the collision shape of a rigid body.
type RigidShape uint8

const (
	ShapeSphere  RigidShape = 0
	ShapeBox     RigidShape = 1
	ShapeCapsule RigidShape = 2
)

// PhysicsMode selects how a rigid body follows its bone.
type PhysicsMode uint8

const (
	PhysicsFollowBone  PhysicsMode = 0
	PhysicsDynamic     PhysicsMode = 1
	PhysicsDynamicBone PhysicsMode = 2
)

// RigidBody is collision and dynamics authoring data.
type RigidBody struct {
	Name        string
	EnglishName string
	Bone        int32
	Group       uint8
	// Mask is the non-collision group mask.
	Mask     uint16
	Shape    RigidShape
	Size     Vec3
	Position Vec3
	Rotation Vec3

	Mass           float32
	LinearDamping  float32
	AngularDamping float32
	Restitution    float32
	Friction       float32
	Mode           PhysicsMode
}

// JointType is the constraint kind of a joint.
type JointType uint8

const (
	JointSpring6DOF JointType = 0
	Joint6DOF       JointType = 1 // 2.1
	JointP2P        JointType = 2 // 2.1
	JointConeTwist  JointType = 3 // 2.1
	JointSlider     JointType = 5 // 2.1
	JointHinge      JointType = 6 // 2.1
)

// JointParam is the payload shared by every joint type.
type JointParam struct {
	RigidBodyA int32
	RigidBodyB int32
	Position   Vec3
	Rotation   Vec3

	MoveMin   Vec3
	MoveMax   Vec3
	RotateMin Vec3
	RotateMax Vec3

	SpringMove   Vec3
	SpringRotate Vec3
}

// Joint connects two rigid bodies.
type Joint struct {
	Name        string
	EnglishName string
	Type        JointType
	Param       JointParam
}

// SoftBodyConfig holds the solver coefficients of a soft body.
type SoftBodyConfig struct {
	VCF, DP, DG, LF, PR, VC, DF, MT float32
	CHR, KHR, SHR, AHR              float32
}

// SoftBodyCluster holds cluster stiffness and split coefficients.
type SoftBodyCluster struct {
	SRHR, SKHR, SSHR          float32
	SRSplit, SKSplit, SSSplit float32
}

// SoftBodyIterations holds solver iteration counts.
type SoftBodyIterations struct {
	Velocity, Position, Drift, Cluster int32
}

// SoftBodyMaterial holds linear, area and volume stiffness.
type SoftBodyMaterial struct {
	LST, AST, VST float32
}

// Anchor pins a soft body vertex to a rigid body.
type Anchor struct {
	RigidBody int32
	Vertex    uint32
	Near      bool
}

// SoftBody is PMX 2.1 soft body authoring data.
type SoftBody struct {
	Name        string
	EnglishName string
	Shape       uint8
	Material    int32
	Group       uint8
	Mask        uint16
	Flags       uint8

	BLinkDistance   int32
	Clusters        int32
	Mass            float32
	CollisionMargin float32
	AeroModel       int32

	Config     SoftBodyConfig
	Cluster    SoftBodyCluster
	Iterations SoftBodyIterations
	Stiffness  SoftBodyMaterial

	Anchors     []Anchor
	PinVertices []uint32
}

func (r *reader) readRigidBody() RigidBody {
	var b RigidBody
	b.Name = r.text()
	b.EnglishName = r.text()
	b.Bone = r.index(KindBone)
	b.Group = r.u8()
	b.Mask = r.u16()
	b.Shape = RigidShape(r.u8())
	b.Size = r.vec3()
	b.Position = r.vec3()
	b.Rotation = r.vec3()
	b.Mass = r.f32()
	b.LinearDamping = r.f32()
	b.AngularDamping = r.f32()
	b.Restitution = r.f32()
	b.Friction = r.f32()
	b.Mode = PhysicsMode(r.u8())
	return b
}

func (w *writer) writeRigidBody(b *RigidBody) {
	w.text(b.Name)
	w.text(b.EnglishName)
	w.index(KindBone, b.Bone)
	w.u8(b.Group)
	w.u16(b.Mask)
	w.u8(uint8(b.Shape))
	w.vec3(b.Size)
	w.vec3(b.Position)
	w.vec3(b.Rotation)
	w.f32(b.Mass)
	w.f32(b.LinearDamping)
	w.f32(b.AngularDamping)
	w.f32(b.Restitution)
	w.f32(b.Friction)
	w.u8(uint8(b.Mode))
}

func (r *reader) readJoint() Joint {
	var j Joint
	j.Name = r.text()
	j.EnglishName = r.text()
	j.Type = JointType(r.u8())
	p := &j.Param
	p.RigidBodyA = r.index(KindRigidBody)
	p.RigidBodyB = r.index(KindRigidBody)
	p.Position = r.vec3()
	p.Rotation = r.vec3()
	p.MoveMin = r.vec3()
	p.MoveMax = r.vec3()
	p.RotateMin = r.vec3()
	p.RotateMax = r.vec3()
	p.SpringMove = r.vec3()
	p.SpringRotate = r.vec3()
	return j
}

func (w *writer) writeJoint(j *Joint) {
	w.text(j.Name)
	w.text(j.EnglishName)
	w.u8(uint8(j.Type))
	p := &j.Param
	w.index(KindRigidBody, p.RigidBodyA)
	w.index(KindRigidBody, p.RigidBodyB)
	w.vec3(p.Position)
	w.vec3(p.Rotation)
	w.vec3(p.MoveMin)
	w.vec3(p.MoveMax)
	w.vec3(p.RotateMin)
	w.vec3(p.RotateMax)
	w.vec3(p.SpringMove)
	w.vec3(p.SpringRotate)
}

func (r *reader) readSoftBody() SoftBody {
	var s SoftBody
	s.Name = r.text()
	s.EnglishName = r.text()
	s.Shape = r.u8()
	s.Material = r.index(KindMaterial)
	s.Group = r.u8()
	s.Mask = r.u16()
	s.Flags = r.u8()
	s.BLinkDistance = r.i32()
	s.Clusters = r.i32()
	s.Mass = r.f32()
	s.CollisionMargin = r.f32()
	s.AeroModel = r.i32()
	r.readSoftBodyCoefficients(&s)

	n := r.count()
	if r.failed() {
		return s
	}
	s.Anchors = newList[[]Anchor](n)
	for i := 0; i < n && !r.failed(); i++ {
		s.Anchors = append(s.Anchors, Anchor{
			RigidBody: r.index(KindRigidBody),
			Vertex:    r.vertexIndex(),
			Near:      r.u8() != 0,
		})
	}

	n = r.count()
	if r.failed() {
		return s
	}
	s.PinVertices = newList[[]uint32](n)
	for i := 0; i < n && !r.failed(); i++ {
		s.PinVertices = append(s.PinVertices, r.vertexIndex())
	}
	return s
}

func (w *writer) writeSoftBody(s *SoftBody) {
	w.text(s.Name)
	w.text(s.EnglishName)
	w.u8(s.Shape)
	w.index(KindMaterial, s.Material)
	w.u8(s.Group)
	w.u16(s.Mask)
	w.u8(s.Flags)
	w.i32(s.BLinkDistance)
	w.i32(s.Clusters)
	w.f32(s.Mass)
	w.f32(s.CollisionMargin)
	w.i32(s.AeroModel)
	w.writeSoftBodyCoefficients(s)

	w.count(len(s.Anchors))
	for _, a := range s.Anchors {
		w.index(KindRigidBody, a.RigidBody)
		w.vertexIndex(a.Vertex)
		w.flag(a.Near)
	}
	w.count(len(s.PinVertices))
	for _, v := range s.PinVertices {
		w.vertexIndex(v)
	}
}

// softBodyFloats lists the float coefficients of s in wire order.
func softBodyFloats(s *SoftBody) []*float32 {
	c, k := &s.Config, &s.Cluster
	return []*float32{
		&c.VCF, &c.DP, &c.DG, &c.LF, &c.PR, &c.VC, &c.DF, &c.MT,
		&c.CHR, &c.KHR, &c.SHR, &c.AHR,
		&k.SRHR, &k.SKHR, &k.SSHR, &k.SRSplit, &k.SKSplit, &k.SSSplit,
	}
}

func softBodyIterations(s *SoftBody) []*int32 {
	it := &s.Iterations
	return []*int32{&it.Velocity, &it.Position, &it.Drift, &it.Cluster}
}

func softBodyStiffness(s *SoftBody) []*float32 {
	m := &s.Stiffness
	return []*float32{&m.LST, &m.AST, &m.VST}
}

func (r *reader) readSoftBodyCoefficients(s *SoftBody) {
	for _, f := range softBodyFloats(s) {
		*f = r.f32()
	}
	for _, n := range softBodyIterations(s) {
		*n = r.i32()
	}
	for _, f := range softBodyStiffness(s) {
		*f = r.f32()
	}
}

func (w *writer) writeSoftBodyCoefficients(s *SoftBody) {
	for _, f := range softBodyFloats(s) {
		w.f32(*f)
	}
	for _, n := range softBodyIterations(s) {
		w.i32(*n)
	}
	for _, f := range softBodyStiffness(s) {
		w.f32(*f)
	}
}
