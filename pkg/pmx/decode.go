package pmx

import (
	"bytes"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Section names used in SectionError and log fields.
const (
	sectionHeader      = "header"
	sectionVertices    = "vertices"
	sectionIndices     = "indices"
	sectionTextures    = "textures"
	sectionMaterials   = "materials"
	sectionBones       = "bones"
	sectionMorphs      = "morphs"
	sectionFrames      = "frames"
	sectionRigidBodies = "rigid bodies"
	sectionJoints      = "joints"
	sectionSoftBodies  = "soft bodies"
)

// Decoder reads PMX documents. The zero value validates references and
// does not log.
type Decoder struct {
	// SkipValidation disables the reference check run after a read.
	SkipValidation bool
	// CheckWidths additionally rejects index widths that cannot address
	// their section, or that are more than WidthSlack steps (1, 2, 4) wider
	// than the smallest conventional width.
	CheckWidths bool
	WidthSlack  int

	Logger *zap.Logger
}

// Decode reads a complete document from r with the default Decoder.
func Decode(r io.Reader) (*Model, error) {
	var d Decoder
	return d.Decode(r)
}

// Unmarshal decodes a document held in memory.
func Unmarshal(data []byte) (*Model, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads a complete document from r. On failure no model is returned.
func (d *Decoder) Decode(r io.Reader) (*Model, error) {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}

	rd := newReader(r)
	m := &Model{}
	if err := rd.readHeader(m); err != nil {
		return nil, err
	}
	log.Debug("decoded header",
		zap.Float32("version", m.Version),
		zap.Stringer("encoding", m.Settings.Encoding),
		zap.Uint8("additional_uv", m.Settings.AdditionalUV),
	)

	var err error
	if m.Vertices, err = readSection(rd, log, sectionVertices, rd.readVertex); err != nil {
		return nil, err
	}
	if m.Indices, err = readSection(rd, log, sectionIndices, rd.vertexIndex); err != nil {
		return nil, err
	}
	if m.Textures, err = readSection(rd, log, sectionTextures, rd.text); err != nil {
		return nil, err
	}
	if m.Materials, err = readSection(rd, log, sectionMaterials, rd.readMaterial); err != nil {
		return nil, err
	}
	if m.Bones, err = readSection(rd, log, sectionBones, rd.readBone); err != nil {
		return nil, err
	}
	if m.Morphs, err = readSection(rd, log, sectionMorphs, rd.readMorph); err != nil {
		return nil, err
	}
	if m.Frames, err = readSection(rd, log, sectionFrames, rd.readFrame); err != nil {
		return nil, err
	}
	if m.RigidBodies, err = readSection(rd, log, sectionRigidBodies, rd.readRigidBody); err != nil {
		return nil, err
	}
	if m.Joints, err = readSection(rd, log, sectionJoints, rd.readJoint); err != nil {
		return nil, err
	}
	if m.HasSoftBodies() {
		if m.SoftBodies, err = readSection(rd, log, sectionSoftBodies, rd.readSoftBody); err != nil {
			return nil, err
		}
	}

	if !d.SkipValidation {
		if err := m.Validate(); err != nil {
			return nil, err
		}
	}
	if d.CheckWidths {
		if err := m.CheckWidths(d.WidthSlack); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (r *reader) readHeader(m *Model) error {
	var magic [4]byte
	r.br.Bytes(magic[:])
	if r.failed() {
		return r.sectionError(sectionHeader, -1)
	}
	if string(magic[:]) != Magic {
		return &SectionError{Section: sectionHeader, Index: -1, Offset: 0,
			Cause: fmt.Errorf("%w: got %q", ErrInvalidMagic, magic[:])}
	}

	m.Version = r.f32()
	if r.failed() {
		return r.sectionError(sectionHeader, -1)
	}
	if !(m.Version >= Version20 && m.Version <= Version21) {
		return r.headerError(fmt.Errorf("%w: %v", ErrUnsupportedVersion, m.Version))
	}

	size := r.u8()
	if r.failed() {
		return r.sectionError(sectionHeader, -1)
	}
	if size != settingsSize {
		return r.headerError(fmt.Errorf("%w: settings length %d, want %d", ErrInvalidSetting, size, settingsSize))
	}
	var raw [settingsSize]byte
	if r.br.Bytes(raw[:]) {
		return r.sectionError(sectionHeader, -1)
	}
	m.Settings = settingsFromBytes(raw)
	if err := m.Settings.Validate(); err != nil {
		return r.headerError(err)
	}
	r.settings = m.Settings

	m.Name = r.text()
	m.EnglishName = r.text()
	m.Comment = r.text()
	m.EnglishComment = r.text()
	if r.failed() {
		return r.sectionError(sectionHeader, -1)
	}
	return nil
}

// readSection reads a 4-byte count followed by that many elements.
func readSection[T any](r *reader, log *zap.Logger, name string, read func() T) ([]T, error) {
	start := r.offset()
	n := r.count()
	if r.failed() {
		return nil, r.sectionError(name, -1)
	}
	items := newList[[]T](n)
	for i := 0; i < n; i++ {
		item := read()
		if r.failed() {
			return nil, r.sectionError(name, i)
		}
		items = append(items, item)
	}
	log.Debug("decoded section",
		zap.String("section", name),
		zap.Int("count", n),
		zap.Int64("offset", start),
		zap.Int64("size", r.offset()-start),
	)
	return items, nil
}

func (r *reader) sectionError(section string, index int) error {
	return &SectionError{
		Section: section,
		Index:   index,
		Offset:  r.offset(),
		Cause:   truncation(r.err()),
	}
}

func (r *reader) headerError(cause error) error {
	return &SectionError{Section: sectionHeader, Index: -1, Offset: r.offset(), Cause: cause}
}
