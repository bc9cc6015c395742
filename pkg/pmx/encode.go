package pmx

import (
	"bytes"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Encoder writes PMX documents. The zero value does not log.
type Encoder struct {
	Logger *zap.Logger
}

// Encode writes m to w with the default Encoder.
func Encode(w io.Writer, m *Model) error {
	var e Encoder
	return e.Encode(w, m)
}

// Marshal returns the encoded bytes of m.
func Marshal(m *Model) ([]byte, error) {
	var e Encoder
	return e.Marshal(m)
}

// Encode writes m to w. The document is assembled in memory first, so
// nothing reaches w when encoding fails.
func (e *Encoder) Encode(w io.Writer, m *Model) error {
	data, err := e.Marshal(m)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Marshal returns the encoded bytes of m. Counts are taken from the slice
// lengths and every index is written at the width set in m.Settings.
func (e *Encoder) Marshal(m *Model) ([]byte, error) {
	log := e.Logger
	if log == nil {
		log = zap.NewNop()
	}

	var buf bytes.Buffer
	w := newWriter(&buf)
	if err := w.writeHeader(m); err != nil {
		return nil, err
	}

	if err := writeSection(w, log, sectionVertices, m.Vertices, w.writeVertex); err != nil {
		return nil, err
	}
	if err := writeSection(w, log, sectionIndices, m.Indices, func(v *uint32) { w.vertexIndex(*v) }); err != nil {
		return nil, err
	}
	if err := writeSection(w, log, sectionTextures, m.Textures, func(s *string) { w.text(*s) }); err != nil {
		return nil, err
	}
	if err := writeSection(w, log, sectionMaterials, m.Materials, w.writeMaterial); err != nil {
		return nil, err
	}
	if err := writeSection(w, log, sectionBones, m.Bones, w.writeBone); err != nil {
		return nil, err
	}
	if err := writeSection(w, log, sectionMorphs, m.Morphs, w.writeMorph); err != nil {
		return nil, err
	}
	if err := writeSection(w, log, sectionFrames, m.Frames, w.writeFrame); err != nil {
		return nil, err
	}
	if err := writeSection(w, log, sectionRigidBodies, m.RigidBodies, w.writeRigidBody); err != nil {
		return nil, err
	}
	if err := writeSection(w, log, sectionJoints, m.Joints, w.writeJoint); err != nil {
		return nil, err
	}
	if m.HasSoftBodies() {
		if err := writeSection(w, log, sectionSoftBodies, m.SoftBodies, w.writeSoftBody); err != nil {
			return nil, err
		}
	}

	log.Debug("encoded document", zap.Int("size", buf.Len()))
	return buf.Bytes(), nil
}

func (w *writer) writeHeader(m *Model) error {
	if !(m.Version >= Version20 && m.Version <= Version21) {
		return w.headerError(fmt.Errorf("%w: %v", ErrUnsupportedVersion, m.Version))
	}
	if err := m.Settings.Validate(); err != nil {
		return w.headerError(err)
	}
	if !m.HasSoftBodies() && len(m.SoftBodies) > 0 {
		return w.headerError(fmt.Errorf("%w: version %v cannot store %d soft bodies",
			ErrInvalidSetting, m.Version, len(m.SoftBodies)))
	}
	w.settings = m.Settings

	raw := m.Settings.bytes()
	w.bytes([]byte(Magic))
	w.f32(m.Version)
	w.u8(settingsSize)
	w.bytes(raw[:])
	w.text(m.Name)
	w.text(m.EnglishName)
	w.text(m.Comment)
	w.text(m.EnglishComment)
	if w.failed() {
		return w.sectionError(sectionHeader, -1)
	}
	return nil
}

// writeSection writes the element count of items followed by each element.
func writeSection[T any](w *writer, log *zap.Logger, name string, items []T, write func(*T)) error {
	start := w.offset()
	w.count(len(items))
	if w.failed() {
		return w.sectionError(name, -1)
	}
	for i := range items {
		write(&items[i])
		if w.failed() {
			return w.sectionError(name, i)
		}
	}
	log.Debug("encoded section",
		zap.String("section", name),
		zap.Int("count", len(items)),
		zap.Int64("offset", start),
		zap.Int64("size", w.offset()-start),
	)
	return nil
}

func (w *writer) sectionError(section string, index int) error {
	return &SectionError{Section: section, Index: index, Offset: w.offset(), Cause: w.err()}
}

func (w *writer) headerError(cause error) error {
	return &SectionError{Section: sectionHeader, Index: -1, Offset: w.offset(), Cause: cause}
}
