// Package report builds structural summaries of PMX models and renders them
// as text, YAML or CBOR.
package report

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/pmxkit/pkg/pmx"
)

// Format selects how a Summary is rendered.
type Format uint8

const (
	Text Format = iota
	YAML
	CBOR
)

// ErrUnknownFormat is returned for unrecognized report format names.
var ErrUnknownFormat = errors.New("unknown report format")

// String returns the format name.
func (f Format) String() string {
	switch f {
	case Text:
		return "text"
	case YAML:
		return "yaml"
	case CBOR:
		return "cbor"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(f))
	}
}

// ParseFormat converts a format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "text", "":
		return Text, nil
	case "yaml", "yml":
		return YAML, nil
	case "cbor":
		return CBOR, nil
	default:
		return Text, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// encMode uses Core Deterministic Encoding so equal summaries always
// produce identical bytes.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("report: CBOR encoder initialization failed: " + err.Error())
	}
}

// Summary is the structural overview of one model.
type Summary struct {
	File        string `yaml:"file,omitempty" cbor:"file,omitempty"`
	Compression string `yaml:"compression,omitempty" cbor:"compression,omitempty"`
	Size        int64  `yaml:"size,omitempty" cbor:"size,omitempty"`
	Digest      string `yaml:"blake3,omitempty" cbor:"blake3,omitempty"`

	Version      string `yaml:"version" cbor:"version"`
	Encoding     string `yaml:"encoding" cbor:"encoding"`
	AdditionalUV int    `yaml:"additional_uv" cbor:"additional_uv"`
	Widths       Widths `yaml:"index_widths" cbor:"index_widths"`

	Name           string `yaml:"name" cbor:"name"`
	EnglishName    string `yaml:"english_name" cbor:"english_name"`
	Comment        string `yaml:"comment,omitempty" cbor:"comment,omitempty"`
	EnglishComment string `yaml:"english_comment,omitempty" cbor:"english_comment,omitempty"`

	Counts     Counts         `yaml:"counts" cbor:"counts"`
	Skinning   map[string]int `yaml:"skinning,omitempty" cbor:"skinning,omitempty"`
	MorphTypes map[string]int `yaml:"morph_types,omitempty" cbor:"morph_types,omitempty"`

	Textures  []string          `yaml:"textures,omitempty" cbor:"textures,omitempty"`
	Materials []MaterialSummary `yaml:"materials,omitempty" cbor:"materials,omitempty"`
	RootBones []string          `yaml:"root_bones,omitempty" cbor:"root_bones,omitempty"`
	IKBones   []string          `yaml:"ik_bones,omitempty" cbor:"ik_bones,omitempty"`
}

// Widths lists the configured index width of each reference kind.
type Widths struct {
	Vertex    int `yaml:"vertex" cbor:"vertex"`
	Texture   int `yaml:"texture" cbor:"texture"`
	Material  int `yaml:"material" cbor:"material"`
	Bone      int `yaml:"bone" cbor:"bone"`
	Morph     int `yaml:"morph" cbor:"morph"`
	RigidBody int `yaml:"rigid_body" cbor:"rigid_body"`
}

// Counts holds the element count of every section.
type Counts struct {
	Vertices    int `yaml:"vertices" cbor:"vertices"`
	Indices     int `yaml:"indices" cbor:"indices"`
	Faces       int `yaml:"faces" cbor:"faces"`
	Textures    int `yaml:"textures" cbor:"textures"`
	Materials   int `yaml:"materials" cbor:"materials"`
	Bones       int `yaml:"bones" cbor:"bones"`
	Morphs      int `yaml:"morphs" cbor:"morphs"`
	Frames      int `yaml:"frames" cbor:"frames"`
	RigidBodies int `yaml:"rigid_bodies" cbor:"rigid_bodies"`
	Joints      int `yaml:"joints" cbor:"joints"`
	SoftBodies  int `yaml:"soft_bodies" cbor:"soft_bodies"`
}

// MaterialSummary describes one material's slice of the index buffer.
type MaterialSummary struct {
	Name    string `yaml:"name" cbor:"name"`
	Texture string `yaml:"texture,omitempty" cbor:"texture,omitempty"`
	Faces   int    `yaml:"faces" cbor:"faces"`
}

// New builds the summary of m.
func New(m *pmx.Model) *Summary {
	s := &Summary{
		Version:        strconv.FormatFloat(float64(m.Version), 'f', 1, 32),
		Encoding:       m.Settings.Encoding.String(),
		AdditionalUV:   int(m.Settings.AdditionalUV),
		Name:           m.Name,
		EnglishName:    m.EnglishName,
		Comment:        m.Comment,
		EnglishComment: m.EnglishComment,
		Widths: Widths{
			Vertex:    int(m.Settings.VertexIndexSize),
			Texture:   int(m.Settings.TextureIndexSize),
			Material:  int(m.Settings.MaterialIndexSize),
			Bone:      int(m.Settings.BoneIndexSize),
			Morph:     int(m.Settings.MorphIndexSize),
			RigidBody: int(m.Settings.RigidBodyIndexSize),
		},
		Counts: Counts{
			Vertices:    len(m.Vertices),
			Indices:     len(m.Indices),
			Faces:       m.FaceCount(),
			Textures:    len(m.Textures),
			Materials:   len(m.Materials),
			Bones:       len(m.Bones),
			Morphs:      len(m.Morphs),
			Frames:      len(m.Frames),
			RigidBodies: len(m.RigidBodies),
			Joints:      len(m.Joints),
			SoftBodies:  len(m.SoftBodies),
		},
		Textures: m.Textures,
	}

	for i := range m.Vertices {
		if sk := m.Vertices[i].Skinning; sk != nil {
			if s.Skinning == nil {
				s.Skinning = make(map[string]int)
			}
			s.Skinning[sk.Method().String()]++
		}
	}
	for i := range m.Morphs {
		if s.MorphTypes == nil {
			s.MorphTypes = make(map[string]int)
		}
		s.MorphTypes[m.Morphs[i].Type().String()]++
	}
	for i := range m.Materials {
		mat := &m.Materials[i]
		ms := MaterialSummary{Name: mat.Name, Faces: int(mat.IndexCount) / 3}
		if t := int(mat.Texture); t >= 0 && t < len(m.Textures) {
			ms.Texture = m.Textures[t]
		}
		s.Materials = append(s.Materials, ms)
	}
	for _, i := range m.RootBones() {
		s.RootBones = append(s.RootBones, m.Bones[i].Name)
	}
	for i := range m.Bones {
		if m.Bones[i].IK != nil {
			s.IKBones = append(s.IKBones, m.Bones[i].Name)
		}
	}
	return s
}

// Brief returns a copy of s without the histograms and per-element lists.
func (s *Summary) Brief() *Summary {
	b := *s
	b.Skinning = nil
	b.MorphTypes = nil
	b.Textures = nil
	b.Materials = nil
	b.RootBones = nil
	b.IKBones = nil
	return &b
}

// Write renders s to w in the given format.
func Write(w io.Writer, s *Summary, f Format) error {
	switch f {
	case Text:
		return writeText(w, s)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encoding yaml report: %w", err)
		}
		return enc.Close()
	case CBOR:
		data, err := encMode.Marshal(s)
		if err != nil {
			return fmt.Errorf("encoding cbor report: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, f)
	}
}

func writeText(w io.Writer, s *Summary) error {
	var b strings.Builder

	if s.File != "" {
		fmt.Fprintf(&b, "File: %s\n", s.File)
		if s.Compression != "" && s.Compression != "none" {
			fmt.Fprintf(&b, "Container: %s\n", s.Compression)
		}
		if s.Size > 0 {
			fmt.Fprintf(&b, "Size: %d bytes\n", s.Size)
		}
	}
	if s.Digest != "" {
		fmt.Fprintf(&b, "BLAKE3: %s\n", s.Digest)
	}
	fmt.Fprintf(&b, "Version: %s\n", s.Version)
	fmt.Fprintf(&b, "Encoding: %s\n", s.Encoding)
	fmt.Fprintf(&b, "Additional UV: %d\n", s.AdditionalUV)
	fmt.Fprintf(&b, "Index widths: vertex=%d texture=%d material=%d bone=%d morph=%d rigid_body=%d\n",
		s.Widths.Vertex, s.Widths.Texture, s.Widths.Material, s.Widths.Bone, s.Widths.Morph, s.Widths.RigidBody)
	fmt.Fprintf(&b, "Name: %s", s.Name)
	if s.EnglishName != "" {
		fmt.Fprintf(&b, " (%s)", s.EnglishName)
	}
	b.WriteByte('\n')

	c := s.Counts
	fmt.Fprintf(&b, "\nSections:\n")
	fmt.Fprintf(&b, "  %-13s %d\n", "vertices", c.Vertices)
	fmt.Fprintf(&b, "  %-13s %d (%d faces)\n", "indices", c.Indices, c.Faces)
	fmt.Fprintf(&b, "  %-13s %d\n", "textures", c.Textures)
	fmt.Fprintf(&b, "  %-13s %d\n", "materials", c.Materials)
	fmt.Fprintf(&b, "  %-13s %d\n", "bones", c.Bones)
	fmt.Fprintf(&b, "  %-13s %d\n", "morphs", c.Morphs)
	fmt.Fprintf(&b, "  %-13s %d\n", "frames", c.Frames)
	fmt.Fprintf(&b, "  %-13s %d\n", "rigid bodies", c.RigidBodies)
	fmt.Fprintf(&b, "  %-13s %d\n", "joints", c.Joints)
	fmt.Fprintf(&b, "  %-13s %d\n", "soft bodies", c.SoftBodies)

	writeHistogram(&b, "Skinning", s.Skinning)
	writeHistogram(&b, "Morph types", s.MorphTypes)

	if len(s.Materials) > 0 {
		fmt.Fprintf(&b, "\nMaterials:\n")
		for i, m := range s.Materials {
			fmt.Fprintf(&b, "  [%d] %s: %d faces", i, m.Name, m.Faces)
			if m.Texture != "" {
				fmt.Fprintf(&b, ", texture %s", m.Texture)
			}
			b.WriteByte('\n')
		}
	}
	if len(s.RootBones) > 0 {
		fmt.Fprintf(&b, "\nRoot bones: %s\n", strings.Join(s.RootBones, ", "))
	}
	if len(s.IKBones) > 0 {
		fmt.Fprintf(&b, "IK bones: %s\n", strings.Join(s.IKBones, ", "))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeHistogram(b *strings.Builder, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(b, "\n%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(b, "  %-13s %d\n", k, counts[k])
	}
}
