package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/pmxkit/internal/container"
	"github.com/Faultbox/pmxkit/pkg/encoding"
	"github.com/Faultbox/pmxkit/pkg/pmx"
)

// isolate keeps config discovery away from the user's files.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	return dir
}

func writeModel(t *testing.T, dir string) string {
	t.Helper()
	m := &pmx.Model{
		Version:  pmx.Version21,
		Settings: pmx.DefaultSettings(),
		Name:     "テスト",
		Vertices: []pmx.Vertex{
			{Position: pmx.Vec3{0, 0, 0}, Skinning: pmx.BDEF1{Bone: 0}},
			{Position: pmx.Vec3{1, 0, 0}, Skinning: pmx.BDEF1{Bone: 0}},
			{Position: pmx.Vec3{0, 1, 0}, Skinning: pmx.BDEF1{Bone: 0}},
		},
		Indices: []uint32{0, 1, 2},
		Materials: []pmx.Material{
			{Name: "mat", Texture: pmx.NoRef, SphereTexture: pmx.NoRef, Toon: pmx.NoRef, IndexCount: 3},
		},
		Bones: []pmx.Bone{
			{Name: "センター", Parent: pmx.NoRef, Tail: pmx.TailOffset{}},
		},
	}
	data, err := pmx.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	path := filepath.Join(dir, "model.pmx")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_Info(t *testing.T) {
	path := writeModel(t, isolate(t))

	var out bytes.Buffer
	if err := run("info", []string{path}, &out); err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{"Version: 2.1", "Encoding: UTF-16LE", "BLAKE3: ", "Name: テスト"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("info output missing %q:\n%s", want, out.String())
		}
	}
	if strings.Contains(out.String(), "Materials:") {
		t.Errorf("info output lists materials:\n%s", out.String())
	}
}

func TestRun_Verify(t *testing.T) {
	path := writeModel(t, isolate(t))

	var out bytes.Buffer
	if err := run("verify", []string{path}, &out); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !strings.HasPrefix(out.String(), "OK") {
		t.Errorf("verify output = %q", out.String())
	}
}

func TestRun_Convert(t *testing.T) {
	dir := isolate(t)
	path := writeModel(t, dir)
	outPath := filepath.Join(dir, "model.pmx.zst")

	var out bytes.Buffer
	args := []string{path, outPath, "--encoding", "utf8", "--widths", "minimal"}
	if err := run("convert", args, &out); err != nil {
		t.Fatalf("convert: %v", err)
	}

	data, c, err := container.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if c != container.Zstd {
		t.Errorf("container = %s, want zstd", c)
	}
	m, err := pmx.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if m.Settings.Encoding != encoding.UTF8 {
		t.Errorf("encoding = %s, want UTF-8", m.Settings.Encoding)
	}
	if m.Settings.VertexIndexSize != 1 || m.Settings.BoneIndexSize != 1 {
		t.Errorf("widths not minimal: %+v", m.Settings)
	}
	if m.Name != "テスト" {
		t.Errorf("Name = %q", m.Name)
	}

	// the converted file verifies too
	out.Reset()
	if err := run("verify", []string{outPath}, &out); err != nil {
		t.Fatalf("verify converted: %v", err)
	}
}

func TestRun_ConvertExplicitCompression(t *testing.T) {
	dir := isolate(t)
	path := writeModel(t, dir)
	outPath := filepath.Join(dir, "plain-name.pmx")

	if err := run("convert", []string{path, outPath, "--compression", "lz4"}, &bytes.Buffer{}); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if _, c, err := container.ReadFile(outPath); err != nil || c != container.LZ4 {
		t.Errorf("ReadFile = %s, %v; want lz4", c, err)
	}
}

func TestRun_Dump(t *testing.T) {
	path := writeModel(t, isolate(t))

	var out bytes.Buffer
	if err := run("dump", []string{path, "--format", "yaml"}, &out); err != nil {
		t.Fatalf("dump: %v", err)
	}
	for _, want := range []string{"counts:", "vertices: 3", "root_bones:"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("dump output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRun_Config(t *testing.T) {
	dir := isolate(t)

	var out bytes.Buffer
	if err := run("config", []string{"--encoding", "utf8"}, &out); err != nil {
		t.Fatalf("config: %v", err)
	}
	if !strings.Contains(out.String(), "encoding: utf8") {
		t.Errorf("config output:\n%s", out.String())
	}

	path := filepath.Join(dir, "custom.yaml")
	out.Reset()
	if err := run("config", []string{"--config", path, "--write"}, &out); err == nil {
		t.Fatal("expected error loading a missing --config file")
	}

	if err := os.WriteFile(path, []byte("output:\n  format: cbor\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := run("config", []string{"--config", path, "--write"}, &out); err != nil {
		t.Fatalf("config --write: %v", err)
	}
	saved, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(saved), "format: cbor") || !strings.Contains(string(saved), "codec:") {
		t.Errorf("saved config:\n%s", saved)
	}
}

func TestRun_Errors(t *testing.T) {
	dir := isolate(t)

	if err := run("frobnicate", nil, &bytes.Buffer{}); !errors.Is(err, errUnknownCommand) {
		t.Errorf("unknown command: error = %v", err)
	}
	if err := run("info", nil, &bytes.Buffer{}); !errors.Is(err, errUsage) {
		t.Errorf("info without files: error = %v", err)
	}
	if err := run("convert", []string{"a.pmx"}, &bytes.Buffer{}); !errors.Is(err, errUsage) {
		t.Errorf("convert with one path: error = %v", err)
	}

	bad := filepath.Join(dir, "bad.pmx")
	if err := os.WriteFile(bad, []byte("PMY \x00\x00\x00\x40"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := run("info", []string{bad}, &bytes.Buffer{}); !errors.Is(err, pmx.ErrInvalidMagic) {
		t.Errorf("info on bad magic: error = %v", err)
	}
}

// chdir stands in for testing.T.Chdir (Go 1.24+) on older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
