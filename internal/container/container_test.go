package container

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"testing"
)

func sampleData() []byte {
	// Repetitive so every container actually compresses it.
	return bytes.Repeat([]byte("PMX \x00\x00\x00\x40 vertex data "), 512)
}

func TestStreamRoundTrip(t *testing.T) {
	for _, c := range []Compression{None, Zstd, LZ4} {
		t.Run(c.String(), func(t *testing.T) {
			data := sampleData()

			var buf bytes.Buffer
			w, err := NewWriter(&buf, c)
			if err != nil {
				t.Fatalf("NewWriter: %v", err)
			}
			if _, err := w.Write(data); err != nil {
				t.Fatalf("Write: %v", err)
			}
			if err := w.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}

			if got := Detect(buf.Bytes()); got != c {
				t.Errorf("Detect = %s, want %s", got, c)
			}
			if c != None && buf.Len() >= len(data) {
				t.Errorf("%s output %d bytes, input %d bytes", c, buf.Len(), len(data))
			}

			r, err := NewReader(&buf, c)
			if err != nil {
				t.Fatalf("NewReader: %v", err)
			}
			defer r.Close()
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("ReadAll: %v", err)
			}
			if !bytes.Equal(got, data) {
				t.Errorf("round trip returned %d bytes, want %d", len(got), len(data))
			}
		})
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	data := sampleData()

	tests := []struct {
		name string
		c    Compression
	}{
		{"model.pmx", None},
		{"model.pmx.zst", Zstd},
		{"model.pmx.lz4", LZ4},
		// content decides, not the name
		{"misnamed.pmx", Zstd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			if err := WriteFile(path, data, tt.c); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			got, c, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			if c != tt.c {
				t.Errorf("detected %s, want %s", c, tt.c)
			}
			if !bytes.Equal(got, data) {
				t.Errorf("ReadFile returned %d bytes, want %d", len(got), len(data))
			}
		})
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, _, err := ReadFile(filepath.Join(t.TempDir(), "missing.pmx")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		want    Compression
		wantErr bool
	}{
		{"none", None, false},
		{"", None, false},
		{"ZSTD", Zstd, false},
		{"zst", Zstd, false},
		{"lz4", LZ4, false},
		{"gzip", None, true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrUnknownCompression) {
			t.Errorf("Parse(%q) error = %v, want %v", tt.name, err, ErrUnknownCompression)
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Compression
	}{
		{"miku.pmx", None},
		{"miku.pmx.zst", Zstd},
		{"miku.PMX.ZSTD", Zstd},
		{"dir.lz4/miku.pmx.lz4", LZ4},
		{"miku", None},
	}

	for _, tt := range tests {
		if got := FromPath(tt.path); got != tt.want {
			t.Errorf("FromPath(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		header []byte
		want   Compression
	}{
		{"pmx", []byte("PMX \x00\x00\x00\x40"), None},
		{"zstd", []byte{0x28, 0xB5, 0x2F, 0xFD, 0x00}, Zstd},
		{"lz4", []byte{0x04, 0x22, 0x4D, 0x18, 0x64}, LZ4},
		{"short", []byte{0x28, 0xB5}, None},
		{"empty", nil, None},
	}

	for _, tt := range tests {
		if got := Detect(tt.header); got != tt.want {
			t.Errorf("%s: Detect = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestCompression_Extension(t *testing.T) {
	if got := Zstd.Extension(); got != ".zst" {
		t.Errorf("Zstd.Extension() = %q", got)
	}
	if got := LZ4.Extension(); got != ".lz4" {
		t.Errorf("LZ4.Extension() = %q", got)
	}
	if got := None.Extension(); got != "" {
		t.Errorf("None.Extension() = %q", got)
	}
	if got := Compression(9).String(); got != "Unknown(9)" {
		t.Errorf("Compression(9).String() = %q", got)
	}
}
