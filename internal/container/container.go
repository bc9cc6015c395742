// Package container wraps PMX documents in optional compressed containers.
//
// The codec only sees plain document bytes; pmxtool uses this package to
// read and write .pmx, .pmx.zst and .pmx.lz4 files. Compressed files use the
// standard zstd and LZ4 frame formats, so ordinary command-line tools can
// open them too.
package container

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies a container format.
type Compression uint8

const (
	None Compression = iota
	Zstd
	LZ4
)

// ErrUnknownCompression is returned for unrecognized compression names.
var ErrUnknownCompression = errors.New("unknown compression")

// Frame magic numbers, little-endian on disk.
var (
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	lz4Magic  = []byte{0x04, 0x22, 0x4D, 0x18}
)

// String returns the compression name.
func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(c))
	}
}

// Extension returns the file suffix conventionally added for c.
func (c Compression) Extension() string {
	switch c {
	case Zstd:
		return ".zst"
	case LZ4:
		return ".lz4"
	default:
		return ""
	}
}

// Parse converts a compression name to a Compression.
func Parse(name string) (Compression, error) {
	switch strings.ToLower(name) {
	case "none", "raw", "":
		return None, nil
	case "zstd", "zst":
		return Zstd, nil
	case "lz4":
		return LZ4, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrUnknownCompression, name)
	}
}

// FromPath selects a compression from the file extension.
func FromPath(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return Zstd
	case ".lz4":
		return LZ4
	default:
		return None
	}
}

// Detect identifies the container from the first bytes of a file.
func Detect(header []byte) Compression {
	switch {
	case bytes.HasPrefix(header, zstdMagic):
		return Zstd
	case bytes.HasPrefix(header, lz4Magic):
		return LZ4
	default:
		return None
	}
}

// NewReader returns a reader yielding the decompressed content of r.
func NewReader(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case None:
		return io.NopCloser(r), nil
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		return zstdReadCloser{dec}, nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompression, c)
	}
}

// NewWriter returns a writer compressing into w. Close must be called to
// flush the final frame; it does not close w.
func NewWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case None:
		return nopWriteCloser{w}, nil
	case Zstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
		return enc, nil
	case LZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompression, c)
	}
}

// ReadFile reads a whole file and removes its container, detected from the
// content rather than the name.
func ReadFile(path string) ([]byte, Compression, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, None, err
	}
	c := Detect(raw)
	if c == None {
		return raw, None, nil
	}
	r, err := NewReader(bytes.NewReader(raw), c)
	if err != nil {
		return nil, c, err
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, c, fmt.Errorf("decompressing %s (%s): %w", path, c, err)
	}
	return data, c, nil
}

// WriteFile writes data to path inside the given container.
func WriteFile(path string, data []byte, c Compression) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w, err := NewWriter(f, c)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing %s (%s): %w", path, c, err)
	}
	return w.Close()
}

type zstdReadCloser struct {
	*zstd.Decoder
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
