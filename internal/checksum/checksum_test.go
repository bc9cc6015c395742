package checksum

import (
	"bytes"
	"strings"
	"testing"
)

func TestSum_KnownVector(t *testing.T) {
	// BLAKE3 of the empty input.
	const want = "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"
	if got := Sum(nil).String(); got != want {
		t.Errorf("Sum(nil) = %s, want %s", got, want)
	}
}

func TestSum_Stable(t *testing.T) {
	data := []byte("PMX \x00\x00\x00\x40")
	a := Sum(data)
	b := Sum(bytes.Clone(data))
	if a != b {
		t.Errorf("digest not stable: %s != %s", a, b)
	}

	data[0] = 'p'
	if Sum(data) == a {
		t.Error("digest unchanged after modifying input")
	}
}

func TestDigest_Short(t *testing.T) {
	d := Sum([]byte("model"))
	if got := d.Short(); len(got) != 12 || !strings.HasPrefix(d.String(), got) {
		t.Errorf("Short() = %q", got)
	}
	if len(d.String()) != 2*Size {
		t.Errorf("String() has %d characters, want %d", len(d.String()), 2*Size)
	}
}
