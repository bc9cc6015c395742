package encoding

import (
	"bytes"
	"errors"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"ascii", "Center"},
		{"japanese", "センター"},
		{"surrogate pair", "bone \U0001F600 tail"},
		{"leading bom", "\uFEFFmemo"},
	}

	for _, enc := range []Encoding{UTF16LE, UTF8} {
		for _, tt := range tests {
			t.Run(enc.String()+"/"+tt.name, func(t *testing.T) {
				data, err := Encode(enc, tt.text)
				if err != nil {
					t.Fatalf("Encode failed: %v", err)
				}
				got, err := Decode(enc, data)
				if err != nil {
					t.Fatalf("Decode failed: %v", err)
				}
				if got != tt.text {
					t.Errorf("got %q, want %q", got, tt.text)
				}
			})
		}
	}
}

func TestEncodeUTF16LEBytes(t *testing.T) {
	data, err := Encode(UTF16LE, "A\U0001F600")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	want := []byte{0x41, 0x00, 0x3D, 0xD8, 0x00, 0xDE}
	if !bytes.Equal(data, want) {
		t.Errorf("got % x, want % x", data, want)
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name string
		enc  Encoding
		data []byte
	}{
		{"odd utf16 length", UTF16LE, []byte{0x41, 0x00, 0x42}},
		{"lone high surrogate at end", UTF16LE, []byte{0x41, 0x00, 0x3D, 0xD8}},
		{"high surrogate then ascii", UTF16LE, []byte{0x3D, 0xD8, 0x41, 0x00}},
		{"lone low surrogate", UTF16LE, []byte{0x00, 0xDE, 0x41, 0x00}},
		{"truncated utf8", UTF8, []byte{0xE3, 0x82}},
		{"invalid utf8 byte", UTF8, []byte{'a', 0xFF}},
		{"unknown encoding", Encoding(7), []byte("a")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.enc, tt.data)
			if !errors.Is(err, ErrInvalidText) {
				t.Errorf("expected ErrInvalidText, got %v", err)
			}
		})
	}
}

func TestEncodeInvalidString(t *testing.T) {
	for _, enc := range []Encoding{UTF16LE, UTF8} {
		if _, err := Encode(enc, "bad\xffbyte"); !errors.Is(err, ErrInvalidText) {
			t.Errorf("%s: expected ErrInvalidText, got %v", enc, err)
		}
	}
}

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		name    string
		want    Encoding
		wantErr bool
	}{
		{"utf8", UTF8, false},
		{"utf-8", UTF8, false},
		{"utf16le", UTF16LE, false},
		{"shift_jis", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEncoding(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("got error=%v, wantErr=%v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEncodingString(t *testing.T) {
	if got := Encoding(9).String(); got != "Unknown(9)" {
		t.Errorf("got %q", got)
	}
	if !UTF8.Valid() || Encoding(2).Valid() {
		t.Error("Valid reported wrong result")
	}
}
