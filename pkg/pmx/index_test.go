package pmx

import (
	"bytes"
	"errors"
	"testing"
)

func TestDecodeIndex(t *testing.T) {
	tests := []struct {
		name string
		kind IndexKind
		data []byte
		want int64
	}{
		{"bone w1 sentinel", KindBone, []byte{0xFF}, -1},
		{"bone w1 max", KindBone, []byte{0x7F}, 127},
		{"bone w1 min", KindBone, []byte{0x80}, -128},
		{"bone w2 sentinel", KindBone, []byte{0xFF, 0xFF}, -1},
		{"bone w2 max", KindBone, []byte{0xFF, 0x7F}, 32767},
		{"texture w4 sentinel", KindTexture, []byte{0xFF, 0xFF, 0xFF, 0xFF}, -1},
		{"morph w4 value", KindMorph, []byte{0x01, 0x02, 0x00, 0x00}, 0x0201},
		{"vertex w1 max", KindVertex, []byte{0xFF}, 255},
		{"vertex w2 max", KindVertex, []byte{0xFF, 0xFF}, 65535},
		{"vertex w4 all ones", KindVertex, []byte{0xFF, 0xFF, 0xFF, 0xFF}, 0xFFFFFFFF},
		{"vertex w2 little endian", KindVertex, []byte{0x34, 0x12}, 0x1234},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeIndex(tt.data, tt.kind); got != tt.want {
				t.Errorf("DecodeIndex(% x, %s) = %d, want %d", tt.data, tt.kind, got, tt.want)
			}
		})
	}
}

func TestEncodeIndex(t *testing.T) {
	tests := []struct {
		name    string
		kind    IndexKind
		width   int
		value   int64
		want    []byte
		wantErr error
	}{
		{"bone w1 sentinel", KindBone, 1, -1, []byte{0xFF}, nil},
		{"bone w1 max", KindBone, 1, 127, []byte{0x7F}, nil},
		{"bone w1 overflow", KindBone, 1, 128, nil, ErrIndexWidthOverflow},
		{"bone w1 underflow", KindBone, 1, -129, nil, ErrIndexWidthOverflow},
		{"bone w2 max", KindBone, 2, 32767, []byte{0xFF, 0x7F}, nil},
		{"bone w2 overflow", KindBone, 2, 32768, nil, ErrIndexWidthOverflow},
		{"rigid body w4 sentinel", KindRigidBody, 4, -1, []byte{0xFF, 0xFF, 0xFF, 0xFF}, nil},
		{"vertex w1 max", KindVertex, 1, 255, []byte{0xFF}, nil},
		{"vertex w1 overflow", KindVertex, 1, 256, nil, ErrIndexWidthOverflow},
		{"vertex w2 max", KindVertex, 2, 65535, []byte{0xFF, 0xFF}, nil},
		{"vertex w2 overflow", KindVertex, 2, 65536, nil, ErrIndexWidthOverflow},
		{"vertex negative", KindVertex, 4, -1, nil, ErrIndexWidthOverflow},
		{"vertex w4 reserved", KindVertex, 4, 0xFFFFFFFF, nil, ErrIndexWidthOverflow},
		{"vertex w4 max", KindVertex, 4, 0xFFFFFFFE, []byte{0xFE, 0xFF, 0xFF, 0xFF}, nil},
		{"bad width", KindBone, 3, 0, nil, ErrInvalidIndexWidth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := make([]byte, tt.width)
			err := EncodeIndex(b, tt.kind, tt.value)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("EncodeIndex error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("EncodeIndex: %v", err)
			}
			if !bytes.Equal(b, tt.want) {
				t.Errorf("EncodeIndex = % x, want % x", b, tt.want)
			}
		})
	}
}

func TestIndexSentinelStable(t *testing.T) {
	nullable := []IndexKind{KindTexture, KindMaterial, KindBone, KindMorph, KindRigidBody}
	for _, kind := range nullable {
		for _, width := range []int{1, 2, 4} {
			b := make([]byte, width)
			if err := EncodeIndex(b, kind, int64(NoRef)); err != nil {
				t.Fatalf("%s w%d: %v", kind, width, err)
			}
			for _, c := range b {
				if c != 0xFF {
					t.Errorf("%s w%d: sentinel encoded as % x", kind, width, b)
					break
				}
			}
			if got := DecodeIndex(b, kind); got != int64(NoRef) {
				t.Errorf("%s w%d: sentinel decoded as %d", kind, width, got)
			}
		}
	}
}

func TestIndexSizeFor(t *testing.T) {
	tests := []struct {
		kind  IndexKind
		count int
		want  uint8
	}{
		{KindVertex, 0, 1},
		{KindVertex, 255, 1},
		{KindVertex, 256, 2},
		{KindVertex, 65535, 2},
		{KindVertex, 65536, 4},
		{KindBone, 0, 1},
		{KindBone, 127, 1},
		{KindBone, 128, 2},
		{KindBone, 32767, 2},
		{KindBone, 32768, 4},
		{KindTexture, 200, 2},
	}

	for _, tt := range tests {
		if got := IndexSizeFor(tt.kind, tt.count); got != tt.want {
			t.Errorf("IndexSizeFor(%s, %d) = %d, want %d", tt.kind, tt.count, got, tt.want)
		}
	}
}

func TestIndexKind_String(t *testing.T) {
	tests := []struct {
		kind IndexKind
		want string
	}{
		{KindVertex, "vertex"},
		{KindRigidBody, "rigid body"},
		{IndexKind(42), "Unknown(42)"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("IndexKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
