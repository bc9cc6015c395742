// Package encoding provides strict text encoding utilities for PMX documents.
package encoding

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrInvalidText is returned when bytes are not valid in the requested
// encoding, or when a string cannot be represented without substitution.
var ErrInvalidText = errors.New("invalid text encoding")

// Encoding selects how strings are stored in a document.
type Encoding uint8

const (
	UTF16LE Encoding = 0
	UTF8    Encoding = 1
)

// String returns the encoding name.
func (e Encoding) String() string {
	switch e {
	case UTF16LE:
		return "UTF-16LE"
	case UTF8:
		return "UTF-8"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(e))
	}
}

// Valid reports whether e is a known encoding.
func (e Encoding) Valid() bool {
	return e == UTF16LE || e == UTF8
}

// ParseEncoding parses an encoding name as used in configuration files.
func ParseEncoding(name string) (Encoding, error) {
	switch name {
	case "utf16le", "utf-16le", "utf16":
		return UTF16LE, nil
	case "utf8", "utf-8":
		return UTF8, nil
	default:
		return 0, fmt.Errorf("unknown encoding %q", name)
	}
}

// utf16le never writes or strips byte order marks; a leading U+FEFF is
// ordinary text.
var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// Decode converts raw document bytes to a Go string. Invalid input is
// rejected rather than replaced with U+FFFD.
func Decode(enc Encoding, data []byte) (string, error) {
	switch enc {
	case UTF8:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: malformed UTF-8 sequence", ErrInvalidText)
		}
		return string(data), nil
	case UTF16LE:
		if len(data)%2 != 0 {
			return "", fmt.Errorf("%w: odd UTF-16 byte count %d", ErrInvalidText, len(data))
		}
		if err := checkSurrogates(data); err != nil {
			return "", err
		}
		result, _, err := transform.Bytes(utf16le.NewDecoder(), data)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidText, err)
		}
		return string(result), nil
	default:
		return "", fmt.Errorf("%w: unknown encoding %d", ErrInvalidText, uint8(enc))
	}
}

// Encode converts s to raw document bytes.
func Encode(enc Encoding, s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, fmt.Errorf("%w: string is not valid UTF-8", ErrInvalidText)
	}
	switch enc {
	case UTF8:
		return []byte(s), nil
	case UTF16LE:
		result, _, err := transform.Bytes(utf16le.NewEncoder(), []byte(s))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidText, err)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("%w: unknown encoding %d", ErrInvalidText, uint8(enc))
	}
}

// checkSurrogates walks UTF-16LE code units and fails on any high surrogate
// not followed by a low surrogate, or any stray low surrogate.
func checkSurrogates(data []byte) error {
	for i := 0; i < len(data); i += 2 {
		unit := rune(binary.LittleEndian.Uint16(data[i:]))
		if !utf16.IsSurrogate(unit) {
			continue
		}
		if unit >= 0xDC00 {
			return fmt.Errorf("%w: unpaired low surrogate at byte %d", ErrInvalidText, i)
		}
		if i+2 >= len(data) {
			return fmt.Errorf("%w: unpaired high surrogate at byte %d", ErrInvalidText, i)
		}
		next := rune(binary.LittleEndian.Uint16(data[i+2:]))
		if next < 0xDC00 || next > 0xDFFF {
			return fmt.Errorf("%w: unpaired high surrogate at byte %d", ErrInvalidText, i)
		}
		i += 2
	}
	return nil
}
