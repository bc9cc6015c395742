package pmx

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// PMX codec errors.
var (
	ErrInvalidMagic         = errors.New("invalid PMX magic: expected 'PMX '")
	ErrUnsupportedVersion   = errors.New("unsupported PMX version")
	ErrTruncatedInput       = errors.New("truncated PMX data")
	ErrUnknownEncoding      = errors.New("unknown text encoding")
	ErrInvalidSetting       = errors.New("invalid PMX setting")
	ErrInvalidIndexWidth    = errors.New("invalid index width")
	ErrMalformedString      = errors.New("malformed string")
	ErrInvalidTextEncoding  = errors.New("invalid text encoding")
	ErrUnknownVariantTag    = errors.New("unknown variant tag")
	ErrIndexWidthOverflow   = errors.New("index does not fit configured width")
	ErrReferentialIntegrity = errors.New("referential integrity violated")
)

// SectionError reports a failure inside one section of the document.
type SectionError struct {
	// Section names the document section, e.g. "vertices".
	Section string
	// Index is the element position within the section, or -1 when the
	// failure concerns the section as a whole (its count).
	Index int
	// Offset is the byte offset of the cursor when the failure was detected.
	Offset int64

	Cause error
}

func (err *SectionError) Error() string {
	var s strings.Builder
	s.WriteString(err.Section)
	if err.Index >= 0 {
		s.WriteByte('[')
		s.WriteString(strconv.Itoa(err.Index))
		s.WriteByte(']')
	}
	s.WriteString(" at byte ")
	s.WriteString(strconv.FormatInt(err.Offset, 10))
	if err.Cause != nil {
		s.WriteString(": ")
		s.WriteString(err.Cause.Error())
	}
	return s.String()
}

func (err *SectionError) Unwrap() error {
	return err.Cause
}

// ReferenceError identifies a cross-reference that is neither the
// no-reference sentinel nor inside the referenced section.
type ReferenceError struct {
	Section string
	Index   int
	Field   string
	Value   int64
	// Limit is the element count of the referenced section.
	Limit int
}

func (err *ReferenceError) Error() string {
	return fmt.Sprintf("%s: %s[%d].%s = %d, want %s",
		ErrReferentialIntegrity, err.Section, err.Index, err.Field, err.Value, rangeText(err.Limit))
}

func (err *ReferenceError) Unwrap() error {
	return ErrReferentialIntegrity
}

func rangeText(limit int) string {
	if limit == 0 {
		return "no reference (section is empty)"
	}
	return fmt.Sprintf("[0, %d)", limit)
}
