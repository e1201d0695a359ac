package wire

import "strings"

// TextField is a string whose bytes are all printable ASCII (0x20-0x7E),
// as RFC 8907 requires for several protocol fields (port, remote
// address, argument names/values, server messages).
type TextField struct {
	s string
}

// EmptyTextField is the zero-length TextField, valid by construction.
var EmptyTextField = TextField{}

// NewTextField validates s and wraps it in a TextField.
func NewTextField(s string) (TextField, error) {
	if !isPrintableASCII(s) {
		return TextField{}, ErrNotAscii
	}
	return TextField{s: s}, nil
}

// NewTextFieldFromBytes validates b and wraps it in a TextField.
func NewTextFieldFromBytes(b []byte) (TextField, error) {
	return NewTextField(string(b))
}

// String returns the field's value.
func (t TextField) String() string { return t.s }

// Bytes returns the field's value as a byte slice.
func (t TextField) Bytes() []byte { return []byte(t.s) }

// Len returns the number of bytes in the field.
func (t TextField) Len() int { return len(t.s) }

// ContainsAny reports whether any byte of t appears in chars.
func (t TextField) ContainsAny(chars string) bool {
	return strings.ContainsAny(t.s, chars)
}

func isPrintableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c >= 0x7F {
			return false
		}
	}
	return true
}
