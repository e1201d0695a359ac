package wire

import (
	"bytes"
	"fmt"
)

// maxArgumentEncodedLength is the largest encoded_length() an Argument
// may have, since it must be representable in a single length byte.
const maxArgumentEncodedLength = 255

// Argument is a single `name(=|*)value` pair, as specified by RFC 8907
// section 6.1. Required arguments use '=' as delimiter; optional
// arguments use '*'.
type Argument struct {
	name     TextField
	value    TextField
	required bool
}

// NewArgument validates name and value against the invariants in RFC
// 8907 section 6.1: the name must be nonempty, contain neither '=' nor
// '*', and the full encoded form must fit in 255 bytes.
func NewArgument(name, value TextField, required bool) (Argument, error) {
	if name.Len() == 0 {
		return Argument{}, ErrEmptyName
	}
	if name.ContainsAny("=*") {
		return Argument{}, ErrNameContainsDelimiter
	}
	if name.Len()+1+value.Len() > maxArgumentEncodedLength {
		return Argument{}, fmt.Errorf("%w: argument %q", ErrTooLong, name.String())
	}

	return Argument{name: name, value: value, required: required}, nil
}

// Name returns the argument's name.
func (a Argument) Name() TextField { return a.name }

// Value returns the argument's value.
func (a Argument) Value() TextField { return a.value }

// Required reports whether the argument uses '=' (true) or '*' (false).
func (a Argument) Required() bool { return a.required }

// EncodedLength is name.Len() + 1 (delimiter) + value.Len().
func (a Argument) EncodedLength() int {
	return a.name.Len() + 1 + a.value.Len()
}

func (a Argument) delimiter() byte {
	if a.required {
		return '='
	}
	return '*'
}

// serialize writes the name-delimiter-value encoding into out, which
// must be at least EncodedLength() bytes.
func (a Argument) serialize(out []byte) {
	n := copy(out, a.name.Bytes())
	out[n] = a.delimiter()
	copy(out[n+1:], a.value.Bytes())
}

// deserializeArgument parses a single name-delimiter-value encoding,
// choosing the first occurring '=' or '*' as the authoritative
// delimiter per RFC 8907 section 6.1 (names MUST NOT contain either).
func deserializeArgument(raw []byte) (Argument, error) {
	if !isPrintableASCII(string(raw)) {
		return Argument{}, ErrNotAscii
	}

	equalsIdx := bytes.IndexByte(raw, '=')
	starIdx := bytes.IndexByte(raw, '*')

	delimiterIdx := -1
	switch {
	case equalsIdx < 0:
		delimiterIdx = starIdx
	case starIdx < 0:
		delimiterIdx = equalsIdx
	case equalsIdx < starIdx:
		delimiterIdx = equalsIdx
	default:
		delimiterIdx = starIdx
	}

	if delimiterIdx < 0 {
		return Argument{}, ErrNoDelimiter
	}
	if delimiterIdx == 0 {
		return Argument{}, ErrEmptyName
	}

	name, _ := NewTextFieldFromBytes(raw[:delimiterIdx])
	value, _ := NewTextFieldFromBytes(raw[delimiterIdx+1:])
	required := raw[delimiterIdx] == '='

	return Argument{name: name, value: value, required: required}, nil
}

// ArgumentList is an ordered, length-bounded sequence of Argument.
// Duplicate names are permitted and preserved in order.
type ArgumentList struct {
	args []Argument
}

// maxArgumentCount is the largest number of arguments an ArgumentList
// may hold, since the count must fit in a single wire byte.
const maxArgumentCount = 255

// NewArgumentList wraps args, failing if there are more than 255.
func NewArgumentList(args []Argument) (ArgumentList, error) {
	if len(args) > maxArgumentCount {
		return ArgumentList{}, ErrTooManyArguments
	}
	return ArgumentList{args: args}, nil
}

// Arguments returns the list's entries in order.
func (l ArgumentList) Arguments() []Argument { return l.args }

// Len returns the number of arguments.
func (l ArgumentList) Len() int { return len(l.args) }

// WireSize is 1 (count) + len(l) (one length byte per argument) + the
// sum of each argument's encoded length.
func (l ArgumentList) WireSize() int {
	size := 1 + len(l.args)
	for _, a := range l.args {
		size += a.EncodedLength()
	}
	return size
}

// serializeLengths writes one length byte per argument, in order.
func (l ArgumentList) serializeLengths(out []byte) error {
	if len(out) < len(l.args) {
		return ErrNotEnoughSpace
	}
	for i, a := range l.args {
		out[i] = byte(a.EncodedLength())
	}
	return nil
}

// EncodedLengthsSum is the sum of every argument's EncodedLength().
func (l ArgumentList) EncodedLengthsSum() int {
	total := 0
	for _, a := range l.args {
		total += a.EncodedLength()
	}
	return total
}

// serializeEncodedValues writes each argument's name-delimiter-value
// encoding back to back.
func (l ArgumentList) serializeEncodedValues(out []byte) error {
	var total int
	for _, a := range l.args {
		total += a.EncodedLength()
	}
	if len(out) < total {
		return ErrNotEnoughSpace
	}

	offset := 0
	for _, a := range l.args {
		n := a.EncodedLength()
		a.serialize(out[offset : offset+n])
		offset += n
	}
	return nil
}

// deserializeArgumentList checks that lengths holds exactly count
// length bytes, then slices values according to those lengths.
func deserializeArgumentList(count uint8, lengths []byte, values []byte) (ArgumentList, error) {
	if len(lengths) != int(count) {
		return ArgumentList{}, ErrUnexpectedEnd
	}

	args := make([]Argument, 0, count)
	offset := 0
	for _, length := range lengths {
		end := offset + int(length)
		if end > len(values) {
			return ArgumentList{}, ErrUnexpectedEnd
		}
		arg, err := deserializeArgument(values[offset:end])
		if err != nil {
			return ArgumentList{}, err
		}
		args = append(args, arg)
		offset = end
	}

	return ArgumentList{args: args}, nil
}
