package wire

import "errors"

// Sentinel errors returned by the codec. Callers should match with
// errors.Is; wrapping preserves context (offending byte, field name).
var (
	// ErrInvalidVersion is returned when a header's version byte has an
	// unrecognized major nibble or minor value.
	ErrInvalidVersion = errors.New("wire: invalid version byte")

	// ErrInvalidHeaderFlags is returned when a header's flags byte has
	// bits set outside UNENCRYPTED and SINGLE_CONNECTION.
	ErrInvalidHeaderFlags = errors.New("wire: invalid header flags")

	// ErrInvalidBodyFlags is returned when a body's flags byte has bits
	// set outside the ones that body kind defines.
	ErrInvalidBodyFlags = errors.New("wire: invalid body flags")

	// ErrPacketTypeMismatch is returned when a deserialized header's
	// packet type tag doesn't match the body kind being decoded.
	ErrPacketTypeMismatch = errors.New("wire: packet type mismatch")

	// ErrUnexpectedEnd is returned when a buffer is shorter than a
	// length field elsewhere in it claims.
	ErrUnexpectedEnd = errors.New("wire: unexpected end of buffer")

	// ErrIncorrectUnencryptedFlag is returned when the UNENCRYPTED flag
	// doesn't match whether a secret key is configured for the
	// exchange, per RFC 8907 section 4.5.
	ErrIncorrectUnencryptedFlag = errors.New("wire: incorrect UNENCRYPTED flag for configured obfuscation")

	// ErrNotAscii is returned when a text field contains a byte that
	// isn't printable ASCII.
	ErrNotAscii = errors.New("wire: field is not printable ASCII")

	// ErrTooLong is returned when a field exceeds its maximum encoded
	// length.
	ErrTooLong = errors.New("wire: field too long")

	// ErrEmptyName is returned when an argument's name is empty.
	ErrEmptyName = errors.New("wire: argument name is empty")

	// ErrNameContainsDelimiter is returned when an argument's name
	// contains '=' or '*'.
	ErrNameContainsDelimiter = errors.New("wire: argument name contains a delimiter")

	// ErrNoDelimiter is returned when an encoded argument has no '='
	// or '*' separating name from value.
	ErrNoDelimiter = errors.New("wire: argument has no delimiter")

	// ErrTooManyArguments is returned when an argument list would
	// exceed 255 entries.
	ErrTooManyArguments = errors.New("wire: too many arguments")

	// ErrInvalidStatus is returned when a status byte doesn't match any
	// status defined for that body kind.
	ErrInvalidStatus = errors.New("wire: invalid status byte")

	// ErrInvalidEnumValue is returned when a field enumeration byte
	// (method, authentication type/service, action) is unrecognized.
	ErrInvalidEnumValue = errors.New("wire: invalid enumeration value")

	// ErrNotEnoughSpace is returned by serialization when the
	// destination buffer is smaller than the encoded size.
	ErrNotEnoughSpace = errors.New("wire: buffer too small")

	// ErrInvalidPrivilegeLevel is returned when a privilege level is
	// outside the 0-15 range.
	ErrInvalidPrivilegeLevel = errors.New("wire: privilege level out of range")

	// ErrAuthenTypeNotSet is returned when an authentication Start
	// packet is constructed with AuthenticationType NotSet.
	ErrAuthenTypeNotSet = errors.New("wire: authentication type must be set for a Start packet")
)
