package wire

import "fmt"

// PacketBody is implemented by the three RFC 8907 body families
// (authentication, authorization, accounting) and by no one else: the
// unexported packetKind method means only types declared in this
// package can satisfy it.
type PacketBody interface {
	packetKind() PacketType
	bodyWireSize() int
	serializeBody(out []byte) error
}

// Packet couples a header with a strongly-typed body.
type Packet[B PacketBody] struct {
	Header HeaderInfo
	Body   B
}

// NewPacket pairs header and body without touching the wire.
func NewPacket[B PacketBody](header HeaderInfo, body B) Packet[B] {
	return Packet[B]{Header: header, Body: body}
}

// WireSize is the total on-wire length of the packet, header included.
func (p Packet[B]) WireSize() int {
	return HeaderSizeBytes + p.Body.bodyWireSize()
}

// Serialize encodes the packet into out. The UNENCRYPTED header flag is
// set automatically: clear when key is non-empty (and the body is then
// obfuscated), set when key is empty (and the body is left as
// cleartext) — the caller's Header.Flags value for that bit is
// ignored. out must be at least WireSize() bytes.
func (p Packet[B]) Serialize(out []byte, key []byte) (int, error) {
	total := p.WireSize()
	if len(out) < total {
		return 0, ErrNotEnoughSpace
	}

	flags := p.Header.Flags
	if len(key) > 0 {
		flags &^= FlagUnencrypted
	} else {
		flags |= FlagUnencrypted
	}
	header := p.Header
	header.Flags = flags

	bodySize := p.Body.bodyWireSize()
	if _, err := header.serialize(out, p.Body.packetKind(), uint32(bodySize)); err != nil {
		return 0, err
	}

	bodyBuf := out[HeaderSizeBytes:total]
	if err := p.Body.serializeBody(bodyBuf); err != nil {
		return 0, err
	}

	if len(key) > 0 {
		obfuscate(bodyBuf, header.SessionID, key, header.Version, header.SequenceNumber)
	}

	return total, nil
}

// DeserializePacket parses a header and a body of the expected packet
// type out of buf, deobfuscating with key as needed, then hands the
// raw body bytes to parseBody.
func DeserializePacket[B PacketBody](buf []byte, key []byte, expectedType PacketType, parseBody func([]byte) (B, error)) (Packet[B], error) {
	header, packetType, bodyLength, err := deserializeHeader(buf)
	if err != nil {
		defLogger.Debug().Err(err).Msg("header deserialize failed")
		return Packet[B]{}, err
	}
	if packetType != expectedType {
		defLogger.Debug().Stringer("expected", expectedType).Stringer("got", packetType).Msg("packet type mismatch")
		return Packet[B]{}, fmt.Errorf("%w: expected %s, got %s", ErrPacketTypeMismatch, expectedType, packetType)
	}

	available := len(buf) - HeaderSizeBytes
	if available < 0 || uint32(available) < bodyLength {
		return Packet[B]{}, fmt.Errorf("%w: body requires %d bytes, got %d", ErrUnexpectedEnd, bodyLength, available)
	}

	rawBody := make([]byte, bodyLength)
	copy(rawBody, buf[HeaderSizeBytes:HeaderSizeBytes+int(bodyLength)])

	unencrypted := header.Flags.Has(FlagUnencrypted)
	switch {
	case len(key) > 0 && unencrypted:
		return Packet[B]{}, ErrIncorrectUnencryptedFlag
	case len(key) == 0 && !unencrypted:
		return Packet[B]{}, ErrIncorrectUnencryptedFlag
	case len(key) > 0:
		obfuscate(rawBody, header.SessionID, key, header.Version, header.SequenceNumber)
	}

	body, err := parseBody(rawBody)
	if err != nil {
		defLogger.Debug().Err(err).Stringer("packet_type", packetType).Msg("body deserialize failed")
		return Packet[B]{}, err
	}

	return Packet[B]{Header: header, Body: body}, nil
}
