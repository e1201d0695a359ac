package wire

import (
	"encoding/binary"
	"fmt"
)

// HeaderSizeBytes is the fixed size of the TACACS+ common header.
const HeaderSizeBytes = 12

// HeaderInfo is the 12-byte header shared by every packet kind.
type HeaderInfo struct {
	Version        Version
	SequenceNumber uint8
	Flags          HeaderFlags
	SessionID      uint32
}

// NewHeaderInfo builds a header for a client-originated packet.
// SequenceNumber should be odd for client packets (1, 3, 5, ...).
func NewHeaderInfo(version Version, sequenceNumber uint8, flags HeaderFlags, sessionID uint32) HeaderInfo {
	return HeaderInfo{
		Version:        version,
		SequenceNumber: sequenceNumber,
		Flags:          flags,
		SessionID:      sessionID,
	}
}

// serialize writes the 12-byte header into buffer[:12], given the
// packet type tag and the already-known body length. Returns
// HeaderSizeBytes on success.
func (h HeaderInfo) serialize(buffer []byte, packetType PacketType, bodyLength uint32) (int, error) {
	if len(buffer) < HeaderSizeBytes {
		return 0, ErrNotEnoughSpace
	}

	buffer[0] = h.Version.Byte()
	buffer[1] = byte(packetType)
	buffer[2] = h.SequenceNumber
	buffer[3] = byte(h.Flags)
	binary.BigEndian.PutUint32(buffer[4:8], h.SessionID)
	binary.BigEndian.PutUint32(buffer[8:12], bodyLength)

	return HeaderSizeBytes, nil
}

// deserializeHeader parses the first 12 bytes of buffer into a header,
// the packet type tag found at byte 1, and the claimed body length.
func deserializeHeader(buffer []byte) (HeaderInfo, PacketType, uint32, error) {
	if len(buffer) < HeaderSizeBytes {
		return HeaderInfo{}, 0, 0, fmt.Errorf("%w: header requires %d bytes, got %d", ErrUnexpectedEnd, HeaderSizeBytes, len(buffer))
	}

	version, err := parseVersionByte(buffer[0])
	if err != nil {
		return HeaderInfo{}, 0, 0, err
	}

	packetType, err := parsePacketType(buffer[1])
	if err != nil {
		return HeaderInfo{}, 0, 0, err
	}

	flags, err := parseHeaderFlags(buffer[3])
	if err != nil {
		return HeaderInfo{}, 0, 0, err
	}

	sessionID := binary.BigEndian.Uint32(buffer[4:8])
	bodyLength := binary.BigEndian.Uint32(buffer[8:12])

	header := HeaderInfo{
		Version:        version,
		SequenceNumber: buffer[2],
		Flags:          flags,
		SessionID:      sessionID,
	}

	return header, packetType, bodyLength, nil
}
