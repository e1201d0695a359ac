package wire

import "fmt"

// PacketType is the tag carried in header byte 1, identifying which
// of the three AAA body families a packet carries.
type PacketType uint8

const (
	PacketTypeAuthentication PacketType = 0x1
	PacketTypeAuthorization  PacketType = 0x2
	PacketTypeAccounting     PacketType = 0x3
)

func (t PacketType) String() string {
	switch t {
	case PacketTypeAuthentication:
		return "Authentication"
	case PacketTypeAuthorization:
		return "Authorization"
	case PacketTypeAccounting:
		return "Accounting"
	default:
		return fmt.Sprintf("PacketType(0x%02x)", uint8(t))
	}
}

func parsePacketType(b byte) (PacketType, error) {
	switch PacketType(b) {
	case PacketTypeAuthentication, PacketTypeAuthorization, PacketTypeAccounting:
		return PacketType(b), nil
	default:
		return 0, fmt.Errorf("%w: 0x%02x", ErrInvalidEnumValue, b)
	}
}
