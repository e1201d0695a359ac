package wire

import "fmt"

// AccountingFlags is the record-kind bitfield of an accounting Request
// body, RFC 8907 section 7.1. Only the four combinations below are
// representable; any other byte value fails to parse.
type AccountingFlags uint8

const (
	flagBitStart    AccountingFlags = 0b0010
	flagBitStop     AccountingFlags = 0b0100
	flagBitWatchdog AccountingFlags = 0b1000

	// AccountingStartRecord opens a new accounting task.
	AccountingStartRecord AccountingFlags = flagBitStart
	// AccountingStopRecord closes a task.
	AccountingStopRecord AccountingFlags = flagBitStop
	// AccountingWatchdogNoUpdate is a keepalive carrying no new
	// argument values.
	AccountingWatchdogNoUpdate AccountingFlags = flagBitWatchdog
	// AccountingWatchdogUpdate is a keepalive carrying updated
	// argument values.
	AccountingWatchdogUpdate AccountingFlags = flagBitWatchdog | flagBitStart
)

func parseAccountingFlags(b byte) (AccountingFlags, error) {
	switch AccountingFlags(b) {
	case AccountingStartRecord, AccountingStopRecord, AccountingWatchdogNoUpdate, AccountingWatchdogUpdate:
		return AccountingFlags(b), nil
	default:
		return 0, fmt.Errorf("%w: accounting flags 0x%02x", ErrInvalidBodyFlags, b)
	}
}

// AccountingRequest is the client's accounting record, RFC 8907
// section 7.1.
type AccountingRequest struct {
	Flags     AccountingFlags
	Method    AuthenticationMethod
	Context   AuthenticationContext
	User      UserInformation
	Arguments ArgumentList
}

// NewAccountingRequest wraps its fields without further validation
// beyond what the components already enforce.
func NewAccountingRequest(flags AccountingFlags, method AuthenticationMethod, ctx AuthenticationContext, user UserInformation, args ArgumentList) AccountingRequest {
	return AccountingRequest{Flags: flags, Method: method, Context: ctx, User: user, Arguments: args}
}

func (AccountingRequest) packetKind() PacketType { return PacketTypeAccounting }

// accountingRequestHeaderSize is flags + method + priv_lvl + authen_type
// + authen_service + user_len + port_len + rem_addr_len + arg_cnt.
const accountingRequestHeaderSize = 9

func (r AccountingRequest) bodyWireSize() int {
	userTextLen := r.User.WireSize() - userInformationHeaderSize
	return accountingRequestHeaderSize + r.Arguments.Len() + userTextLen + r.Arguments.EncodedLengthsSum()
}

func (r AccountingRequest) serializeBody(out []byte) error {
	if len(out) < r.bodyWireSize() {
		return ErrNotEnoughSpace
	}

	out[0] = byte(r.Flags)
	out[1] = byte(r.Method)
	r.Context.serializeHeader(out[2:5])
	r.User.serializeHeader(out[5:8])
	out[8] = byte(r.Arguments.Len())

	offset := accountingRequestHeaderSize
	if err := r.Arguments.serializeLengths(out[offset : offset+r.Arguments.Len()]); err != nil {
		return err
	}
	offset += r.Arguments.Len()

	offset += r.User.serializeBody(out[offset:])

	return r.Arguments.serializeEncodedValues(out[offset:])
}

func deserializeAccountingRequest(buf []byte) (AccountingRequest, error) {
	const minSize = accountingRequestHeaderSize
	if len(buf) < minSize {
		return AccountingRequest{}, ErrUnexpectedEnd
	}

	flags, err := parseAccountingFlags(buf[0])
	if err != nil {
		return AccountingRequest{}, err
	}
	method, err := parseAuthenticationMethod(buf[1])
	if err != nil {
		return AccountingRequest{}, err
	}
	ctx, err := deserializeAuthenticationContext(buf[2:5])
	if err != nil {
		return AccountingRequest{}, err
	}
	userLen, portLen, addrLen := int(buf[5]), int(buf[6]), int(buf[7])
	argCount := buf[8]

	offset := minSize
	if len(buf)-offset < int(argCount) {
		return AccountingRequest{}, ErrUnexpectedEnd
	}
	lengths := buf[offset : offset+int(argCount)]
	offset += int(argCount)

	need := userLen + portLen + addrLen
	if len(buf)-offset < need {
		return AccountingRequest{}, ErrUnexpectedEnd
	}
	user := string(buf[offset : offset+userLen])
	offset += userLen
	port, err := NewTextFieldFromBytes(buf[offset : offset+portLen])
	if err != nil {
		return AccountingRequest{}, err
	}
	offset += portLen
	addr, err := NewTextFieldFromBytes(buf[offset : offset+addrLen])
	if err != nil {
		return AccountingRequest{}, err
	}
	offset += addrLen

	userInfo, err := NewUserInformation(user, port, addr)
	if err != nil {
		return AccountingRequest{}, err
	}

	args, err := deserializeArgumentList(argCount, lengths, buf[offset:])
	if err != nil {
		return AccountingRequest{}, err
	}

	return AccountingRequest{Flags: flags, Method: method, Context: ctx, User: userInfo, Arguments: args}, nil
}

// AccountingRequestPacket is a Request body framed with its header.
type AccountingRequestPacket = Packet[AccountingRequest]

// DeserializeAccountingRequest parses a framed Request packet.
func DeserializeAccountingRequest(buf []byte, key []byte) (AccountingRequestPacket, error) {
	return DeserializePacket[AccountingRequest](buf, key, PacketTypeAccounting, deserializeAccountingRequest)
}

// AccountingStatus is the status field of an accounting Reply body,
// RFC 8907 section 7.2.
type AccountingStatus uint8

const (
	AccountingStatusSuccess AccountingStatus = 0x01
	AccountingStatusError   AccountingStatus = 0x02
	AccountingStatusFollow  AccountingStatus = 0x21
)

func parseAccountingStatus(b byte) (AccountingStatus, error) {
	switch AccountingStatus(b) {
	case AccountingStatusSuccess, AccountingStatusError, AccountingStatusFollow:
		return AccountingStatus(b), nil
	default:
		return 0, fmt.Errorf("%w: accounting status 0x%02x", ErrInvalidStatus, b)
	}
}

// IsFollow reports whether status tells the client to retry against a
// different server.
func (s AccountingStatus) IsFollow() bool { return s == AccountingStatusFollow }

// AccountingReply is the server's response to an AccountingRequest,
// RFC 8907 section 7.2.
type AccountingReply struct {
	Status        AccountingStatus
	ServerMessage TextField
	Data          []byte
}

// NewAccountingReply validates the 16-bit field caps.
func NewAccountingReply(status AccountingStatus, serverMessage TextField, data []byte) (AccountingReply, error) {
	if serverMessage.Len() > 0xFFFF || len(data) > 0xFFFF {
		return AccountingReply{}, ErrTooLong
	}
	return AccountingReply{Status: status, ServerMessage: serverMessage, Data: append([]byte(nil), data...)}, nil
}

func (AccountingReply) packetKind() PacketType { return PacketTypeAccounting }

func (r AccountingReply) bodyWireSize() int {
	return 5 + r.ServerMessage.Len() + len(r.Data)
}

func (r AccountingReply) serializeBody(out []byte) error {
	if len(out) < r.bodyWireSize() {
		return ErrNotEnoughSpace
	}
	msgLen := r.ServerMessage.Len()
	out[0] = byte(msgLen >> 8)
	out[1] = byte(msgLen)
	out[2] = byte(len(r.Data) >> 8)
	out[3] = byte(len(r.Data))
	out[4] = byte(r.Status)
	n := 5
	n += copy(out[n:], r.ServerMessage.Bytes())
	copy(out[n:], r.Data)
	return nil
}

func deserializeAccountingReply(buf []byte) (AccountingReply, error) {
	const minSize = 5
	if len(buf) < minSize {
		return AccountingReply{}, ErrUnexpectedEnd
	}
	msgLen := int(buf[0])<<8 | int(buf[1])
	dataLen := int(buf[2])<<8 | int(buf[3])
	status, err := parseAccountingStatus(buf[4])
	if err != nil {
		return AccountingReply{}, err
	}

	offset := minSize
	if len(buf)-offset < msgLen+dataLen {
		return AccountingReply{}, ErrUnexpectedEnd
	}
	msg, err := NewTextFieldFromBytes(buf[offset : offset+msgLen])
	if err != nil {
		return AccountingReply{}, err
	}
	offset += msgLen
	data := append([]byte(nil), buf[offset:offset+dataLen]...)

	return AccountingReply{Status: status, ServerMessage: msg, Data: data}, nil
}

// AccountingReplyPacket is a Reply body framed with its header.
type AccountingReplyPacket = Packet[AccountingReply]

// DeserializeAccountingReply parses a framed Reply packet.
func DeserializeAccountingReply(buf []byte, key []byte) (AccountingReplyPacket, error) {
	return DeserializePacket[AccountingReply](buf, key, PacketTypeAccounting, deserializeAccountingReply)
}
