package wire

import "fmt"

// AuthorizationRequest is the client's single-message authorization
// body, RFC 8907 section 6.1.
type AuthorizationRequest struct {
	Method    AuthenticationMethod
	Context   AuthenticationContext
	User      UserInformation
	Arguments ArgumentList
}

// NewAuthorizationRequest wraps its fields without further validation
// beyond what the components already enforce.
func NewAuthorizationRequest(method AuthenticationMethod, ctx AuthenticationContext, user UserInformation, args ArgumentList) AuthorizationRequest {
	return AuthorizationRequest{Method: method, Context: ctx, User: user, Arguments: args}
}

func (AuthorizationRequest) packetKind() PacketType { return PacketTypeAuthorization }

// authorizationRequestHeaderSize is authen_method + priv_lvl + authen_type
// + authen_service + user_len + port_len + rem_addr_len + arg_cnt.
const authorizationRequestHeaderSize = 8

func (r AuthorizationRequest) bodyWireSize() int {
	userTextLen := r.User.WireSize() - userInformationHeaderSize
	return authorizationRequestHeaderSize + r.Arguments.Len() + userTextLen + r.Arguments.EncodedLengthsSum()
}

func (r AuthorizationRequest) serializeBody(out []byte) error {
	if len(out) < r.bodyWireSize() {
		return ErrNotEnoughSpace
	}

	out[0] = byte(r.Method)
	r.Context.serializeHeader(out[1:4])
	r.User.serializeHeader(out[4:7])
	out[7] = byte(r.Arguments.Len())

	offset := authorizationRequestHeaderSize
	if err := r.Arguments.serializeLengths(out[offset : offset+r.Arguments.Len()]); err != nil {
		return err
	}
	offset += r.Arguments.Len()

	offset += r.User.serializeBody(out[offset:])

	return r.Arguments.serializeEncodedValues(out[offset:])
}

func deserializeAuthorizationRequest(buf []byte) (AuthorizationRequest, error) {
	const minSize = 8
	if len(buf) < minSize {
		return AuthorizationRequest{}, ErrUnexpectedEnd
	}

	method, err := parseAuthenticationMethod(buf[0])
	if err != nil {
		return AuthorizationRequest{}, err
	}
	ctx, err := deserializeAuthenticationContext(buf[1:4])
	if err != nil {
		return AuthorizationRequest{}, err
	}
	userLen, portLen, addrLen := int(buf[4]), int(buf[5]), int(buf[6])
	argCount := buf[7]

	offset := minSize
	if len(buf)-offset < int(argCount) {
		return AuthorizationRequest{}, ErrUnexpectedEnd
	}
	lengths := buf[offset : offset+int(argCount)]
	offset += int(argCount)

	need := userLen + portLen + addrLen
	if len(buf)-offset < need {
		return AuthorizationRequest{}, ErrUnexpectedEnd
	}
	user := string(buf[offset : offset+userLen])
	offset += userLen
	port, err := NewTextFieldFromBytes(buf[offset : offset+portLen])
	if err != nil {
		return AuthorizationRequest{}, err
	}
	offset += portLen
	addr, err := NewTextFieldFromBytes(buf[offset : offset+addrLen])
	if err != nil {
		return AuthorizationRequest{}, err
	}
	offset += addrLen

	userInfo, err := NewUserInformation(user, port, addr)
	if err != nil {
		return AuthorizationRequest{}, err
	}

	args, err := deserializeArgumentList(argCount, lengths, buf[offset:])
	if err != nil {
		return AuthorizationRequest{}, err
	}

	return AuthorizationRequest{Method: method, Context: ctx, User: userInfo, Arguments: args}, nil
}

// AuthorizationRequestPacket is a Request body framed with its header.
type AuthorizationRequestPacket = Packet[AuthorizationRequest]

// DeserializeAuthorizationRequest parses a framed Request packet.
func DeserializeAuthorizationRequest(buf []byte, key []byte) (AuthorizationRequestPacket, error) {
	return DeserializePacket[AuthorizationRequest](buf, key, PacketTypeAuthorization, deserializeAuthorizationRequest)
}

// AuthorizationStatus is the status field of an authorization Reply
// body, RFC 8907 section 6.2.
type AuthorizationStatus uint8

const (
	AuthorizationStatusPassAdd  AuthorizationStatus = 0x01
	AuthorizationStatusPassRepl AuthorizationStatus = 0x02
	AuthorizationStatusFail     AuthorizationStatus = 0x10
	AuthorizationStatusError    AuthorizationStatus = 0x11
	AuthorizationStatusFollow   AuthorizationStatus = 0x21
)

func parseAuthorizationStatus(b byte) (AuthorizationStatus, error) {
	switch AuthorizationStatus(b) {
	case AuthorizationStatusPassAdd, AuthorizationStatusPassRepl, AuthorizationStatusFail,
		AuthorizationStatusError, AuthorizationStatusFollow:
		return AuthorizationStatus(b), nil
	default:
		return 0, fmt.Errorf("%w: authorization status 0x%02x", ErrInvalidStatus, b)
	}
}

// IsFollow reports whether status tells the client to retry against a
// different server.
func (s AuthorizationStatus) IsFollow() bool { return s == AuthorizationStatusFollow }

// AuthorizationReply is the server's response to an AuthorizationRequest,
// RFC 8907 section 6.2. When Status is PassAdd, Arguments are added
// to the request's arguments; when PassRepl, they supersede request
// arguments of the same name. Session.Authorize in the root tacplus
// package performs that reconciliation.
type AuthorizationReply struct {
	Status       AuthorizationStatus
	Arguments    ArgumentList
	ServerMessage TextField
	Data         []byte
}

// NewAuthorizationReply validates the 16-bit field caps.
func NewAuthorizationReply(status AuthorizationStatus, args ArgumentList, serverMessage TextField, data []byte) (AuthorizationReply, error) {
	if serverMessage.Len() > 0xFFFF || len(data) > 0xFFFF {
		return AuthorizationReply{}, ErrTooLong
	}
	return AuthorizationReply{Status: status, Arguments: args, ServerMessage: serverMessage, Data: append([]byte(nil), data...)}, nil
}

func (AuthorizationReply) packetKind() PacketType { return PacketTypeAuthorization }

// authorizationReplyHeaderSize is status + arg_cnt + server_msg_len(2)
// + data_len(2).
const authorizationReplyHeaderSize = 6

func (r AuthorizationReply) bodyWireSize() int {
	return authorizationReplyHeaderSize + r.Arguments.Len() + r.ServerMessage.Len() + len(r.Data) + r.Arguments.EncodedLengthsSum()
}

func (r AuthorizationReply) serializeBody(out []byte) error {
	if len(out) < r.bodyWireSize() {
		return ErrNotEnoughSpace
	}

	out[0] = byte(r.Status)
	out[1] = byte(r.Arguments.Len())
	msgLen := r.ServerMessage.Len()
	out[2] = byte(msgLen >> 8)
	out[3] = byte(msgLen)
	out[4] = byte(len(r.Data) >> 8)
	out[5] = byte(len(r.Data))

	offset := authorizationReplyHeaderSize
	if err := r.Arguments.serializeLengths(out[offset : offset+r.Arguments.Len()]); err != nil {
		return err
	}
	offset += r.Arguments.Len()

	offset += copy(out[offset:], r.ServerMessage.Bytes())
	offset += copy(out[offset:], r.Data)

	return r.Arguments.serializeEncodedValues(out[offset:])
}

func deserializeAuthorizationReply(buf []byte) (AuthorizationReply, error) {
	const minSize = 6
	if len(buf) < minSize {
		return AuthorizationReply{}, ErrUnexpectedEnd
	}

	status, err := parseAuthorizationStatus(buf[0])
	if err != nil {
		return AuthorizationReply{}, err
	}
	argCount := buf[1]
	msgLen := int(buf[2])<<8 | int(buf[3])
	dataLen := int(buf[4])<<8 | int(buf[5])

	offset := minSize
	if len(buf)-offset < int(argCount) {
		return AuthorizationReply{}, ErrUnexpectedEnd
	}
	lengths := buf[offset : offset+int(argCount)]
	offset += int(argCount)

	if len(buf)-offset < msgLen+dataLen {
		return AuthorizationReply{}, ErrUnexpectedEnd
	}
	msg, err := NewTextFieldFromBytes(buf[offset : offset+msgLen])
	if err != nil {
		return AuthorizationReply{}, err
	}
	offset += msgLen
	data := append([]byte(nil), buf[offset:offset+dataLen]...)
	offset += dataLen

	args, err := deserializeArgumentList(argCount, lengths, buf[offset:])
	if err != nil {
		return AuthorizationReply{}, err
	}

	return AuthorizationReply{Status: status, Arguments: args, ServerMessage: msg, Data: data}, nil
}

// AuthorizationReplyPacket is a Reply body framed with its header.
type AuthorizationReplyPacket = Packet[AuthorizationReply]

// DeserializeAuthorizationReply parses a framed Reply packet.
func DeserializeAuthorizationReply(buf []byte, key []byte) (AuthorizationReplyPacket, error) {
	return DeserializePacket[AuthorizationReply](buf, key, PacketTypeAuthorization, deserializeAuthorizationReply)
}
