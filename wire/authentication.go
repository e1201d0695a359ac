package wire

import "fmt"

// AuthenStartAction is the action field of an authentication Start
// body, RFC 8907 section 5.1.
type AuthenStartAction uint8

const (
	AuthenActionLogin    AuthenStartAction = 0x01
	AuthenActionChPass   AuthenStartAction = 0x02
	AuthenActionSendAuth AuthenStartAction = 0x04
)

func parseAuthenStartAction(b byte) (AuthenStartAction, error) {
	switch AuthenStartAction(b) {
	case AuthenActionLogin, AuthenActionChPass, AuthenActionSendAuth:
		return AuthenStartAction(b), nil
	default:
		return 0, fmt.Errorf("%w: authentication action 0x%02x", ErrInvalidEnumValue, b)
	}
}

// AuthenticationStart is the client's first message in an
// authentication session (RFC 8907 section 5.1).
type AuthenticationStart struct {
	Action  AuthenStartAction
	Context AuthenticationContext
	User    UserInformation
	Data    []byte
}

// NewAuthenticationStart refuses AuthenticationTypeNotSet and data
// longer than 255 bytes. The header minor version is not checked here;
// see AuthenticationType.RequiredMinorVersion.
func NewAuthenticationStart(action AuthenStartAction, ctx AuthenticationContext, user UserInformation, data []byte) (AuthenticationStart, error) {
	if ctx.Type == AuthenticationTypeNotSet {
		return AuthenticationStart{}, ErrAuthenTypeNotSet
	}
	if len(data) > 255 {
		return AuthenticationStart{}, ErrTooLong
	}
	return AuthenticationStart{Action: action, Context: ctx, User: user, Data: append([]byte(nil), data...)}, nil
}

func (AuthenticationStart) packetKind() PacketType { return PacketTypeAuthentication }

func (s AuthenticationStart) bodyWireSize() int {
	return 1 + WireSizeAuthenticationContext + 1 + s.User.WireSize() + len(s.Data)
}

func (s AuthenticationStart) serializeBody(out []byte) error {
	if len(out) < s.bodyWireSize() {
		return ErrNotEnoughSpace
	}
	out[0] = byte(s.Action)
	s.Context.serializeHeader(out[1:4])
	s.User.serializeHeader(out[4:7])
	out[7] = byte(len(s.Data))
	n := 8
	n += s.User.serializeBody(out[n:])
	copy(out[n:], s.Data)
	return nil
}

func deserializeAuthenticationStart(buf []byte) (AuthenticationStart, error) {
	const minSize = 8
	if len(buf) < minSize {
		return AuthenticationStart{}, ErrUnexpectedEnd
	}

	action, err := parseAuthenStartAction(buf[0])
	if err != nil {
		return AuthenticationStart{}, err
	}
	ctx, err := deserializeAuthenticationContext(buf[1:4])
	if err != nil {
		return AuthenticationStart{}, err
	}

	userLen, portLen, addrLen := int(buf[4]), int(buf[5]), int(buf[6])
	dataLen := int(buf[7])

	offset := minSize
	need := userLen + portLen + addrLen + dataLen
	if len(buf)-offset < need {
		return AuthenticationStart{}, ErrUnexpectedEnd
	}

	user := string(buf[offset : offset+userLen])
	offset += userLen
	port, err := NewTextFieldFromBytes(buf[offset : offset+portLen])
	if err != nil {
		return AuthenticationStart{}, err
	}
	offset += portLen
	addr, err := NewTextFieldFromBytes(buf[offset : offset+addrLen])
	if err != nil {
		return AuthenticationStart{}, err
	}
	offset += addrLen

	userInfo, err := NewUserInformation(user, port, addr)
	if err != nil {
		return AuthenticationStart{}, err
	}

	data := append([]byte(nil), buf[offset:offset+dataLen]...)

	return AuthenticationStart{Action: action, Context: ctx, User: userInfo, Data: data}, nil
}

// AuthenticationStartPacket is a Start body framed with its header.
type AuthenticationStartPacket = Packet[AuthenticationStart]

// DeserializeAuthenticationStart parses a framed Start packet.
func DeserializeAuthenticationStart(buf []byte, key []byte) (AuthenticationStartPacket, error) {
	return DeserializePacket[AuthenticationStart](buf, key, PacketTypeAuthentication, deserializeAuthenticationStart)
}

// AuthenContinueFlags are the flag bits of an authentication Continue
// body.
type AuthenContinueFlags uint8

const (
	// ContinueFlagAbort tells the server the client is giving up on
	// this authentication attempt.
	ContinueFlagAbort      AuthenContinueFlags = 0x01
	continueFlagsKnownMask AuthenContinueFlags = ContinueFlagAbort
)

func parseAuthenContinueFlags(b byte) (AuthenContinueFlags, error) {
	f := AuthenContinueFlags(b)
	if f&^continueFlagsKnownMask != 0 {
		return 0, fmt.Errorf("%w: 0x%02x", ErrInvalidBodyFlags, b)
	}
	return f, nil
}

// AuthenticationContinue is a client reply to a server REPLY during
// multi-step (ASCII) authentication, RFC 8907 section 5.3.
type AuthenticationContinue struct {
	UserMessage TextField
	Data        []byte
	Flags       AuthenContinueFlags
}

// NewAuthenticationContinue validates the 16-bit field caps.
func NewAuthenticationContinue(userMessage TextField, data []byte, flags AuthenContinueFlags) (AuthenticationContinue, error) {
	if userMessage.Len() > 0xFFFF || len(data) > 0xFFFF {
		return AuthenticationContinue{}, ErrTooLong
	}
	return AuthenticationContinue{UserMessage: userMessage, Data: append([]byte(nil), data...), Flags: flags}, nil
}

func (AuthenticationContinue) packetKind() PacketType { return PacketTypeAuthentication }

func (c AuthenticationContinue) bodyWireSize() int {
	return 5 + c.UserMessage.Len() + len(c.Data)
}

func (c AuthenticationContinue) serializeBody(out []byte) error {
	if len(out) < c.bodyWireSize() {
		return ErrNotEnoughSpace
	}
	msgLen := c.UserMessage.Len()
	out[0] = byte(msgLen >> 8)
	out[1] = byte(msgLen)
	out[2] = byte(len(c.Data) >> 8)
	out[3] = byte(len(c.Data))
	out[4] = byte(c.Flags)
	n := 5
	n += copy(out[n:], c.UserMessage.Bytes())
	copy(out[n:], c.Data)
	return nil
}

func deserializeAuthenticationContinue(buf []byte) (AuthenticationContinue, error) {
	const minSize = 5
	if len(buf) < minSize {
		return AuthenticationContinue{}, ErrUnexpectedEnd
	}
	msgLen := int(buf[0])<<8 | int(buf[1])
	dataLen := int(buf[2])<<8 | int(buf[3])
	flags, err := parseAuthenContinueFlags(buf[4])
	if err != nil {
		return AuthenticationContinue{}, err
	}

	offset := minSize
	if len(buf)-offset < msgLen+dataLen {
		return AuthenticationContinue{}, ErrUnexpectedEnd
	}
	msg, err := NewTextFieldFromBytes(buf[offset : offset+msgLen])
	if err != nil {
		return AuthenticationContinue{}, err
	}
	offset += msgLen
	data := append([]byte(nil), buf[offset:offset+dataLen]...)

	return AuthenticationContinue{UserMessage: msg, Data: data, Flags: flags}, nil
}

// AuthenticationContinuePacket is a Continue body framed with its
// header.
type AuthenticationContinuePacket = Packet[AuthenticationContinue]

// DeserializeAuthenticationContinue parses a framed Continue packet.
func DeserializeAuthenticationContinue(buf []byte, key []byte) (AuthenticationContinuePacket, error) {
	return DeserializePacket[AuthenticationContinue](buf, key, PacketTypeAuthentication, deserializeAuthenticationContinue)
}

// AuthenStatus is the status field of an authentication Reply body,
// RFC 8907 section 5.2.
type AuthenStatus uint8

const (
	AuthenStatusPass    AuthenStatus = 0x01
	AuthenStatusFail    AuthenStatus = 0x02
	AuthenStatusGetData AuthenStatus = 0x03
	AuthenStatusGetUser AuthenStatus = 0x04
	AuthenStatusGetPass AuthenStatus = 0x05
	AuthenStatusRestart AuthenStatus = 0x06
	AuthenStatusError   AuthenStatus = 0x07
	AuthenStatusFollow  AuthenStatus = 0x21
)

func parseAuthenStatus(b byte) (AuthenStatus, error) {
	switch AuthenStatus(b) {
	case AuthenStatusPass, AuthenStatusFail, AuthenStatusGetData, AuthenStatusGetUser,
		AuthenStatusGetPass, AuthenStatusRestart, AuthenStatusError, AuthenStatusFollow:
		return AuthenStatus(b), nil
	default:
		return 0, fmt.Errorf("%w: authentication status 0x%02x", ErrInvalidStatus, b)
	}
}

// AuthenReplyFlags are the flag bits of an authentication Reply body.
type AuthenReplyFlags uint8

const (
	// ReplyFlagNoEcho tells the client not to echo the user's next
	// input line (used when prompting for a password).
	ReplyFlagNoEcho     AuthenReplyFlags = 0x01
	replyFlagsKnownMask AuthenReplyFlags = ReplyFlagNoEcho
)

func parseAuthenReplyFlags(b byte) (AuthenReplyFlags, error) {
	f := AuthenReplyFlags(b)
	if f&^replyFlagsKnownMask != 0 {
		return 0, fmt.Errorf("%w: 0x%02x", ErrInvalidBodyFlags, b)
	}
	return f, nil
}

// AuthenticationReply is the server's response in an authentication
// exchange, RFC 8907 section 5.2.
type AuthenticationReply struct {
	Status       AuthenStatus
	Flags        AuthenReplyFlags
	ServerMessage TextField
	Data         []byte
}

// NewAuthenticationReply validates the 65535-byte field caps (these
// two fields carry 16-bit lengths, unlike most other text fields).
func NewAuthenticationReply(status AuthenStatus, flags AuthenReplyFlags, serverMessage TextField, data []byte) (AuthenticationReply, error) {
	if serverMessage.Len() > 0xFFFF || len(data) > 0xFFFF {
		return AuthenticationReply{}, ErrTooLong
	}
	return AuthenticationReply{Status: status, Flags: flags, ServerMessage: serverMessage, Data: append([]byte(nil), data...)}, nil
}

func (AuthenticationReply) packetKind() PacketType { return PacketTypeAuthentication }

func (r AuthenticationReply) bodyWireSize() int {
	return 6 + r.ServerMessage.Len() + len(r.Data)
}

func (r AuthenticationReply) serializeBody(out []byte) error {
	if len(out) < r.bodyWireSize() {
		return ErrNotEnoughSpace
	}
	out[0] = byte(r.Status)
	out[1] = byte(r.Flags)
	msgLen := r.ServerMessage.Len()
	out[2] = byte(msgLen >> 8)
	out[3] = byte(msgLen)
	out[4] = byte(len(r.Data) >> 8)
	out[5] = byte(len(r.Data))
	n := 6
	n += copy(out[n:], r.ServerMessage.Bytes())
	copy(out[n:], r.Data)
	return nil
}

func deserializeAuthenticationReply(buf []byte) (AuthenticationReply, error) {
	const minSize = 6
	if len(buf) < minSize {
		return AuthenticationReply{}, ErrUnexpectedEnd
	}
	status, err := parseAuthenStatus(buf[0])
	if err != nil {
		return AuthenticationReply{}, err
	}
	flags, err := parseAuthenReplyFlags(buf[1])
	if err != nil {
		return AuthenticationReply{}, err
	}
	msgLen := int(buf[2])<<8 | int(buf[3])
	dataLen := int(buf[4])<<8 | int(buf[5])

	offset := minSize
	if len(buf)-offset < msgLen+dataLen {
		return AuthenticationReply{}, ErrUnexpectedEnd
	}
	msg, err := NewTextFieldFromBytes(buf[offset : offset+msgLen])
	if err != nil {
		return AuthenticationReply{}, err
	}
	offset += msgLen
	data := append([]byte(nil), buf[offset:offset+dataLen]...)

	return AuthenticationReply{Status: status, Flags: flags, ServerMessage: msg, Data: data}, nil
}

// AuthenticationReplyPacket is a Reply body framed with its header.
type AuthenticationReplyPacket = Packet[AuthenticationReply]

// DeserializeAuthenticationReply parses a framed Reply packet.
func DeserializeAuthenticationReply(buf []byte, key []byte) (AuthenticationReplyPacket, error) {
	return DeserializePacket[AuthenticationReply](buf, key, PacketTypeAuthentication, deserializeAuthenticationReply)
}

// IsFollow reports whether status tells the client to retry the
// session against a different server, per RFC 8907 section 5.2 (the
// "FOLLOW" status is deprecated and this core never chases it
// automatically; see the accompanying design notes).
func (s AuthenStatus) IsFollow() bool { return s == AuthenStatusFollow }
