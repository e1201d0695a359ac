package wire

import "fmt"

// PrivilegeLevel is an integer constrained to the range 0-15.
type PrivilegeLevel uint8

// MaxPrivilegeLevel is the highest representable privilege level.
const MaxPrivilegeLevel = 15

// NewPrivilegeLevel validates level against the 0-15 range required by
// RFC 8907.
func NewPrivilegeLevel(level uint8) (PrivilegeLevel, error) {
	if level > MaxPrivilegeLevel {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPrivilegeLevel, level)
	}
	return PrivilegeLevel(level), nil
}

// AuthenticationMethod records how a user authenticated, carried in
// authorization and accounting requests.
type AuthenticationMethod uint8

const (
	AuthenticationMethodNotSet     AuthenticationMethod = 0x00
	AuthenticationMethodNone       AuthenticationMethod = 0x01
	AuthenticationMethodKerberos5  AuthenticationMethod = 0x02
	AuthenticationMethodLine       AuthenticationMethod = 0x03
	AuthenticationMethodEnable     AuthenticationMethod = 0x04
	AuthenticationMethodLocal      AuthenticationMethod = 0x05
	AuthenticationMethodTacacsPlus AuthenticationMethod = 0x06
	AuthenticationMethodGuest      AuthenticationMethod = 0x08
	AuthenticationMethodRadius     AuthenticationMethod = 0x10
	AuthenticationMethodKerberos4  AuthenticationMethod = 0x11
	AuthenticationMethodRCommand   AuthenticationMethod = 0x20
)

func parseAuthenticationMethod(b byte) (AuthenticationMethod, error) {
	switch AuthenticationMethod(b) {
	case AuthenticationMethodNotSet, AuthenticationMethodNone, AuthenticationMethodKerberos5,
		AuthenticationMethodLine, AuthenticationMethodEnable, AuthenticationMethodLocal,
		AuthenticationMethodTacacsPlus, AuthenticationMethodGuest, AuthenticationMethodRadius,
		AuthenticationMethodKerberos4, AuthenticationMethodRCommand:
		return AuthenticationMethod(b), nil
	default:
		return 0, fmt.Errorf("%w: authentication method 0x%02x", ErrInvalidEnumValue, b)
	}
}

// AuthenticationType identifies the authentication flavor in use.
// RFC 8907 partitions these by required minor version: Ascii requires
// MinorDefault; everything else (besides NotSet) requires MinorV1.
type AuthenticationType uint8

const (
	// AuthenticationTypeNotSet is only valid in authorization and
	// accounting requests.
	AuthenticationTypeNotSet  AuthenticationType = 0x00
	AuthenticationTypeAscii   AuthenticationType = 0x01
	AuthenticationTypePap     AuthenticationType = 0x02
	AuthenticationTypeChap    AuthenticationType = 0x03
	AuthenticationTypeMsChap  AuthenticationType = 0x05
	AuthenticationTypeMsChapV2 AuthenticationType = 0x06
)

func parseAuthenticationType(b byte) (AuthenticationType, error) {
	switch AuthenticationType(b) {
	case AuthenticationTypeNotSet, AuthenticationTypeAscii, AuthenticationTypePap,
		AuthenticationTypeChap, AuthenticationTypeMsChap, AuthenticationTypeMsChapV2:
		return AuthenticationType(b), nil
	default:
		return 0, fmt.Errorf("%w: authentication type 0x%02x", ErrInvalidEnumValue, b)
	}
}

// RequiredMinorVersion returns the minor version a body using this
// authentication type must carry, or false if the type imposes none
// (NotSet).
func (t AuthenticationType) RequiredMinorVersion() (MinorVersion, bool) {
	switch t {
	case AuthenticationTypeNotSet:
		return 0, false
	case AuthenticationTypeAscii:
		return MinorDefault, true
	default:
		return MinorV1, true
	}
}

// AuthenticationService names the service a user is authenticating
// for. Most values only exist for backwards compatibility.
type AuthenticationService uint8

const (
	AuthenticationServiceNone     AuthenticationService = 0x00
	AuthenticationServiceLogin    AuthenticationService = 0x01
	AuthenticationServiceEnable   AuthenticationService = 0x02
	AuthenticationServicePpp      AuthenticationService = 0x03
	AuthenticationServicePt       AuthenticationService = 0x05
	AuthenticationServiceRCommand AuthenticationService = 0x06
	AuthenticationServiceX25      AuthenticationService = 0x07
	AuthenticationServiceNasi     AuthenticationService = 0x08
	AuthenticationServiceFwProxy  AuthenticationService = 0x09
)

func parseAuthenticationService(b byte) (AuthenticationService, error) {
	switch AuthenticationService(b) {
	case AuthenticationServiceNone, AuthenticationServiceLogin, AuthenticationServiceEnable,
		AuthenticationServicePpp, AuthenticationServicePt, AuthenticationServiceRCommand,
		AuthenticationServiceX25, AuthenticationServiceNasi, AuthenticationServiceFwProxy:
		return AuthenticationService(b), nil
	default:
		return 0, fmt.Errorf("%w: authentication service 0x%02x", ErrInvalidEnumValue, b)
	}
}

// AuthenticationContext bundles the three authentication-related
// header fields common to Start/Request bodies.
type AuthenticationContext struct {
	PrivilegeLevel PrivilegeLevel
	Type           AuthenticationType
	Service        AuthenticationService
}

// WireSizeAuthenticationContext is the fixed on-wire size of an
// AuthenticationContext.
const WireSizeAuthenticationContext = 3

func (c AuthenticationContext) serializeHeader(out []byte) {
	out[0] = byte(c.PrivilegeLevel)
	out[1] = byte(c.Type)
	out[2] = byte(c.Service)
}

func deserializeAuthenticationContext(buf []byte) (AuthenticationContext, error) {
	level, err := NewPrivilegeLevel(buf[0])
	if err != nil {
		return AuthenticationContext{}, err
	}
	authenType, err := parseAuthenticationType(buf[1])
	if err != nil {
		return AuthenticationContext{}, err
	}
	service, err := parseAuthenticationService(buf[2])
	if err != nil {
		return AuthenticationContext{}, err
	}
	return AuthenticationContext{PrivilegeLevel: level, Type: authenType, Service: service}, nil
}

// UserInformation is the { user, port, remote_address } triple
// carried by every Start/Request body.
type UserInformation struct {
	User          string
	Port          TextField
	RemoteAddress TextField
}

const userInformationHeaderSize = 3

// NewUserInformation validates that all three fields fit in a byte's
// worth of length (<=255 bytes).
func NewUserInformation(user string, port, remoteAddress TextField) (UserInformation, error) {
	if len(user) > 255 || port.Len() > 255 || remoteAddress.Len() > 255 {
		return UserInformation{}, ErrTooLong
	}
	return UserInformation{User: user, Port: port, RemoteAddress: remoteAddress}, nil
}

// WireSize is the number of bytes this triple occupies on the wire,
// including its 3-byte length header.
func (u UserInformation) WireSize() int {
	return userInformationHeaderSize + len(u.User) + u.Port.Len() + u.RemoteAddress.Len()
}

func (u UserInformation) serializeHeader(out []byte) {
	out[0] = byte(len(u.User))
	out[1] = byte(u.Port.Len())
	out[2] = byte(u.RemoteAddress.Len())
}

func (u UserInformation) serializeBody(out []byte) int {
	n := copy(out, u.User)
	n += copy(out[n:], u.Port.Bytes())
	n += copy(out[n:], u.RemoteAddress.Bytes())
	return n
}
