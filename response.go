package tacplus

import "github.com/tacplus/tacplus-go/wire"

// AuthStatus is the simplified pass/fail outcome of an authentication
// exchange. RFC 8907's Restart and Follow statuses are mapped to Fail
// and ProtocolError respectively before reaching the caller (see
// ascii.go, pap.go, chap.go).
type AuthStatus int

const (
	AuthStatusPass AuthStatus = iota
	AuthStatusFail
)

// AuthResponse is the outcome of AuthenticatePAP, AuthenticateCHAP and
// AuthenticateASCII.
type AuthResponse struct {
	Status        AuthStatus
	ServerMessage string
	Data          []byte
}

// AuthzStatus is the simplified pass/fail outcome of an authorization
// exchange.
type AuthzStatus int

const (
	AuthzStatusPass AuthzStatus = iota
	AuthzStatusFail
)

// AuthzResponse is the outcome of Session.Authorize, including the
// arguments in effect after PassAdd/PassReplace reconciliation.
type AuthzResponse struct {
	Status        AuthzStatus
	Arguments     []wire.Argument
	ServerMessage string
	Data          []byte
}
