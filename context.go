package tacplus

import "github.com/tacplus/tacplus-go/wire"

// SessionContext carries the identity fields RFC 8907 attaches to
// every Start/Request body: who is connecting, from where, and at
// what privilege level.
type SessionContext struct {
	User          string
	Port          string
	RemoteAddress string
	Privilege     wire.PrivilegeLevel
}

// NewSessionContext validates port/remote against the printable-ASCII
// and length constraints the wire layer imposes, returning a
// Configuration error early rather than failing deep inside a driver.
func NewSessionContext(user, port, remoteAddress string, privilege uint8) (SessionContext, error) {
	priv, err := wire.NewPrivilegeLevel(privilege)
	if err != nil {
		return SessionContext{}, err
	}
	portField, err := wire.NewTextField(port)
	if err != nil {
		return SessionContext{}, err
	}
	remoteField, err := wire.NewTextField(remoteAddress)
	if err != nil {
		return SessionContext{}, err
	}
	if _, err := wire.NewUserInformation(user, portField, remoteField); err != nil {
		return SessionContext{}, err
	}
	return SessionContext{User: user, Port: port, RemoteAddress: remoteAddress, Privilege: priv}, nil
}

func (c SessionContext) userInformation() (wire.UserInformation, error) {
	port, err := wire.NewTextField(c.Port)
	if err != nil {
		return wire.UserInformation{}, err
	}
	remote, err := wire.NewTextField(c.RemoteAddress)
	if err != nil {
		return wire.UserInformation{}, err
	}
	return wire.NewUserInformation(c.User, port, remote)
}

func (c SessionContext) authenticationContext(authenType wire.AuthenticationType, service wire.AuthenticationService) wire.AuthenticationContext {
	return wire.AuthenticationContext{PrivilegeLevel: c.Privilege, Type: authenType, Service: service}
}
