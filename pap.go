package tacplus

import (
	"context"

	"github.com/tacplus/tacplus-go/wire"
)

// AuthenticatePAP runs a one-round-trip PAP login: a Start carrying
// the password as data, and a Reply whose status is mapped to
// Pass/Fail. Restart and Follow are treated as described in
// authenticationResponseFromReply below; Error surfaces as a
// ProtocolError.
func (s *Session) AuthenticatePAP(ctx context.Context, sessCtx SessionContext, password string) (AuthResponse, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return AuthResponse{}, err
	}
	defer release()

	user, err := sessCtx.userInformation()
	if err != nil {
		return AuthResponse{}, err
	}

	authenCtx := sessCtx.authenticationContext(wire.AuthenticationTypePap, wire.AuthenticationServiceLogin)
	start, err := wire.NewAuthenticationStart(wire.AuthenActionLogin, authenCtx, user, []byte(password))
	if err != nil {
		return AuthResponse{}, err
	}

	reply, err := roundTrip[wire.AuthenticationStart, wire.AuthenticationReply](ctx, s, versionFor(wire.AuthenticationTypePap), start, wire.DeserializeAuthenticationReply)
	s.metrics.observeExchange("authentication", outcomeFor(err))
	if err != nil {
		return AuthResponse{}, err
	}

	return authenticationResponseFromReply(reply.Body, "authentication")
}

// authenticationResponseFromReply maps a terminal authentication Reply
// to the simplified pass/fail surface, per RFC 8907 section 5.4.3:
// Restart is treated as Fail, Error and Follow surface as a
// ProtocolError.
func authenticationResponseFromReply(reply wire.AuthenticationReply, family string) (AuthResponse, error) {
	switch reply.Status {
	case wire.AuthenStatusPass:
		return AuthResponse{Status: AuthStatusPass, ServerMessage: reply.ServerMessage.String(), Data: reply.Data}, nil
	case wire.AuthenStatusFail, wire.AuthenStatusRestart:
		return AuthResponse{Status: AuthStatusFail, ServerMessage: reply.ServerMessage.String(), Data: reply.Data}, nil
	default:
		return AuthResponse{}, &ProtocolError{Family: family, ServerMessage: reply.ServerMessage.String(), Data: reply.Data}
	}
}

func outcomeFor(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
