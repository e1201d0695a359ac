package tacplus

import (
	"context"
	"fmt"

	"github.com/tacplus/tacplus-go/wire"
)

// ASCIIPrompter is called once per GetUser/GetPassword/GetData reply
// during an ASCII login, receiving the server's prompt message and
// whether the next input line should be echoed. It returns the bytes
// to send back in the following Continue.
type ASCIIPrompter func(serverMessage string, noEcho bool) ([]byte, error)

// maxASCIITurns bounds the GetUser/GetPassword/GetData loop against a
// misbehaving server that never reaches a terminal status.
const maxASCIITurns = 32

// AuthenticateASCII runs a multi-turn ASCII login: a Start with empty
// data, then a Continue per GetUser/GetPassword/GetData reply, ending
// on Pass/Fail/Error/Restart/Follow.
func (s *Session) AuthenticateASCII(ctx context.Context, sessCtx SessionContext, prompter ASCIIPrompter) (AuthResponse, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return AuthResponse{}, err
	}
	defer release()

	user, err := sessCtx.userInformation()
	if err != nil {
		return AuthResponse{}, err
	}

	authenCtx := sessCtx.authenticationContext(wire.AuthenticationTypeAscii, wire.AuthenticationServiceLogin)
	start, err := wire.NewAuthenticationStart(wire.AuthenActionLogin, authenCtx, user, nil)
	if err != nil {
		return AuthResponse{}, err
	}

	version := versionFor(wire.AuthenticationTypeAscii)
	reply, err := roundTrip[wire.AuthenticationStart, wire.AuthenticationReply](ctx, s, version, start, wire.DeserializeAuthenticationReply)
	if err != nil {
		s.metrics.observeExchange("authentication", outcomeFor(err))
		return AuthResponse{}, err
	}

	for turn := 0; isASCIIPrompt(reply.Body.Status); turn++ {
		if turn >= maxASCIITurns {
			err := fmt.Errorf("tacplus: ascii login exceeded %d turns without a terminal reply", maxASCIITurns)
			s.metrics.observeExchange("authentication", "error")
			return AuthResponse{}, err
		}

		input, err := prompter(reply.Body.ServerMessage.String(), reply.Body.Flags.Has(wire.ReplyFlagNoEcho))
		if err != nil {
			s.metrics.observeExchange("authentication", "error")
			return AuthResponse{}, err
		}

		msg, err := wire.NewTextField(string(input))
		if err != nil {
			return AuthResponse{}, err
		}
		cont, err := wire.NewAuthenticationContinue(msg, nil, 0)
		if err != nil {
			return AuthResponse{}, err
		}

		reply, err = roundTrip[wire.AuthenticationContinue, wire.AuthenticationReply](ctx, s, version, cont, wire.DeserializeAuthenticationReply)
		if err != nil {
			s.metrics.observeExchange("authentication", "error")
			return AuthResponse{}, err
		}
	}

	s.metrics.observeExchange("authentication", "ok")
	return authenticationResponseFromReply(reply.Body, "authentication")
}

func isASCIIPrompt(status wire.AuthenStatus) bool {
	switch status {
	case wire.AuthenStatusGetUser, wire.AuthenStatusGetPass, wire.AuthenStatusGetData:
		return true
	default:
		return false
	}
}
