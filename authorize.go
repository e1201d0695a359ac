package tacplus

import (
	"context"

	"github.com/tacplus/tacplus-go/wire"
)

// Authorize runs a one-round-trip authorization exchange and
// reconciles the server's reply arguments against the request's, per
// RFC 8907 section 6.1 and the Open Question decision recorded in
// DESIGN.md: PassAdd keeps every request argument in effect,
// including a mandatory one the reply doesn't echo; PassReplace lets
// the reply's arguments fully supersede same-named request arguments.
func (s *Session) Authorize(ctx context.Context, sessCtx SessionContext, method wire.AuthenticationMethod, args []wire.Argument) (AuthzResponse, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return AuthzResponse{}, err
	}
	defer release()

	user, err := sessCtx.userInformation()
	if err != nil {
		return AuthzResponse{}, err
	}
	argList, err := wire.NewArgumentList(args)
	if err != nil {
		return AuthzResponse{}, err
	}

	authenCtx := sessCtx.authenticationContext(wire.AuthenticationTypeNotSet, wire.AuthenticationServiceLogin)
	request := wire.NewAuthorizationRequest(method, authenCtx, user, argList)

	reply, err := roundTrip[wire.AuthorizationRequest, wire.AuthorizationReply](ctx, s, versionFor(wire.AuthenticationTypeNotSet), request, wire.DeserializeAuthorizationReply)
	s.metrics.observeExchange("authorization", outcomeFor(err))
	if err != nil {
		return AuthzResponse{}, err
	}

	switch reply.Body.Status {
	case wire.AuthorizationStatusPassAdd:
		effective := reconcilePassAdd(args, reply.Body.Arguments.Arguments())
		return AuthzResponse{Status: AuthzStatusPass, Arguments: effective, ServerMessage: reply.Body.ServerMessage.String(), Data: reply.Body.Data}, nil
	case wire.AuthorizationStatusPassRepl:
		effective := reconcilePassReplace(args, reply.Body.Arguments.Arguments())
		return AuthzResponse{Status: AuthzStatusPass, Arguments: effective, ServerMessage: reply.Body.ServerMessage.String(), Data: reply.Body.Data}, nil
	case wire.AuthorizationStatusFail:
		return AuthzResponse{Status: AuthzStatusFail, ServerMessage: reply.Body.ServerMessage.String(), Data: reply.Body.Data}, nil
	default:
		return AuthzResponse{}, &ProtocolError{Family: "authorization", ServerMessage: reply.Body.ServerMessage.String(), Data: reply.Body.Data}
	}
}

// reconcilePassAdd keeps every request argument and appends the
// server's arguments as additions, without removing or overwriting
// anything the request asked for.
func reconcilePassAdd(request, reply []wire.Argument) []wire.Argument {
	effective := make([]wire.Argument, 0, len(request)+len(reply))
	effective = append(effective, request...)
	effective = append(effective, reply...)
	return effective
}

// reconcilePassReplace drops every request argument whose name the
// reply also sets, then appends the reply's arguments, so the reply's
// value for a given name wins and no duplicate name remains.
func reconcilePassReplace(request, reply []wire.Argument) []wire.Argument {
	replaced := make(map[string]bool, len(reply))
	for _, a := range reply {
		replaced[a.Name().String()] = true
	}

	effective := make([]wire.Argument, 0, len(request)+len(reply))
	for _, a := range request {
		if !replaced[a.Name().String()] {
			effective = append(effective, a)
		}
	}
	effective = append(effective, reply...)
	return effective
}
