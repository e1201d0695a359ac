package tacplus

import (
	"context"
	"crypto/md5"

	"github.com/tacplus/tacplus-go/wire"
)

// AuthenticateCHAP runs a one-round-trip CHAP login. data is built as
// ppp_id || challenge || MD5(ppp_id || secret || challenge), per RFC
// 8907 section 5.4.2.
func (s *Session) AuthenticateCHAP(ctx context.Context, sessCtx SessionContext, pppID byte, challenge []byte, secret string) (AuthResponse, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return AuthResponse{}, err
	}
	defer release()

	user, err := sessCtx.userInformation()
	if err != nil {
		return AuthResponse{}, err
	}

	response := chapResponse(pppID, challenge, secret)
	data := make([]byte, 0, 1+len(challenge)+len(response))
	data = append(data, pppID)
	data = append(data, challenge...)
	data = append(data, response...)

	authenCtx := sessCtx.authenticationContext(wire.AuthenticationTypeChap, wire.AuthenticationServiceLogin)
	start, err := wire.NewAuthenticationStart(wire.AuthenActionLogin, authenCtx, user, data)
	if err != nil {
		return AuthResponse{}, err
	}

	reply, err := roundTrip[wire.AuthenticationStart, wire.AuthenticationReply](ctx, s, versionFor(wire.AuthenticationTypeChap), start, wire.DeserializeAuthenticationReply)
	s.metrics.observeExchange("authentication", outcomeFor(err))
	if err != nil {
		return AuthResponse{}, err
	}

	return authenticationResponseFromReply(reply.Body, "authentication")
}

func chapResponse(pppID byte, challenge []byte, secret string) []byte {
	h := md5.New()
	h.Write([]byte{pppID})
	h.Write([]byte(secret))
	h.Write(challenge)
	return h.Sum(nil)
}
