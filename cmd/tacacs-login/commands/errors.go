package commands

import "errors"

var (
	errUserRequired       = errors.New("--user flag is required")
	errPasswordRequired   = errors.New("--password flag is required")
	errChallengeRequired  = errors.New("--challenge flag is required")
	errMalformedArgument  = errors.New("malformed argument")
)
