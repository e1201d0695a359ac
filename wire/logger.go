package wire

import "github.com/rs/zerolog"

var defLogger zerolog.Logger = zerolog.Nop()

// SetDefaultLogger sets the logger used by the wire package when no
// per-call logger is supplied. Must be called before any codec usage
// if non-default logging is desired.
func SetDefaultLogger(l zerolog.Logger) {
	defLogger = l
}

// DefaultLogger returns the package-wide logger, zerolog.Nop() unless
// SetDefaultLogger has been called.
func DefaultLogger() zerolog.Logger {
	return defLogger
}
