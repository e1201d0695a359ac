package tacplus

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var defLogger = log.Logger.With().Str("caller", "tacplus").Logger()

// SetDefaultLogger overrides the package-level logger new sessions
// inherit by default.
func SetDefaultLogger(l zerolog.Logger) {
	defLogger = l
}

// DefaultLogger returns the package-level logger.
func DefaultLogger() zerolog.Logger {
	return defLogger
}
