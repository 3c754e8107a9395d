package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// init sets up the global zerolog parameters used by every Logger.
func init() {
	// Marshal pkg/errors stack traces and use UNIX timestamps for structured output
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}
