package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New creates the process logger. Development gets the console writer,
// everything else structured JSON.
func New(environment string) *zerolog.Logger {
	var logger zerolog.Logger

	if environment == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stderr).
			With().
			Timestamp().
			Logger()
	}

	return &logger
}
