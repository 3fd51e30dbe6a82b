package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns the process logger for a binary. env "dev" or
// "development" switches to the console writer; "test" discards output.
// level is a zerolog level name and falls back to info.
func NewLogger(env, service, level string) zerolog.Logger {
	var out io.Writer = os.Stdout
	switch env {
	case "dev", "development":
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	case "test":
		out = io.Discard
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Str("service", service).Logger()
}
