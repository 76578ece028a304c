package castwave

import (
	"os"

	"github.com/rs/zerolog"
)

// newLogger builds the client logger for the given level. An empty level
// disables logging entirely; an unparsable one falls back to info.
func newLogger(level string) zerolog.Logger {
	if level == "" {
		return zerolog.Nop()
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).
		With().
		Timestamp().
		Str("component", "castwave").
		Logger().
		Level(lvl)
}
