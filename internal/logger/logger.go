// Package logger sets up the global zerolog logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const milliTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Init replaces the global logger, writing to stderr so terminal games
// keep stdout to themselves. Pretty selects the console writer used
// in the dev stage; otherwise events are written as JSON lines.
func Init(level string, pretty bool) {
	log.Logger = New(os.Stderr, level, pretty)

	log.Info().
		Str("level", zerolog.GlobalLevel().String()).
		Bool("pretty", pretty).
		Msg("logger initialized")
}

// New builds a logger writing to w. An unknown level falls back to info.
func New(w io.Writer, level string, pretty bool) zerolog.Logger {
	zerolog.TimeFieldFormat = milliTimeFormat
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: milliTimeFormat}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}
