// Package logging builds the zerolog loggers used by the command line tool.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// RootLogger writes human readable lines to stderr at warn level.
var RootLogger zerolog.Logger = New(os.Stderr, zerolog.WarnLevel, false)

// New returns a console logger writing to w.
func New(w io.Writer, level zerolog.Level, noColor bool) zerolog.Logger {
	return zerolog.New(
		zerolog.NewConsoleWriter(
			func(cw *zerolog.ConsoleWriter) { cw.Out = w },
			func(cw *zerolog.ConsoleWriter) { cw.TimeFormat = "15:04:05.000" },
			func(cw *zerolog.ConsoleWriter) { cw.NoColor = noColor })).Level(level).
		With().Timestamp().Logger()
}

// ParseLevel is zerolog.ParseLevel with the empty string meaning warn.
func ParseLevel(name string) (zerolog.Level, error) {
	if name == "" {
		return zerolog.WarnLevel, nil
	}
	return zerolog.ParseLevel(name)
}
