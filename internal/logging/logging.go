// Package logging builds the process logger. Output always goes to the
// supplied writer, which is stderr in the server since stdout carries the
// protocol stream.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Formats accepted by New.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Field names shared across packages.
const (
	FieldComponent     = "component"
	FieldTool          = "tool"
	FieldCorrelationID = "correlation_id"
	FieldDuration      = "duration"
)

// New returns a zerolog logger writing to w. An unknown level falls back to
// info; "console" selects the human-readable writer, anything else JSON.
func New(level, format string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	out := w
	if strings.EqualFold(format, FormatConsole) {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// Component returns l tagged with a component name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str(FieldComponent, name).Logger()
}
