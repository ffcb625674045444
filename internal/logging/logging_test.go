package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-insightidr/internal/logging"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := logging.New("debug", logging.FormatJSON, &buf)

	l.Debug().Str("k", "v").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "v", entry["k"])
	assert.Contains(t, entry, "time")
}

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := logging.New(tt.level, logging.FormatJSON, &bytes.Buffer{})
			assert.Equal(t, tt.expected, l.GetLevel())
		})
	}
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := logging.New("warn", logging.FormatJSON, &buf)

	l.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	l := logging.New("info", logging.FormatConsole, &buf)

	l.Info().Msg("readable")

	out := buf.String()
	assert.Contains(t, out, "readable")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	l := logging.Component(logging.New("info", "", &buf), "server")

	l.Info().Msg("x")
	assert.Contains(t, buf.String(), `"component":"server"`)
}
