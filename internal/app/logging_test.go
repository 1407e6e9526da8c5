package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/eventbridge/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"WARNING", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLogLevel(tt.in), tt.in)
	}
}

func TestNewLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eventbridge.log")

	log, closer, err := NewLogger(config.LogConfig{Level: "debug", Format: "json", Output: path})
	require.NoError(t, err)

	l := WithComponent(log, "test")
	l.Info().Msg("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"test"`)
	assert.Contains(t, string(data), `"message":"hello"`)
}

func TestNewLoggerBadPath(t *testing.T) {
	_, _, err := NewLogger(config.LogConfig{Output: filepath.Join(t.TempDir(), "missing", "x.log")})
	assert.Error(t, err)
}

func TestNewLoggerDiscard(t *testing.T) {
	log, closer, err := NewLogger(config.LogConfig{Level: "warn", Output: "discard"})
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())
	assert.NoError(t, closer.Close())
}
