package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, zerolog.DebugLevel, ParseLevel(LOG_LEVEL_DEBUG))
	require.Equal(t, zerolog.ErrorLevel, ParseLevel(LOG_LEVEL_ERROR))
	require.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}

func TestNewLoggerReadsLevelFromEnv(t *testing.T) {
	t.Setenv(levelEnv, LOG_LEVEL_WARN)
	l := NewLogger("test")
	require.Equal(t, zerolog.WarnLevel, l.GetLevel())
}
