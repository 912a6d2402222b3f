package logging

import (
	"testing"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]logger.LogLevel{
		"debug":   logger.DEBUG,
		"INFO":    logger.INFO,
		"warn":    logger.WARNING,
		"warning": logger.WARNING,
		" error ": logger.ERROR,
	}
	for input, expected := range tests {
		lvl, err := ParseLogLevel(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, lvl, input)
	}

	_, err := ParseLogLevel("verbose")
	assert.Error(t, err)
}

func TestInit(t *testing.T) {
	require.NoError(t, Init("debug"))
	assert.Error(t, Init("nope"))
	require.NoError(t, Init("warn"))
}

func TestLoggerLevels(t *testing.T) {
	l := CreateLogger("test").(*hKVLogger)
	assert.Equal(t, logger.WARNING, l.level)

	l.SetLevel(logger.ERROR)
	assert.Equal(t, logger.ERROR, l.level)

	assert.Panics(t, func() { l.Panicf("critical %d", 1) })
}
