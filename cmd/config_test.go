package cmd

import (
	"log/slog"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestParseSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseSlogLevel("debug", slog.LevelInfo))
	assert.Equal(t, slog.LevelInfo, parseSlogLevel("INFO", slog.LevelWarn))
	assert.Equal(t, slog.LevelWarn, parseSlogLevel("warning", slog.LevelInfo))
	assert.Equal(t, slog.LevelError, parseSlogLevel("error", slog.LevelInfo))

	// Numeric slog levels pass through.
	assert.Equal(t, slog.Level(-4), parseSlogLevel("-4", slog.LevelInfo))

	// Unknown or empty values fall back to the default.
	assert.Equal(t, slog.LevelInfo, parseSlogLevel("", slog.LevelInfo))
	assert.Equal(t, slog.LevelWarn, parseSlogLevel("chatty", slog.LevelWarn))
}

func TestConfigDefaults(t *testing.T) {
	assert.Equal(t, defaultRunParallel, viper.GetInt(runParallelConfigKey))
	assert.Equal(t, defaultLogFilename, viper.GetString(logFilenameKey))
	assert.Equal(t, currentConfigVersion, viper.GetInt(configVersionKey))
}
