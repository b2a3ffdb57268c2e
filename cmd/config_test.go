package cmd

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "viewspy", configBaseName)
	assert.Equal(t, "viewspy.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "exclude", excludeFlagName)
	assert.Equal(t, "parallel", parallelFlagName)
	assert.Equal(t, "fixture", fixtureFlagName)
	assert.Equal(t, "paths.exclude", excludeConfigKey)
	assert.Equal(t, "scan.parallel", parallelConfigKey)
	assert.Equal(t, "check.fixture", fixtureConfigKey)
	assert.Equal(t, "viewspy.fixture.yaml", defaultFixture)
	assert.Equal(t, "VIEWSPY", envPrefix)
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{" INFO ", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"-4", slog.LevelDebug},
		{"loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelInfo))
		})
	}
}

func TestConfigureLogger(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	configureLogger(filepath.Join(t.TempDir(), "viewspy.log"), true)

	require.NotNil(t, globalLogger)
	assert.Same(t, globalLogger, slog.Default())
	assert.True(t, globalLogger.Enabled(t.Context(), slog.LevelDebug))
}

func TestLogWriter(t *testing.T) {
	assert.Same(t, os.Stderr, logWriter(stderrLogPath))

	path := filepath.Join(t.TempDir(), "viewspy.log")

	rotated, ok := logWriter(path).(*lumberjack.Logger)
	require.True(t, ok)
	assert.Equal(t, path, rotated.Filename)
	assert.Equal(t, defaultLogMaxBackups, rotated.MaxBackups)
}

func TestConfigureLogger_StderrAtConfiguredLevel(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	viper.Set(logLevelKey, "warn")
	t.Cleanup(func() { viper.Set(logLevelKey, defaultLogLevel) })

	configureLogger(stderrLogPath, false)

	assert.True(t, globalLogger.Enabled(t.Context(), slog.LevelWarn))
	assert.False(t, globalLogger.Enabled(t.Context(), slog.LevelInfo))
}
