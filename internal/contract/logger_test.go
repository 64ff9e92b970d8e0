package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLoggerJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "paysheet.log")
	logger, err := NewLogger(LoggerConfig{Level: "info", Format: JSONLogFormat, OutputPath: path})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("ingested", zap.Int("records", 3))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"ingested"`)
	assert.Contains(t, string(data), `"records":3`)
	assert.Contains(t, string(data), `"timestamp"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNewLoggerInvalidLevelFallsBackToInfo(t *testing.T) {
	logger, err := NewLogger(LoggerConfig{Level: "loud", OutputPath: "stderr"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestLogWarnRoutesThroughLogger(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	prev := Logger()
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(prev) })

	LogWarn("cache write failed", assert.AnError)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "cache write failed", entries[0].Message)
	assert.Equal(t, assert.AnError.Error(), entries[0].ContextMap()["error"])
}

func TestSetLoggerNil(t *testing.T) {
	prev := Logger()
	t.Cleanup(func() { SetLogger(prev) })

	SetLogger(nil)
	assert.NotNil(t, Logger())
	assert.False(t, Logger().Core().Enabled(zapcore.ErrorLevel))
}
