package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dmehra2102/prod-golang-projects/medstock/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

var testApp = config.AppConfig{Name: "medstock", Environment: "test", Version: "1.4.0"}

func TestNew(t *testing.T) {
	log, err := New(config.LogConfig{Level: "warn", Format: "json", OutputPath: "stderr"}, testApp)
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))

	_, err = New(config.LogConfig{Level: "loud", Format: "console", OutputPath: "stderr"}, testApp)
	assert.Error(t, err)
}

func TestNew_StampsServiceFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "medstock.log")
	log, err := New(config.LogConfig{Level: "info", Format: "json", OutputPath: path}, testApp)
	require.NoError(t, err)

	log.Info("seed data loaded")
	_ = log.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	line := string(raw)
	assert.Contains(t, line, `"service":"medstock"`)
	assert.Contains(t, line, `"env":"test"`)
	assert.Contains(t, line, `"version":"1.4.0"`)
	assert.Contains(t, line, `"msg":"seed data loaded"`)
}

func TestNew_ToStderrOverridesOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "medstock.log")
	log, err := New(config.LogConfig{Level: "info", Format: "json", OutputPath: path}, testApp, ToStderr())
	require.NoError(t, err)

	log.Info("report written")
	_ = log.Sync()

	assert.NoFileExists(t, path)
}

func TestServiceFields_SkipsEmpty(t *testing.T) {
	assert.Equal(t, map[string]any{"service": "medstock"}, serviceFields(config.AppConfig{Name: "medstock"}))
}
