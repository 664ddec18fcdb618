package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "https://api.perplexity.ai", cfg.Perplexity.BaseURL)
	assert.Equal(t, "sonar-pro", cfg.Perplexity.Model)
	assert.Equal(t, 2.0, cfg.Anthropic.RequestsPerSecond)
	assert.Equal(t, 10.0, cfg.Pipeline.YieldBuffer)
	assert.Equal(t, 3, cfg.Pipeline.StageAttempts)
	assert.NotEmpty(t, cfg.Anthropic.VisionModel)
	assert.NotEmpty(t, cfg.Anthropic.TextModel)
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SOURCEFLOW_ANTHROPIC_KEY", "test-key")
	t.Setenv("SOURCEFLOW_PIPELINE_YIELD_BUFFER", "15")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.Anthropic.Key)
	assert.Equal(t, 15.0, cfg.Pipeline.YieldBuffer)
}

func TestInitLoggerRejectsBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "shouting", Format: "json"})
	assert.Error(t, err)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	assert.NoError(t, err)
}
