package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default configuration", func(t *testing.T) {
		cfg, err := Load()

		assert.NoError(t, err)
		assert.NotNil(t, cfg)

		// Check server defaults
		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 5000, cfg.Server.Port)
		assert.Equal(t, "release", cfg.Server.Mode)
		assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)

		// Check model and predictor defaults
		assert.Equal(t, "models/iris.json", cfg.Model.Path)
		assert.Equal(t, 1024, cfg.Predictor.CacheSize)

		// Check log defaults
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, "", cfg.Log.File)
		assert.Equal(t, 100, cfg.Log.MaxSizeMB)

		assert.True(t, cfg.Metrics.Enabled)
	})

	t.Run("reads from environment variables", func(t *testing.T) {
		t.Setenv("PREDICTOR_SERVER_PORT", "9090")
		t.Setenv("PREDICTOR_MODEL_PATH", "/srv/models/custom.json")
		t.Setenv("PREDICTOR_LOG_LEVEL", "debug")
		t.Setenv("PREDICTOR_PREDICTOR_CACHE_SIZE", "0")
		t.Setenv("PREDICTOR_METRICS_ENABLED", "false")

		cfg, err := Load()

		assert.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "/srv/models/custom.json", cfg.Model.Path)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, 0, cfg.Predictor.CacheSize)
		assert.False(t, cfg.Metrics.Enabled)
	})

	t.Run("reads config file from working directory", func(t *testing.T) {
		dir := t.TempDir()
		content := "server:\n  port: 7000\nmodel:\n  path: artifacts/model.json\nlog:\n  format: console\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))

		wd, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(dir))
		defer func() { _ = os.Chdir(wd) }()

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 7000, cfg.Server.Port)
		assert.Equal(t, "artifacts/model.json", cfg.Model.Path)
		assert.Equal(t, "console", cfg.Log.Format)
		assert.Equal(t, "info", cfg.Log.Level)
	})

	t.Run("rejects invalid port", func(t *testing.T) {
		t.Setenv("PREDICTOR_SERVER_PORT", "70000")

		cfg, err := Load()

		assert.Error(t, err)
		assert.Nil(t, cfg)
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: 5000},
			Model:     ModelConfig{Path: "models/iris.json"},
			Predictor: PredictorConfig{CacheSize: 10},
		}
	}

	assert.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Model.Path = ""
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Predictor.CacheSize = -1
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())
}
