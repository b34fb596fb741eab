package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"MLBOT_MODEL_DIR", "MLBOT_MODEL", "MLBOT_PROFILE", "MLBOT_SCORING", "MLBOT_RANDOMIZE",
	"MLBOT_LISTEN_ADDR", "MLBOT_JWT_SECRET", "MLBOT_BOT_NAME", "MLBOT_LEDGER",
	"MLBOT_DATABASE_URL", "MLBOT_REDIS_ADDR", "MLBOT_LOG_LEVEL", "MLBOT_LOG_FORMAT",
}

// clearEnv blanks every MLBOT_* key for the test; t.Setenv restores them.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "models", c.ModelDir)
	assert.Equal(t, "model22", c.Model)
	assert.Equal(t, "model22", c.Profile)
	assert.Equal(t, "graded", c.Scoring)
	assert.True(t, c.Randomize)
	assert.Equal(t, ":8085", c.ListenAddr)
	assert.Equal(t, "ml-model22", c.BotName)
	assert.Equal(t, "memory", c.Ledger)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "text", c.LogFormat)
}

func TestOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MLBOT_MODEL", "model21")
	t.Setenv("MLBOT_SCORING", "Binary")
	t.Setenv("MLBOT_RANDOMIZE", "off")
	t.Setenv("MLBOT_LEDGER", "redis")
	t.Setenv("MLBOT_REDIS_ADDR", "cache:6379")

	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "model21", c.Profile, "profile follows the model name")
	assert.Equal(t, "binary", c.Scoring)
	assert.False(t, c.Randomize)
	assert.Equal(t, "cache:6379", c.RedisAddr)
}

func TestInvalid(t *testing.T) {
	tests := map[string]string{
		"MLBOT_SCORING":    "regression",
		"MLBOT_RANDOMIZE":  "maybe",
		"MLBOT_LEDGER":     "sqlite",
		"MLBOT_LOG_FORMAT": "xml",
	}
	for k, v := range tests {
		t.Run(k, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(k, v)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}

	t.Run("postgres without url", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MLBOT_LEDGER", "postgres")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "MLBOT_DATABASE_URL")
	})
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv does not override set variables, so unset the ones the file provides.
	require.NoError(t, os.Unsetenv("MLBOT_MODEL"))
	require.NoError(t, os.Unsetenv("MLBOT_LOG_LEVEL"))
	t.Cleanup(func() {
		os.Unsetenv("MLBOT_MODEL")
		os.Unsetenv("MLBOT_LOG_LEVEL")
	})
	t.Setenv("MLBOT_SCORING", "binary")

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("MLBOT_MODEL=model7\nMLBOT_LOG_LEVEL=debug\nMLBOT_SCORING=graded\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "model7", c.Model)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "binary", c.Scoring, "process environment wins over the file")

	_, err = Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}
