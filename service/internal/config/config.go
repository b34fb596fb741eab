// Package config loads bot-server settings from the environment, after an
// optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every MLBOT_* setting.
type Config struct {
	ModelDir  string
	Model     string
	Profile   string
	Scoring   string
	Randomize bool

	ListenAddr string
	JWTSecret  string
	BotName    string

	Ledger      string
	DatabaseURL string
	RedisAddr   string

	LogLevel  string
	LogFormat string
}

// Load reads .env files if present (they never override the process
// environment) and then the environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv reads the process environment only.
func FromEnv() (*Config, error) {
	c := &Config{
		ModelDir:    getenv("MLBOT_MODEL_DIR", "models"),
		Model:       getenv("MLBOT_MODEL", "model22"),
		Scoring:     strings.ToLower(getenv("MLBOT_SCORING", "graded")),
		ListenAddr:  getenv("MLBOT_LISTEN_ADDR", ":8085"),
		JWTSecret:   os.Getenv("MLBOT_JWT_SECRET"),
		Ledger:      strings.ToLower(getenv("MLBOT_LEDGER", "memory")),
		DatabaseURL: os.Getenv("MLBOT_DATABASE_URL"),
		RedisAddr:   getenv("MLBOT_REDIS_ADDR", "localhost:6379"),
		LogLevel:    getenv("MLBOT_LOG_LEVEL", "info"),
		LogFormat:   strings.ToLower(getenv("MLBOT_LOG_FORMAT", "text")),
	}
	c.Profile = getenv("MLBOT_PROFILE", c.Model)
	c.BotName = getenv("MLBOT_BOT_NAME", "ml-"+c.Model)

	var err error
	if c.Randomize, err = boolEnv("MLBOT_RANDOMIZE", true); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks enumerated settings and backend prerequisites.
func (c *Config) Validate() error {
	switch c.Scoring {
	case "binary", "graded":
	default:
		return fmt.Errorf("MLBOT_SCORING: unknown mode %q", c.Scoring)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("MLBOT_LOG_FORMAT: unknown format %q", c.LogFormat)
	}
	switch c.Ledger {
	case "memory":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("MLBOT_LEDGER=postgres needs MLBOT_DATABASE_URL")
		}
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("MLBOT_LEDGER=redis needs MLBOT_REDIS_ADDR")
		}
	default:
		return fmt.Errorf("MLBOT_LEDGER: unknown backend %q", c.Ledger)
	}
	if c.Model == "" {
		return fmt.Errorf("MLBOT_MODEL is empty")
	}
	return nil
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func boolEnv(k string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true, nil
	case "0", "false", "no", "n", "off":
		return false, nil
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b, nil
	}
	return false, fmt.Errorf("%s: not a boolean: %q", k, v)
}
