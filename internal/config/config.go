package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	GitHub   GitHubConfig
	LogLevel string
}

type GitHubConfig struct {
	Token        string
	Organization string
	RetryTotal   int
	RetryBackoff time.Duration
}

// LoadFromEnv reads configuration from .env (when present) and the
// environment. Validation is separate so callers can layer flag
// overrides in between.
func LoadFromEnv() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		GitHub: GitHubConfig{
			Token:        os.Getenv("GITHUB_TOKEN"),
			RetryTotal:   getEnvInt("GITHUB_RETRY_TOTAL", 3),
			RetryBackoff: getEnvSeconds("GITHUB_RETRY_BACKOFF", 500*time.Millisecond),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.GitHub.Token == "" {
		return fmt.Errorf("GitHub token is missing (set GITHUB_TOKEN in the environment or .env)")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(v)
	if err != nil || i < 0 {
		return defaultValue
	}
	return i
}

// getEnvSeconds reads a duration expressed in seconds, fractions allowed
// (GITHUB_RETRY_BACKOFF=0.5).
func getEnvSeconds(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	secs, err := strconv.ParseFloat(v, 64)
	if err != nil || secs <= 0 {
		return defaultValue
	}
	return time.Duration(secs * float64(time.Second))
}
