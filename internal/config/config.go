// Package config loads application settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds runtime settings for the application
type Config struct {
	// APIURL is the base URL of the backend API, without trailing slash
	APIURL string

	// DataDir overrides the default data directory when set
	DataDir string

	// Timeout is the per-request timeout in seconds
	Timeout int

	// Debug enables request logging to a file in the data directory
	Debug bool
}

// Load reads configuration from .env (if present) and the environment
func Load() *Config {
	// Missing .env is fine; the environment alone is enough
	_ = godotenv.Load()

	return &Config{
		APIURL:  strings.TrimRight(getEnv("TASKDECK_API_URL", "http://localhost:8000"), "/"),
		DataDir: os.Getenv("TASKDECK_DATA_DIR"),
		Timeout: getEnvInt("TASKDECK_TIMEOUT", 10),
		Debug:   getEnvBool("TASKDECK_DEBUG", false),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
