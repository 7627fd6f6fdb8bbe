package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	ConfluenceBaseURL    string
	ConfluenceUsername   string
	ConfluenceAPIToken   string
	ConfluenceAutoIndex  bool
	ConfluenceRootPageID string
	ConfluenceMaxDepth   int
	ConfluencePacing     time.Duration
	ConfluencePageLimit  int
	ConfluenceTimeout    time.Duration

	LLMBaseURL   string
	LLMModelName string
	LLMAPIKey    string
	LLMTimeout   time.Duration

	DBPath    string
	APIPort   string
	LogLevel  string
	LogFormat string
}

// ConfluenceEnabled reports whether the Confluence base URL and credentials are all set.
func (c *Config) ConfluenceEnabled() bool {
	return c.ConfluenceBaseURL != "" && c.ConfluenceUsername != "" && c.ConfluenceAPIToken != ""
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the numeric ones.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	// Walk up to the project root looking for a .env file
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		ConfluenceBaseURL:    strings.TrimRight(getEnv("CONFLUENCE_BASE_URL", ""), "/"),
		ConfluenceUsername:   getEnv("CONFLUENCE_USERNAME", ""),
		ConfluenceAPIToken:   getEnv("CONFLUENCE_API_TOKEN", ""),
		ConfluenceRootPageID: getEnv("CONFLUENCE_ROOT_PAGE_ID", ""),
		LLMBaseURL:           getEnv("LLM_BASE_URL", "http://localhost:8080"),
		LLMModelName:         getEnv("LLM_MODEL", "Llama-3.1-8B-Instruct"),
		LLMAPIKey:            getEnv("LLM_API_KEY", "dummy-key"),
		DBPath:               getEnv("DB_PATH", "./data/assistant.db"),
		APIPort:              getEnv("API_PORT", "9000"),
		LogLevel:             strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:            strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	if cfg.ConfluenceAutoIndex, err = getBool("CONFLUENCE_AUTO_INDEX", false); err != nil {
		return nil, err
	}
	if cfg.ConfluenceMaxDepth, err = getPositiveInt("CONFLUENCE_MAX_DEPTH", 3); err != nil {
		return nil, err
	}
	if cfg.ConfluencePageLimit, err = getPositiveInt("CONFLUENCE_PAGE_LIMIT", 50); err != nil {
		return nil, err
	}
	pacingMS, err := strconv.Atoi(getEnv("CONFLUENCE_PACING_MS", "100"))
	if err != nil || pacingMS < 0 {
		return nil, fmt.Errorf("CONFLUENCE_PACING_MS must be a non-negative integer")
	}
	cfg.ConfluencePacing = time.Duration(pacingMS) * time.Millisecond
	if cfg.ConfluenceTimeout, err = getDuration("CONFLUENCE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.LLMTimeout, err = getDuration("LLM_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	// Create the data directory for the history database if it doesn't exist
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) (bool, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return v, nil
}

func getPositiveInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return v, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration such as 30s: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return v, nil
}
