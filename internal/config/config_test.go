package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var envVars = []string{
	"CONFLUENCE_BASE_URL", "CONFLUENCE_USERNAME", "CONFLUENCE_API_TOKEN",
	"CONFLUENCE_AUTO_INDEX", "CONFLUENCE_ROOT_PAGE_ID", "CONFLUENCE_MAX_DEPTH",
	"CONFLUENCE_PACING_MS", "CONFLUENCE_PAGE_LIMIT", "CONFLUENCE_TIMEOUT",
	"LLM_BASE_URL", "LLM_API_KEY", "LLM_MODEL", "LLM_TIMEOUT",
	"DB_PATH", "API_PORT", "LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv blanks every variable Load reads and runs the test from a directory without a .env file.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		wantErr     bool
		checkConfig func(*testing.T, *Config)
	}{
		{
			name: "defaults",
			checkConfig: func(t *testing.T, cfg *Config) {
				if cfg.ConfluenceEnabled() {
					t.Error("ConfluenceEnabled() = true without credentials")
				}
				if cfg.ConfluenceAutoIndex {
					t.Error("ConfluenceAutoIndex should default to false")
				}
				if cfg.ConfluenceMaxDepth != 3 {
					t.Errorf("ConfluenceMaxDepth = %d, want 3", cfg.ConfluenceMaxDepth)
				}
				if cfg.ConfluencePacing != 100*time.Millisecond {
					t.Errorf("ConfluencePacing = %v, want 100ms", cfg.ConfluencePacing)
				}
				if cfg.ConfluencePageLimit != 50 {
					t.Errorf("ConfluencePageLimit = %d, want 50", cfg.ConfluencePageLimit)
				}
				if cfg.ConfluenceTimeout != 30*time.Second {
					t.Errorf("ConfluenceTimeout = %v, want 30s", cfg.ConfluenceTimeout)
				}
				if cfg.LLMBaseURL != "http://localhost:8080" || cfg.LLMModelName != "Llama-3.1-8B-Instruct" || cfg.LLMAPIKey != "dummy-key" {
					t.Errorf("unexpected LLM defaults: %+v", cfg)
				}
				if cfg.LLMTimeout != 60*time.Second {
					t.Errorf("LLMTimeout = %v, want 60s", cfg.LLMTimeout)
				}
				if cfg.DBPath != "./data/assistant.db" || cfg.APIPort != "9000" {
					t.Errorf("unexpected DBPath/APIPort: %q %q", cfg.DBPath, cfg.APIPort)
				}
				if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
					t.Errorf("unexpected log defaults: %q %q", cfg.LogLevel, cfg.LogFormat)
				}
			},
		},
		{
			name: "confluence configured",
			env: map[string]string{
				"CONFLUENCE_BASE_URL":     "https://acme.atlassian.net/wiki/",
				"CONFLUENCE_USERNAME":     "bot@acme.com",
				"CONFLUENCE_API_TOKEN":    "secret",
				"CONFLUENCE_AUTO_INDEX":   "true",
				"CONFLUENCE_ROOT_PAGE_ID": "123456",
				"CONFLUENCE_MAX_DEPTH":    "5",
				"CONFLUENCE_PACING_MS":    "0",
				"CONFLUENCE_TIMEOUT":      "5s",
				"LOG_FORMAT":              "JSON",
			},
			checkConfig: func(t *testing.T, cfg *Config) {
				if !cfg.ConfluenceEnabled() {
					t.Error("ConfluenceEnabled() = false with base URL and credentials")
				}
				if cfg.ConfluenceBaseURL != "https://acme.atlassian.net/wiki" {
					t.Errorf("ConfluenceBaseURL = %q", cfg.ConfluenceBaseURL)
				}
				if !cfg.ConfluenceAutoIndex || cfg.ConfluenceRootPageID != "123456" {
					t.Errorf("auto index = %v, root = %q", cfg.ConfluenceAutoIndex, cfg.ConfluenceRootPageID)
				}
				if cfg.ConfluenceMaxDepth != 5 || cfg.ConfluencePacing != 0 || cfg.ConfluenceTimeout != 5*time.Second {
					t.Errorf("unexpected traversal settings: %d %v %v", cfg.ConfluenceMaxDepth, cfg.ConfluencePacing, cfg.ConfluenceTimeout)
				}
				if cfg.LogFormat != "json" {
					t.Errorf("LogFormat = %q, want json", cfg.LogFormat)
				}
			},
		},
		{
			name: "missing token disables confluence",
			env: map[string]string{
				"CONFLUENCE_BASE_URL": "https://acme.atlassian.net/wiki",
				"CONFLUENCE_USERNAME": "bot@acme.com",
			},
			checkConfig: func(t *testing.T, cfg *Config) {
				if cfg.ConfluenceEnabled() {
					t.Error("ConfluenceEnabled() = true without API token")
				}
			},
		},
		{
			name:    "invalid auto index",
			env:     map[string]string{"CONFLUENCE_AUTO_INDEX": "sometimes"},
			wantErr: true,
		},
		{
			name:    "invalid max depth",
			env:     map[string]string{"CONFLUENCE_MAX_DEPTH": "deep"},
			wantErr: true,
		},
		{
			name:    "zero page limit",
			env:     map[string]string{"CONFLUENCE_PAGE_LIMIT": "0"},
			wantErr: true,
		},
		{
			name:    "negative pacing",
			env:     map[string]string{"CONFLUENCE_PACING_MS": "-5"},
			wantErr: true,
		},
		{
			name:    "invalid timeout",
			env:     map[string]string{"LLM_TIMEOUT": "soon"},
			wantErr: true,
		},
		{
			name:    "invalid log format",
			env:     map[string]string{"LOG_FORMAT": "xml"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			cfg, err := Load()

			if tt.wantErr {
				if err == nil {
					t.Errorf("Load() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if tt.checkConfig != nil {
				tt.checkConfig(t, cfg)
			}
		})
	}
}

func TestLoad_CreatesDataDirectory(t *testing.T) {
	clearEnv(t)

	dbPath := filepath.Join(t.TempDir(), "test", "db.db")
	t.Setenv("DB_PATH", dbPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DBPath != dbPath {
		t.Errorf("Load() DBPath = %v, want %v", cfg.DBPath, dbPath)
	}
	if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
		t.Errorf("Load() should create data directory: %v", err)
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		defaultValue string
		want         string
	}{
		{name: "env var set", value: "set-value", defaultValue: "default", want: "set-value"},
		{name: "empty env var uses default", value: "", defaultValue: "default", want: "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_ENV_VAR", tt.value)
			if got := getEnv("TEST_ENV_VAR", tt.defaultValue); got != tt.want {
				t.Errorf("getEnv() = %q, want %q", got, tt.want)
			}
		})
	}
}
