package app

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pm-assistant/internal/config"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		format    string
		wantErr   bool
		wantDebug bool
		wantJSON  bool
	}{
		{name: "text info", level: "info", format: "text"},
		{name: "json debug", level: "debug", format: "json", wantDebug: true, wantJSON: true},
		{name: "upper case level", level: "WARN", format: "text"},
		{name: "invalid level", level: "loud", format: "text", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := NewLogger(&config.Config{LogLevel: tt.level, LogFormat: tt.format}, &buf)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			logger.Debug("debug line")
			logger.Error("error line", "key", "value")

			out := buf.String()
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug line")))
			assert.Contains(t, out, "error line")
			if tt.wantJSON {
				lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
				var entry map[string]any
				require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
				assert.Equal(t, "value", entry["key"])
			}
		})
	}
}

func TestNewKnowledgeBase_Disabled(t *testing.T) {
	base := NewKnowledgeBase(&config.Config{ConfluenceMaxDepth: 2}, nil)

	// Disabled: Init must not touch the network.
	base.Initializer.Init(context.Background())

	status := base.Initializer.Status()
	assert.False(t, status.Enabled)
	assert.False(t, status.Connected)
	assert.Equal(t, 0, status.Pages)
}

func TestNewKnowledgeBase_Enabled(t *testing.T) {
	cfg := &config.Config{
		ConfluenceBaseURL:    "https://acme.atlassian.net/wiki",
		ConfluenceUsername:   "bot@acme.com",
		ConfluenceAPIToken:   "secret",
		ConfluenceRootPageID: "100",
		ConfluenceMaxDepth:   3,
	}
	base := NewKnowledgeBase(cfg, NewLLMClient(cfg))

	assert.True(t, base.Initializer.Status().Enabled)
	assert.Equal(t, "100", base.Indexer.RootPageID())
}
