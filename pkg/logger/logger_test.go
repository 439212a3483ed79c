package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survey_wizard/internal/config"
)

func TestInitLoggerWritesJSONFile(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	path := filepath.Join(t.TempDir(), "app.log")
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		Log:    config.LogConfig{File: path, MaxSizeMB: 1},
	}
	InitLogger(cfg)

	Log.Debug("wizard started")
	_ = Log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"wizard started"`)
	assert.Contains(t, string(data), `"level":"DEBUG"`)
}
