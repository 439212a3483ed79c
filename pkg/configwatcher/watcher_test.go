package configwatcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survey_wizard/internal/config"
)

const baseConfig = `
api:
  catalog_base_url: http://catalog.local
  submission_base_url: http://submit.local
survey:
  participation_fail_open: %s
`

func writeConfig(t *testing.T, dir, failOpen string) {
	t.Helper()
	body := fmt.Sprintf(baseConfig, failOpen)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
}

func TestWatchConfigReloads(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "true")

	var mu sync.Mutex
	var got []*config.Config

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- WatchConfig(ctx, dir, func(cfg *config.Config) {
			mu.Lock()
			got = append(got, cfg)
			mu.Unlock()
		})
	}()

	// give the watcher time to register
	time.Sleep(100 * time.Millisecond)
	writeConfig(t, dir, "false")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0
	}, 5*time.Second, 50*time.Millisecond)

	mu.Lock()
	assert.False(t, got[len(got)-1].Survey.ParticipationFailOpen)
	mu.Unlock()

	cancel()
	assert.NoError(t, <-done)
}

func TestWatchConfigKeepsOldConfigOnInvalidEdit(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "true")

	var mu sync.Mutex
	calls := 0

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go WatchConfig(ctx, dir, func(cfg *config.Config) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api: {}\n"), 0o644))

	time.Sleep(debounce + 500*time.Millisecond)
	mu.Lock()
	assert.Zero(t, calls)
	mu.Unlock()
}

func TestWatchConfigMissingDir(t *testing.T) {
	err := WatchConfig(context.Background(), filepath.Join(t.TempDir(), "nope"), func(*config.Config) {})
	assert.Error(t, err)
}
