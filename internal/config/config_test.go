package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 60*time.Second, cfg.SampleInterval.Std())
	assert.Equal(t, 4*time.Hour, cfg.RecentWindow.Std())
	assert.Equal(t, 30*24*time.Hour, cfg.Retention.Std())
	assert.Equal(t, 2000, cfg.APIMaxPoints)
	assert.Len(t, cfg.ProbeTargets, 2)
	require.NoError(t, cfg.validate())
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 9090
data_dir: /var/lib/statuspage
sample_interval: 30s
recent_window: 2h
device_url: http://10.0.0.7/status
coins:
  - id: monero
    name: Monero
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.SampleInterval.Std())
	assert.Equal(t, 2*time.Hour, cfg.RecentWindow.Std())
	assert.Equal(t, "http://10.0.0.7/status", cfg.DeviceURL)
	require.Len(t, cfg.Coins, 1)
	assert.Equal(t, "monero", cfg.Coins[0].ID)

	// Untouched fields keep their defaults.
	assert.Equal(t, 30*24*time.Hour, cfg.Retention.Std())
	assert.Equal(t, "/var/lib/statuspage/history.jsonl", cfg.HistoryLogPath())
	assert.Equal(t, "/var/lib/statuspage/session.json", cfg.SessionStatePath())
}

func TestLoadBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sample_interval: soon\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsRecentWindowBeyondRetention(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("recent_window: 100h\nretention: 1h\n"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recent_window")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadEmptyPathIsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
