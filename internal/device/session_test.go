package device

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTotalsAcrossReboot(t *testing.T) {
	tracker := NewSessionTracker(filepath.Join(t.TempDir(), "session.json"), nil)

	// One reboot between the 200 and 50 observations.
	tracker.Update(100)
	tracker.Update(200)
	tracker.Update(50)
	got := tracker.Update(150)

	assert.Equal(t, 150.0, got.CurrentSeconds)
	assert.Equal(t, 350.0, got.TotalSeconds)

	last, ok := tracker.Totals()
	require.True(t, ok)
	assert.Equal(t, got, last)
}

func TestSessionSurvivesTrackerRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	first := NewSessionTracker(path, nil)
	first.Update(100)
	first.Update(200)

	// Collector restart: new tracker, same file. Device kept running.
	second := NewSessionTracker(path, nil)
	got := second.Update(260)
	assert.Equal(t, 260.0, got.CurrentSeconds)
	assert.Equal(t, 260.0, got.TotalSeconds)

	// Device rebooted while the collector was down.
	third := NewSessionTracker(path, nil)
	got = third.Update(10)
	assert.Equal(t, 10.0, got.CurrentSeconds)
	assert.Equal(t, 270.0, got.TotalSeconds)
}

func TestSessionCorruptStateIsFreshStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{{{not json"), 0o644))

	tracker := NewSessionTracker(path, nil)
	got := tracker.Update(42)
	assert.Equal(t, 42.0, got.CurrentSeconds)
	assert.Equal(t, 42.0, got.TotalSeconds)
}

func TestSessionNoObservationYet(t *testing.T) {
	tracker := NewSessionTracker("", nil)
	_, ok := tracker.Totals()
	assert.False(t, ok)
}

func TestSessionPersistFailureIsNonFatal(t *testing.T) {
	tracker := NewSessionTracker(filepath.Join(t.TempDir(), "missing-dir", "session.json"), nil)
	got := tracker.Update(5)
	assert.Equal(t, 5.0, got.TotalSeconds)
	got = tracker.Update(9)
	assert.Equal(t, 9.0, got.TotalSeconds)
}
