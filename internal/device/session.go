package device

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// sessionState is the persisted file format. TotalCompletedSeconds only ever
// grows: it absorbs the last pre-reboot uptime whenever the device's counter
// is seen going backwards.
type sessionState struct {
	TotalCompletedSeconds float64 `json:"total_completed_seconds"`
	LastUptime            float64 `json:"last_uptime"`
}

// Totals is the result of one uptime observation.
type Totals struct {
	CurrentSeconds float64 `json:"current_seconds"`
	TotalSeconds   float64 `json:"total_seconds"`
}

// SessionTracker folds a reboot-resetting uptime counter into a cumulative
// total that survives both device reboots and collector restarts. State
// lives in a small JSON file; a missing or corrupt file is a fresh start,
// never an error.
type SessionTracker struct {
	mu     sync.Mutex
	path   string
	state  sessionState
	loaded bool
	last   *Totals
	log    logrus.FieldLogger
}

func NewSessionTracker(path string, log logrus.FieldLogger) *SessionTracker {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SessionTracker{path: path, log: log}
}

// Update records one uptime observation and returns the current session
// length plus the grand total across all sessions. Persisting the state is
// best-effort.
func (t *SessionTracker) Update(uptimeSeconds float64) Totals {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ensureLoaded()

	if uptimeSeconds < t.state.LastUptime {
		// The counter went backwards: the device rebooted. Bank the final
		// pre-reboot reading.
		t.state.TotalCompletedSeconds += t.state.LastUptime
	}
	t.state.LastUptime = uptimeSeconds

	if err := t.persist(); err != nil {
		t.log.WithError(err).Warn("session: state write failed, totals held in memory")
	}

	totals := Totals{
		CurrentSeconds: uptimeSeconds,
		TotalSeconds:   t.state.TotalCompletedSeconds + uptimeSeconds,
	}
	t.last = &totals
	return totals
}

// Totals returns the most recent observation, if any was made this run.
func (t *SessionTracker) Totals() (Totals, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.last == nil {
		return Totals{}, false
	}
	return *t.last, true
}

func (t *SessionTracker) ensureLoaded() {
	if t.loaded {
		return
	}
	t.loaded = true
	if t.path == "" {
		return
	}
	b, err := os.ReadFile(t.path)
	if err != nil {
		if !os.IsNotExist(err) {
			t.log.WithError(err).Warn("session: state file unreadable, starting fresh")
		}
		return
	}
	var state sessionState
	if err := json.Unmarshal(b, &state); err != nil {
		t.log.WithError(err).Warn("session: state file corrupt, starting fresh")
		return
	}
	t.state = state
}

func (t *SessionTracker) persist() error {
	if t.path == "" {
		return nil
	}
	b, err := json.Marshal(t.state)
	if err != nil {
		return err
	}
	return os.WriteFile(t.path, b, 0o644)
}
