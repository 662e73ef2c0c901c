package history

import (
	"bufio"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Options configure a Store. Path may be empty, in which case the store runs
// memory-only and nothing is persisted.
type Options struct {
	Path         string
	RecentWindow time.Duration
	Retention    time.Duration
	Log          logrus.FieldLogger
	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

// Store owns the two history containers: a short trailing recent window for
// live charts and the long disk-backed full history. In-memory state is
// authoritative; the on-disk log exists for crash recovery only, so every
// disk failure degrades to memory-only operation instead of propagating.
type Store struct {
	mu     sync.Mutex
	recent window
	full   window

	path         string
	recentWindow time.Duration
	retention    time.Duration
	log          logrus.FieldLogger

	now func() time.Time
}

// Open builds a store and rehydrates both containers from the on-disk log.
// Load problems are never fatal: malformed lines are dropped and counted, and
// an unreadable log just means starting empty.
func Open(opts Options) *Store {
	s := &Store{
		path:         opts.Path,
		recentWindow: opts.RecentWindow,
		retention:    opts.Retention,
		log:          opts.Log,
		now:          opts.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	s.load()
	return s
}

// Record stamps the entry with the current UTC time, appends it to both
// containers and evicts everything that fell out of its window. Disk I/O
// happens after the lock is released: either a single appended line, or a
// full log rewrite when retention eviction shrank the full history.
func (s *Store) Record(e Entry) {
	e.Timestamp = s.now().UTC()

	s.mu.Lock()
	s.recent.pushBack(e)
	s.full.pushBack(e)
	s.recent.evictOlder(e.Timestamp.Add(-s.recentWindow).UnixNano())
	evictedFull := s.full.evictOlder(e.Timestamp.Add(-s.retention).UnixNano())
	var survivors []Entry
	if evictedFull > 0 {
		survivors = s.full.snapshot()
	}
	s.mu.Unlock()

	if s.path == "" {
		return
	}
	if evictedFull > 0 {
		if err := s.rewriteLog(survivors); err != nil {
			s.log.WithError(err).Warn("history: log compaction failed, continuing memory-only")
		}
		return
	}
	if err := s.appendLine(e); err != nil {
		s.log.WithError(err).Warn("history: log append failed, continuing memory-only")
	}
}

// SnapshotRecent returns a copy of the recent window, oldest first.
func (s *Store) SnapshotRecent() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recent.snapshot()
}

// SnapshotFull returns the full history downsampled to at most maxPoints.
// maxPoints <= 0 means no limit.
func (s *Store) SnapshotFull(maxPoints int) []Entry {
	s.mu.Lock()
	entries := s.full.snapshot()
	s.mu.Unlock()
	return Downsample(entries, maxPoints)
}

// RecentLen reports the current size of the recent window.
func (s *Store) RecentLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recent.len()
}

func (s *Store) load() {
	if s.path == "" {
		return
	}
	f, err := os.Open(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.WithError(err).Warn("history: cannot open log, starting empty")
		}
		return
	}
	defer f.Close()

	now := s.now().UTC()
	retentionCutoff := now.Add(-s.retention).UnixNano()
	recentCutoff := now.Add(-s.recentWindow).UnixNano()

	discarded := 0
	var survivors []Entry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		entry, err := unmarshalEntry(line)
		if err != nil {
			discarded++
			continue
		}
		if entry.Timestamp.UnixNano() < retentionCutoff {
			discarded++
			continue
		}
		survivors = append(survivors, entry)
	}
	if err := sc.Err(); err != nil {
		s.log.WithError(err).Warn("history: log read aborted, keeping what was parsed")
	}

	s.mu.Lock()
	for _, entry := range survivors {
		s.full.pushBack(entry)
		if entry.Timestamp.UnixNano() >= recentCutoff {
			s.recent.pushBack(entry)
		}
	}
	s.mu.Unlock()

	if discarded > 0 {
		s.log.WithField("discarded", discarded).Warn("history: dropped unusable or expired log lines")
		if err := s.rewriteLog(survivors); err != nil {
			s.log.WithError(err).Warn("history: log compaction failed after load")
		}
	}
}

func (s *Store) appendLine(e Entry) error {
	b, err := marshalEntry(e)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("append log: %w", err)
	}
	return nil
}

// rewriteLog replaces the log with exactly the given entries. The log format
// has no delete operation, so pruning always rewrites the whole file.
func (s *Store) rewriteLog(entries []Entry) error {
	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open temp log: %w", err)
	}
	w := bufio.NewWriter(f)
	for _, entry := range entries {
		b, err := marshalEntry(entry)
		if err != nil {
			f.Close()
			os.Remove(tmp)
			return err
		}
		w.Write(b)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("flush temp log: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp log: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace log: %w", err)
	}
	return nil
}
