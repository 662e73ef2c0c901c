package history

// window is an insertion-ordered sequence of entries with cheap front
// eviction: removed entries only advance a head index, and the backing slice
// is compacted once the dead prefix outgrows the live part.
type window struct {
	entries []Entry
	head    int
}

func (w *window) pushBack(e Entry) {
	w.entries = append(w.entries, e)
}

func (w *window) len() int {
	return len(w.entries) - w.head
}

// evictOlder drops every leading entry with a timestamp before cutoff and
// returns how many were dropped. Entries are insertion-ordered by time, so
// the scan stops at the first survivor.
func (w *window) evictOlder(cutoff int64) int {
	evicted := 0
	for w.head < len(w.entries) && w.entries[w.head].Timestamp.UnixNano() < cutoff {
		w.head++
		evicted++
	}
	if w.head > len(w.entries)/2 && w.head > 64 {
		w.entries = append([]Entry(nil), w.entries[w.head:]...)
		w.head = 0
	}
	return evicted
}

// snapshot returns a copy; callers never see the live slice.
func (w *window) snapshot() []Entry {
	live := w.entries[w.head:]
	out := make([]Entry, len(live))
	copy(out, live)
	return out
}
