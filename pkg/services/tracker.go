package services

import (
	"sort"
	"strings"
	"sync"
)

// CommitTracker remembers which classifications have been inserted during
// this process. Labels compare case-insensitively after trimming. The set is
// never persisted and resets on restart.
type CommitTracker struct {
	mu        sync.RWMutex
	committed map[string]struct{}
}

// NewCommitTracker returns an empty tracker.
func NewCommitTracker() *CommitTracker {
	return &CommitTracker{committed: make(map[string]struct{})}
}

func trackerKey(classification string) string {
	return strings.ToLower(strings.TrimSpace(classification))
}

// HasCommitted reports whether classification was marked in any casing.
func (t *CommitTracker) HasCommitted(classification string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.committed[trackerKey(classification)]
	return ok
}

// MarkCommitted records classification. Marking twice is harmless.
func (t *CommitTracker) MarkCommitted(classification string) {
	key := trackerKey(classification)
	if key == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.committed[key] = struct{}{}
}

// Committed returns the lower-cased labels in sorted order.
func (t *CommitTracker) Committed() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.committed))
	for k := range t.committed {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
