package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/morning-briefing/internal/briefing"
)

var (
	// ErrNotFound is returned when no run has been recorded yet.
	ErrNotFound = errors.New("no briefing runs recorded")
)

// MemoryStore is a concurrency-safe in-memory log of briefing runs.
type MemoryStore struct {
	mu sync.RWMutex

	// oldest first
	runs []briefing.RunRecord

	// retention configuration
	maxHistory int           // max number of runs kept
	maxAge     time.Duration // optional max age of a run, by StartedAt

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// SaveRun appends a run record and enforces retention.
func (s *MemoryStore) SaveRun(record briefing.RunRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = append(s.runs, record)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.runs) > s.maxHistory {
		over := len(s.runs) - s.maxHistory
		s.runs = append([]briefing.RunRecord(nil), s.runs[over:]...)
	}

	// Enforce retention by age. The newest run is always kept.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(s.runs)-1; i++ {
			if !s.runs[i].StartedAt.Before(cutoff) {
				break
			}
		}
		if i > 0 {
			s.runs = append([]briefing.RunRecord(nil), s.runs[i:]...)
		}
	}
}

// Latest returns the most recent run.
func (s *MemoryStore) Latest() (briefing.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.runs) == 0 {
		return briefing.RunRecord{}, ErrNotFound
	}
	return s.runs[len(s.runs)-1], nil
}

// Recent returns up to n runs, newest first. n <= 0 returns all of them.
func (s *MemoryStore) Recent(n int) []briefing.RunRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 || n > len(s.runs) {
		n = len(s.runs)
	}
	result := make([]briefing.RunRecord, 0, n)
	for i := len(s.runs) - 1; i >= 0 && len(result) < n; i-- {
		result = append(result, s.runs[i])
	}
	return result
}
