package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/morning-briefing/internal/briefing"
)

var base = time.Date(2026, time.October, 19, 7, 0, 0, 0, time.UTC)

func run(id string, started time.Time) briefing.RunRecord {
	return briefing.RunRecord{ID: id, StartedAt: started, FinishedAt: started.Add(time.Second), Outcome: briefing.OutcomeDelivered}
}

func TestLatestEmpty(t *testing.T) {
	s := NewMemoryStore(0, 0)

	_, err := s.Latest()
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, s.Recent(5))
}

func TestRecentNewestFirst(t *testing.T) {
	s := NewMemoryStore(0, 0)
	for i := 0; i < 4; i++ {
		s.SaveRun(run(fmt.Sprint(i), base.Add(time.Duration(i)*time.Hour)))
	}

	latest, err := s.Latest()
	require.NoError(t, err)
	assert.Equal(t, "3", latest.ID)

	recent := s.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "3", recent[0].ID)
	assert.Equal(t, "2", recent[1].ID)

	assert.Len(t, s.Recent(0), 4)
	assert.Len(t, s.Recent(100), 4)
}

func TestRetentionByCount(t *testing.T) {
	s := NewMemoryStore(3, 0)
	for i := 0; i < 5; i++ {
		s.SaveRun(run(fmt.Sprint(i), base.Add(time.Duration(i)*time.Minute)))
	}

	recent := s.Recent(0)
	require.Len(t, recent, 3)
	assert.Equal(t, "4", recent[0].ID)
	assert.Equal(t, "2", recent[2].ID)
}

func TestRetentionByAge(t *testing.T) {
	s := NewMemoryStore(0, 48*time.Hour)
	s.now = func() time.Time { return base }

	s.SaveRun(run("old", base.Add(-72*time.Hour)))
	s.SaveRun(run("recent", base.Add(-24*time.Hour)))
	s.SaveRun(run("now", base))

	recent := s.Recent(0)
	require.Len(t, recent, 2)
	assert.Equal(t, "now", recent[0].ID)
	assert.Equal(t, "recent", recent[1].ID)
}

func TestRetentionKeepsNewest(t *testing.T) {
	s := NewMemoryStore(0, time.Hour)
	s.now = func() time.Time { return base }

	s.SaveRun(run("stale", base.Add(-2*time.Hour)))

	latest, err := s.Latest()
	require.NoError(t, err)
	assert.Equal(t, "stale", latest.ID)
}

func TestConcurrentSaves(t *testing.T) {
	s := NewMemoryStore(10, 0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.SaveRun(run(fmt.Sprint(i), base))
			_ = s.Recent(3)
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.Recent(0), 10)
}
