package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/morning-briefing/internal/briefing"
)

type countingRunner struct {
	mu       sync.Mutex
	calls    int
	deadline bool
	err      error
}

func (r *countingRunner) Run(ctx context.Context) (briefing.RunRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	_, r.deadline = ctx.Deadline()
	return briefing.RunRecord{ID: "run", Outcome: briefing.OutcomeDelivered}, r.err
}

func mustNew(t *testing.T, spec string, loc *time.Location, timeout time.Duration, r Runner) *Scheduler {
	t.Helper()
	s, err := New(spec, loc, timeout, r)
	require.NoError(t, err)
	return s
}

func TestRunOnceAppliesTimeout(t *testing.T) {
	r := &countingRunner{}
	s := mustNew(t, "0 7 * * *", time.UTC, time.Minute, r)

	s.RunOnce(context.Background())

	assert.Equal(t, 1, r.calls)
	assert.True(t, r.deadline)
}

func TestRunOnceLogsFailure(t *testing.T) {
	r := &countingRunner{err: errors.New("delivery failed")}
	s := mustNew(t, "0 7 * * *", time.UTC, 0, r)

	assert.NotPanics(t, func() { s.RunOnce(context.Background()) })
	assert.Equal(t, 1, r.calls)
	assert.False(t, r.deadline)
}

func TestStartSchedulesInLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	s := mustNew(t, "0 7 * * *", tokyo, time.Minute, &countingRunner{})

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	next := s.NextRun().In(tokyo)
	assert.Equal(t, 7, next.Hour())
	assert.Equal(t, 0, next.Minute())
	assert.True(t, next.After(time.Now()))
}

func TestNewRejectsUnnamedLocation(t *testing.T) {
	_, err := New("0 7 * * *", time.FixedZone("JST", 9*60*60), time.Minute, &countingRunner{})
	assert.Error(t, err)
}

func TestNewDefaultsToUTC(t *testing.T) {
	s := mustNew(t, "0 7 * * *", nil, time.Minute, &countingRunner{})

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()
	assert.Equal(t, 7, s.NextRun().UTC().Hour())
}

func TestStartRejectsInvalidSchedule(t *testing.T) {
	s := mustNew(t, "every morning", time.UTC, time.Minute, &countingRunner{})

	assert.Error(t, s.Start(context.Background()))
}
