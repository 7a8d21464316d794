package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/morning-briefing/internal/briefing"
	"github.com/i474232898/morning-briefing/internal/logger"
)

// Runner executes one briefing run.
type Runner interface {
	Run(ctx context.Context) (briefing.RunRecord, error)
}

// Scheduler triggers a briefing run on a cron schedule.
type Scheduler struct {
	scheduler *gocron.Scheduler
	runner    Runner
	spec      string
	timeout   time.Duration
}

// New creates a new Scheduler. spec is a standard five-field cron
// expression evaluated in loc; each run is bounded by timeout. loc must be
// loadable by name (time.LoadLocation), since the cron parser resolves the
// zone again from loc.String(); zones from time.FixedZone are rejected.
func New(spec string, loc *time.Location, timeout time.Duration, runner Runner) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	if _, err := time.LoadLocation(loc.String()); err != nil {
		return nil, fmt.Errorf("scheduler: location %q cannot be loaded by name: %w", loc.String(), err)
	}
	s := gocron.NewScheduler(loc)
	// A slow run must never overlap the next trigger.
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		runner:    runner,
		spec:      spec,
		timeout:   timeout,
	}, nil
}

// Start schedules the briefing job and starts the underlying scheduler.
// Runs in flight are cancelled when ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	job, err := s.scheduler.Cron(s.spec).Do(func() {
		s.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	logger.Log.WithField("schedule", s.spec).Infof("Scheduler started, next run at %s", job.NextRun().Format(time.RFC3339))
	return nil
}

// RunOnce performs a single scheduled run.
func (s *Scheduler) RunOnce(ctx context.Context) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	logger.Log.Info("Scheduler: running briefing job")
	rec, err := s.runner.Run(ctx)
	if err != nil {
		logger.Log.WithField("run_id", rec.ID).Errorf("Scheduler: briefing run failed: %v", err)
		return
	}
	logger.Log.WithField("run_id", rec.ID).WithField("outcome", rec.Outcome).Info("Scheduler: completed briefing job")
}

// NextRun reports when the briefing job fires next.
func (s *Scheduler) NextRun() time.Time {
	_, next := s.scheduler.NextRun()
	return next
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
