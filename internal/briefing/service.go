package briefing

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/morning-briefing/internal/advisory"
	"github.com/i474232898/morning-briefing/internal/logger"
	"github.com/i474232898/morning-briefing/internal/metrics"
	"github.com/i474232898/morning-briefing/internal/news"
	"github.com/i474232898/morning-briefing/internal/notify"
	"github.com/i474232898/morning-briefing/internal/weather"
)

// Options holds the per-run settings of the pipeline.
type Options struct {
	Location  weather.Location
	Window    weather.WindowOptions
	NewsCount int
}

// Service orchestrates sources, composition and delivery for one briefing.
type Service struct {
	weather  weather.Source
	news     news.Source
	composer *Composer
	notifier notify.Notifier
	opts     Options

	runs    RunRecorder
	metrics *metrics.Metrics
	now     func() time.Time
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithRunRecorder stores a RunRecord after each Run.
func WithRunRecorder(r RunRecorder) ServiceOption {
	return func(s *Service) { s.runs = r }
}

func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService creates a new Service.
func NewService(
	ws weather.Source,
	ns news.Source,
	composer *Composer,
	notifier notify.Notifier,
	opts Options,
	options ...ServiceOption,
) *Service {
	s := &Service{
		weather:  ws,
		news:     ns,
		composer: composer,
		notifier: notifier,
		opts:     opts,
		now:      time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Assemble fetches current weather, forecast and news concurrently and
// builds the briefing. It never fails; missing parts are reported as
// degradation reasons.
func (s *Service) Assemble(ctx context.Context) (Briefing, []string) {
	return s.assemble(ctx, logger.Log.WithField("location", s.opts.Location.Key()))
}

func (s *Service) assemble(ctx context.Context, log *logger.Entry) (Briefing, []string) {
	var (
		wg sync.WaitGroup

		current    weather.WeatherSnapshot
		currentErr error
		points     []weather.ForecastPoint
		pointsErr  error
		items      []news.Item
		newsErr    error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		current, currentErr = s.weather.FetchCurrent(ctx, s.opts.Location)
	}()
	go func() {
		defer wg.Done()
		points, pointsErr = s.weather.FetchForecast(ctx, s.opts.Location)
	}()
	go func() {
		defer wg.Done()
		items, newsErr = s.news.FetchTop(ctx, s.opts.NewsCount)
	}()
	wg.Wait()

	tz := s.opts.Window.Location
	if tz == nil {
		tz = time.UTC
	}
	b := Briefing{
		Date:     s.now().In(tz),
		Location: s.opts.Location,
	}
	var degraded []string

	if currentErr != nil {
		log.Errorf("Current weather fetch failed: %v", currentErr)
		s.metrics.SourceFailed(DegradedWeather)
		degraded = append(degraded, DegradedWeather)
	} else {
		snap := current
		b.Weather = &snap
	}

	if pointsErr != nil {
		log.Warnf("Forecast fetch failed: %v", pointsErr)
		s.metrics.SourceFailed(DegradedForecast)
		degraded = append(degraded, DegradedForecast)
	} else {
		b.Forecast = weather.ExtractWindow(points, b.Date, s.opts.Window)
		b.ForecastAvailable = true
	}

	if newsErr != nil {
		log.Warnf("News fetch failed: %v", newsErr)
		s.metrics.SourceFailed(DegradedNews)
		degraded = append(degraded, DegradedNews)
	} else {
		b.News = items
		b.NewsAvailable = true
	}

	switch {
	case b.Weather == nil:
		// Only the placeholder message is composed.
	case b.ForecastAvailable:
		b.Advisory = advisory.Evaluate(b.Weather.TemperatureC, b.Forecast)
	default:
		b.Advisory = advisory.EvaluateWithoutForecast(b.Weather.TemperatureC)
	}

	log.WithField("blocks", len(b.Forecast)).WithField("news", len(b.News)).Debug("Briefing assembled")
	return b, degraded
}

// Preview assembles and composes a briefing without delivering it.
func (s *Service) Preview(ctx context.Context) (Composition, error) {
	b, _ := s.Assemble(ctx)
	comp, err := s.composer.Compose(ctx, b)
	var perr *PlaceholderError
	if err != nil && !errors.As(err, &perr) {
		return Composition{}, err
	}
	return comp, nil
}

// Run executes the full pipeline and delivers exactly one message. The
// returned error is non-nil only when delivery failed or ctx was cancelled
// before delivery started.
func (s *Service) Run(ctx context.Context) (RunRecord, error) {
	record := RunRecord{ID: uuid.NewString(), Kind: KindBriefing, StartedAt: s.now().UTC()}
	log := logger.Log.WithField("run_id", record.ID)
	log.WithField("mode", s.composer.Mode()).Info("Starting briefing run")

	b, degraded := s.assemble(ctx, log.WithField("location", s.opts.Location.Key()))

	comp, err := s.composer.Compose(ctx, b)
	if err != nil {
		log.Warnf("Delivering placeholder message: %v", err)
	}
	if comp.FellBack {
		degraded = append(degraded, DegradedRewrite)
	}
	record.Degraded = degraded

	if err := ctx.Err(); err != nil {
		return s.finish(log, record, OutcomeCancelled, err)
	}

	if err := notify.Deliver(ctx, s.notifier, comp.Message); err != nil {
		s.metrics.Delivered(false)
		return s.finish(log, record, OutcomeDeliveryFailed, err)
	}
	s.metrics.Delivered(true)

	outcome := OutcomeDelivered
	if comp.Placeholder {
		outcome = OutcomeDeliveredPlaceholder
	}
	return s.finish(log, record, outcome, nil)
}

func (s *Service) finish(log *logger.Entry, record RunRecord, outcome Outcome, err error) (RunRecord, error) {
	record.FinishedAt = s.now().UTC()
	record.Outcome = outcome

	log = log.WithFields(logger.Fields{"outcome": outcome, "degraded": record.Degraded})
	if err != nil {
		record.Error = err.Error()
		log.Errorf("Briefing run failed: %v", err)
	} else {
		log.Info("Briefing run finished")
	}

	s.metrics.ObserveRun(string(outcome), record.FinishedAt.Sub(record.StartedAt))
	if s.runs != nil {
		s.runs.SaveRun(record)
	}
	return record, err
}
