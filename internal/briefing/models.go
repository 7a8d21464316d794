package briefing

import (
	"context"
	"fmt"
	"time"

	"github.com/i474232898/morning-briefing/internal/advisory"
	"github.com/i474232898/morning-briefing/internal/common"
	"github.com/i474232898/morning-briefing/internal/news"
	"github.com/i474232898/morning-briefing/internal/notify"
	"github.com/i474232898/morning-briefing/internal/weather"
)

// Mode selects how the final message is rendered.
type Mode string

const (
	ModeDeterministic Mode = "deterministic"
	ModeRewritten     Mode = "rewritten"
)

// Briefing is the immutable set of facts gathered for one run.
type Briefing struct {
	Date     time.Time        `json:"date"` // local time of assembly
	Location weather.Location `json:"location"`

	// Weather is nil when current conditions could not be fetched.
	Weather *weather.WeatherSnapshot `json:"weather,omitempty"`

	Forecast          []weather.ForecastBlock `json:"forecast"`
	ForecastAvailable bool                    `json:"forecastAvailable"`

	Advisory advisory.Result `json:"advisory"`

	News          []news.Item `json:"news"`
	NewsAvailable bool        `json:"newsAvailable"`
}

// Composition is the composed message plus how it was produced.
type Composition struct {
	Message     notify.Message `json:"message"`
	Mode        Mode           `json:"mode"`
	FellBack    bool           `json:"fellBack"`
	Placeholder bool           `json:"placeholder"`
}

// ErrWeatherUnavailable is returned by composition when current conditions are missing.
var ErrWeatherUnavailable = fmt.Errorf("current weather: %w", common.ErrSourceUnavailable)

// PlaceholderError reports that only the fixed placeholder message could be
// composed. The placeholder is still meant to be delivered.
type PlaceholderError struct {
	Message notify.Message
	Err     error
}

func (e *PlaceholderError) Error() string {
	return "composed placeholder message: " + e.Err.Error()
}

func (e *PlaceholderError) Unwrap() error { return e.Err }

// Rewriter turns a facts prompt into natural prose.
type Rewriter interface {
	Rewrite(ctx context.Context, prompt string) (string, error)
}

// Outcome is the terminal state of a run.
type Outcome string

const (
	OutcomeDelivered            Outcome = "delivered"
	OutcomeDeliveredPlaceholder Outcome = "delivered_placeholder"
	OutcomeDeliveryFailed       Outcome = "delivery_failed"
	OutcomeCancelled            Outcome = "cancelled"
)

// Degradation reasons recorded on a run.
const (
	DegradedWeather  = "weather_current"
	DegradedForecast = "forecast"
	DegradedNews     = "news"
	DegradedRewrite  = "rewrite"
)

// Kinds of recorded runs.
const (
	KindBriefing = "briefing"
	KindReminder = "reminder"
)

// RunRecord summarizes one pipeline execution. It never contains the briefing itself.
type RunRecord struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Outcome    Outcome   `json:"outcome"`
	Degraded   []string  `json:"degraded,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// RunRecorder keeps run records, e.g. the in-memory store.
type RunRecorder interface {
	SaveRun(record RunRecord)
}
