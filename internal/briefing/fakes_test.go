package briefing

import (
	"context"
	"sync"
	"time"

	"github.com/i474232898/morning-briefing/internal/advisory"
	"github.com/i474232898/morning-briefing/internal/news"
	"github.com/i474232898/morning-briefing/internal/notify"
	"github.com/i474232898/morning-briefing/internal/weather"
)

var jst = time.FixedZone("JST", 9*60*60)

// monday is 07:00 local on Monday 2026-10-19.
var monday = time.Date(2026, time.October, 19, 7, 0, 0, 0, jst)

var tokyo = weather.Location{City: "Tokyo", Country: "JP"}

func at(hour int) time.Time {
	return time.Date(2026, time.October, 19, hour, 0, 0, 0, jst).UTC()
}

func ptr(f float64) *float64 { return &f }

type fakeWeather struct {
	current     weather.WeatherSnapshot
	currentErr  error
	points      []weather.ForecastPoint
	forecastErr error
}

func (f *fakeWeather) FetchCurrent(context.Context, weather.Location) (weather.WeatherSnapshot, error) {
	return f.current, f.currentErr
}

func (f *fakeWeather) FetchForecast(context.Context, weather.Location) ([]weather.ForecastPoint, error) {
	return f.points, f.forecastErr
}

type fakeNews struct {
	items []news.Item
	err   error
	asked int
}

func (f *fakeNews) FetchTop(_ context.Context, n int) ([]news.Item, error) {
	f.asked = n
	if f.err != nil {
		return nil, f.err
	}
	if len(f.items) > n {
		return f.items[:n], nil
	}
	return f.items, nil
}

type fakeRewriter struct {
	text    string
	err     error
	prompts []string
}

func (f *fakeRewriter) Rewrite(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

type recordingNotifier struct {
	mu       sync.Mutex
	sendErr  error
	sessions int
	closed   int
	messages []notify.Message
}

func (r *recordingNotifier) WithSession(_ context.Context, fn func(notify.Session) error) error {
	r.mu.Lock()
	r.sessions++
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.closed++
		r.mu.Unlock()
	}()
	return fn(r)
}

func (r *recordingNotifier) Send(_ context.Context, msg notify.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return r.sendErr
}

type recorder struct {
	records []RunRecord
}

func (r *recorder) SaveRun(rec RunRecord) {
	r.records = append(r.records, rec)
}

func clearPoints(hours ...int) []weather.ForecastPoint {
	var points []weather.ForecastPoint
	for _, h := range hours {
		points = append(points, weather.ForecastPoint{Timestamp: at(h), Description: "clear sky"})
	}
	return points
}

func sampleBriefing() Briefing {
	blocks := []weather.ForecastBlock{
		{Start: at(9).In(jst), Label: "09:00-12:00", Description: "clear sky", PopPercent: 0},
		{Start: at(15).In(jst), Label: "15:00-18:00", Description: "light rain", PopPercent: 60, RainRelevant: true},
	}
	return Briefing{
		Date:     monday,
		Location: tokyo,
		Weather: &weather.WeatherSnapshot{
			Location:     tokyo,
			Description:  "broken clouds",
			TemperatureC: 17.4,
			TempMinC:     ptr(15.1),
			TempMaxC:     ptr(20.2),
			WindSpeedMS:  ptr(3.6),
		},
		Forecast:          blocks,
		ForecastAvailable: true,
		Advisory:          advisory.Evaluate(17.4, blocks),
		News: []news.Item{
			{Title: "First", Link: "http://example.com/1"},
			{Title: "Second"},
		},
		NewsAvailable: true,
	}
}
