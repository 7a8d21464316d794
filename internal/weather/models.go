package weather

import (
	"time"
)

// Location represents the fixed place the briefing is built for.
// City/Country must be provided.
type Location struct {
	City    string `json:"city" validate:"required"`
	Country string `json:"country"`
}

// Key returns a canonical string key for this location.
func (l Location) Key() string {
	return l.City + ":" + l.Country
}

// Query returns the "city,country" form accepted by weather providers.
func (l Location) Query() string {
	if l.Country == "" {
		return l.City
	}
	return l.City + "," + l.Country
}

// WeatherSnapshot holds the current conditions at the time of the run.
// Optional provider fields are nil when the payload omitted them.
type WeatherSnapshot struct {
	Location     Location  `json:"location"`
	Timestamp    time.Time `json:"timestamp"` // always UTC
	Description  string    `json:"description"`
	TemperatureC float64   `json:"temperatureC"`
	WindSpeedMS  *float64  `json:"windSpeedMs,omitempty"`
	TempMinC     *float64  `json:"tempMinC,omitempty"`
	TempMaxC     *float64  `json:"tempMaxC,omitempty"`
}

// ForecastPoint is one raw provider forecast entry.
// Points are not guaranteed to arrive sorted.
type ForecastPoint struct {
	Timestamp         time.Time `json:"timestamp"`
	Description       string    `json:"description"`
	PrecipProbability float64   `json:"pop"`      // 0..1
	PrecipVolumeMm    float64   `json:"precipMm"` // >= 0
}

// ForecastBlock is a normalized 3-hour forecast window on the local date.
type ForecastBlock struct {
	Start        time.Time `json:"start"` // local time
	Label        string    `json:"label"`
	Description  string    `json:"description"`
	PopPercent   int       `json:"popPercent"`
	RainRelevant bool      `json:"rainRelevant"`
}
