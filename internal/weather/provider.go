package weather

import (
	"context"
)

// Source abstracts a weather data provider (e.g. OpenWeatherMap).
// Failures are reported as *common.SourceError.
type Source interface {
	FetchCurrent(ctx context.Context, loc Location) (WeatherSnapshot, error)
	FetchForecast(ctx context.Context, loc Location) ([]ForecastPoint, error)
}
