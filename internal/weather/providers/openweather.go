package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/morning-briefing/internal/common"
	"github.com/i474232898/morning-briefing/internal/weather"
)

const defaultOpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

// OpenWeatherProvider implements weather.Source for OpenWeatherMap's current
// conditions and 5 day / 3 hour forecast endpoints.
type OpenWeatherProvider struct {
	apiKey  string
	baseURL string
	lang    string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// Option customizes an OpenWeatherProvider.
type Option func(*OpenWeatherProvider)

// WithBaseURL overrides the API root (used by tests and proxies).
func WithBaseURL(baseURL string) Option {
	return func(p *OpenWeatherProvider) {
		if baseURL != "" {
			p.baseURL = baseURL
		}
	}
}

// WithLanguage sets the language of condition descriptions.
func WithLanguage(lang string) Option {
	return func(p *OpenWeatherProvider) {
		p.lang = lang
	}
}

// WithMaxRetries sets the retry budget for transient failures.
func WithMaxRetries(n int) Option {
	return func(p *OpenWeatherProvider) {
		p.httpCfg.Backoff.MaxRetries = n
	}
}

func NewOpenWeatherProvider(client *http.Client, apiKey string, opts ...Option) *OpenWeatherProvider {
	p := &OpenWeatherProvider{
		apiKey:  apiKey,
		baseURL: defaultOpenWeatherBaseURL,
		lang:    "en",
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      0,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: newCircuitBreaker("openweather"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type owCondition struct {
	Description string `json:"description"`
}

// FetchCurrent returns the current conditions for loc.
func (p *OpenWeatherProvider) FetchCurrent(ctx context.Context, loc weather.Location) (weather.WeatherSnapshot, error) {
	const source = "openweather/current"

	var payload struct {
		Dt      int64         `json:"dt"`
		Weather []owCondition `json:"weather"`
		Main    *struct {
			Temp    *float64 `json:"temp"`
			TempMin *float64 `json:"temp_min"`
			TempMax *float64 `json:"temp_max"`
		} `json:"main"`
		Wind *struct {
			Speed *float64 `json:"speed"`
		} `json:"wind"`
	}

	if err := p.get(ctx, "weather", loc, &payload); err != nil {
		return weather.WeatherSnapshot{}, common.NewSourceError(source, statusOf(err), err)
	}

	if len(payload.Weather) == 0 || payload.Main == nil || payload.Main.Temp == nil {
		return weather.WeatherSnapshot{}, common.NewSourceError(source, http.StatusOK,
			fmt.Errorf("%w: missing weather[0] or main.temp", errMalformed))
	}

	ts := time.Unix(payload.Dt, 0).UTC()
	if payload.Dt == 0 {
		ts = time.Now().UTC()
	}

	snap := weather.WeatherSnapshot{
		Location:     loc,
		Timestamp:    ts,
		Description:  payload.Weather[0].Description,
		TemperatureC: *payload.Main.Temp,
		TempMinC:     payload.Main.TempMin,
		TempMaxC:     payload.Main.TempMax,
	}
	if payload.Wind != nil {
		snap.WindSpeedMS = payload.Wind.Speed
	}
	return snap, nil
}

// FetchForecast returns the raw 3-hour forecast points for loc in provider order.
func (p *OpenWeatherProvider) FetchForecast(ctx context.Context, loc weather.Location) ([]weather.ForecastPoint, error) {
	const source = "openweather/forecast"

	var payload struct {
		List []struct {
			Dt      int64         `json:"dt"`
			Pop     float64       `json:"pop"`
			Weather []owCondition `json:"weather"`
			Rain    struct {
				ThreeH float64 `json:"3h"`
			} `json:"rain"`
		} `json:"list"`
	}

	if err := p.get(ctx, "forecast", loc, &payload); err != nil {
		return nil, common.NewSourceError(source, statusOf(err), err)
	}
	if payload.List == nil {
		return nil, common.NewSourceError(source, http.StatusOK, fmt.Errorf("%w: missing list", errMalformed))
	}

	points := make([]weather.ForecastPoint, 0, len(payload.List))
	for _, entry := range payload.List {
		var desc string
		if len(entry.Weather) > 0 {
			desc = entry.Weather[0].Description
		}
		points = append(points, weather.ForecastPoint{
			Timestamp:         time.Unix(entry.Dt, 0).UTC(),
			Description:       desc,
			PrecipProbability: entry.Pop,
			PrecipVolumeMm:    entry.Rain.ThreeH,
		})
	}
	return points, nil
}

func (p *OpenWeatherProvider) get(ctx context.Context, endpoint string, loc weather.Location, out any) error {
	if p.apiKey == "" {
		return fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")
		values.Set("q", loc.Query())
		if p.lang != "" {
			values.Set("lang", p.lang)
		}

		u := fmt.Sprintf("%s/%s?%s", p.baseURL, endpoint, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &statusError{code: resp.StatusCode, err: fmt.Errorf("%w: %v", errMalformed, err)}
	}
	return nil
}
