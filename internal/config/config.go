package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/morning-briefing/internal/common"
	"github.com/i474232898/morning-briefing/internal/logger"
	"github.com/i474232898/morning-briefing/internal/weather"
)

const (
	DefaultOpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5"
	DefaultNewsFeedURL        = "https://news.yahoo.co.jp/rss/topics/top-picks.xml"
	DefaultRainKeywords       = "rain,drizzle,shower,thunderstorm,雨"
)

type AppConfig struct {
	OpenWeatherAPIKey  string `validate:"required"`
	OpenWeatherBaseURL string `validate:"required,url"`
	WeatherLang        string `validate:"required"`

	Location weather.Location
	Timezone *time.Location

	ForecastWindowStart  int      `validate:"min=0,max=23"`
	ForecastWindowEnd    int      `validate:"max=24,gtefield=ForecastWindowStart"`
	RainThresholdPercent int      `validate:"min=0,max=100"`
	RainKeywords         []string `validate:"dive,required"`

	NewsFeedURL     string `validate:"required,url"`
	NewsCount       int    `validate:"min=1,max=20"`
	NewsPlaceholder string `validate:"required"`

	CompositionMode   string  `validate:"oneof=deterministic rewritten"`
	OpenAIAPIKey      string  `validate:"required_if=CompositionMode rewritten"`
	OpenAIModel       string  `validate:"required"`
	OpenAITemperature float64 `validate:"min=0,max=2"`
	OpenAIBaseURL     string  `validate:"omitempty,url"`

	Notifier         string `validate:"oneof=discord console"`
	DiscordToken     string `validate:"required_if=Notifier discord"`
	DiscordChannelID string `validate:"required_if=Notifier discord"`

	HTTPTimeout       time.Duration `validate:"gt=0"`
	GenerationTimeout time.Duration `validate:"gt=0"`
	DeliveryTimeout   time.Duration `validate:"gt=0"`
	RunTimeout        time.Duration `validate:"gt=0"`
	HTTPMaxRetries    int           `validate:"min=0,max=5"`

	// Schedule reminder.
	ReminderItems    []string `validate:"dive,required"`
	ReminderMention  string
	ReminderSchedule string // empty disables the reminder job in serve mode

	// Serve mode.
	BriefingSchedule string `validate:"required"`
	Port             string `validate:"required,numeric"`
	RunHistory       int    `validate:"min=0"` // 0 = unlimited
	RunMaxAge        time.Duration

	LogLevel  string
	LogFormat string `validate:"oneof=json text"`
}

var validate = validator.New()

// Load reads configuration from the environment (and an optional .env file)
// with defaults. Every failure wraps common.ErrConfiguration.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logger.Log.Debugf("No .env file loaded: %v", err)
	}

	p := &parser{}
	cfg := &AppConfig{
		OpenWeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		OpenWeatherBaseURL: getenvDefault("OPENWEATHER_BASE_URL", DefaultOpenWeatherBaseURL),
		WeatherLang:        getenvDefault("WEATHER_LANG", "en"),
		Location: weather.Location{
			City:    getenvDefault("WEATHER_LOCATION_CITY", "Tokyo"),
			Country: getenvDefault("WEATHER_LOCATION_COUNTRY", "JP"),
		},

		ForecastWindowStart:  p.int("FORECAST_WINDOW_START", 9),
		ForecastWindowEnd:    p.int("FORECAST_WINDOW_END", 24),
		RainThresholdPercent: p.int("RAIN_THRESHOLD_PERCENT", 30),
		RainKeywords:         common.SplitList(getenvDefault("RAIN_KEYWORDS", DefaultRainKeywords)),

		NewsFeedURL:     getenvDefault("NEWS_FEED_URL", DefaultNewsFeedURL),
		NewsCount:       p.int("NEWS_COUNT", 3),
		NewsPlaceholder: getenvDefault("NEWS_PLACEHOLDER", "No news available today."),

		CompositionMode:   strings.ToLower(getenvDefault("COMPOSITION_MODE", "deterministic")),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       getenvDefault("OPENAI_MODEL", "gpt-4"),
		OpenAITemperature: p.float("OPENAI_TEMPERATURE", 0.7),
		OpenAIBaseURL:     os.Getenv("OPENAI_BASE_URL"),

		Notifier:         strings.ToLower(getenvDefault("NOTIFIER", "discord")),
		DiscordToken:     os.Getenv("DISCORD_TOKEN"),
		DiscordChannelID: os.Getenv("DISCORD_CHANNEL_ID"),

		HTTPTimeout:       p.duration("HTTP_TIMEOUT", 20*time.Second),
		GenerationTimeout: p.duration("GENERATION_TIMEOUT", 60*time.Second),
		DeliveryTimeout:   p.duration("DELIVERY_TIMEOUT", 30*time.Second),
		RunTimeout:        p.duration("RUN_TIMEOUT", 2*time.Minute),
		HTTPMaxRetries:    p.int("HTTP_MAX_RETRIES", 0),

		ReminderItems:    common.SplitOn(os.Getenv("REMINDER_ITEMS"), ";"),
		ReminderMention:  lookupenvDefault("REMINDER_MENTION", "@everyone"),
		ReminderSchedule: strings.TrimSpace(os.Getenv("REMINDER_SCHEDULE")),

		BriefingSchedule: getenvDefault("BRIEFING_SCHEDULE", "0 7 * * *"),
		Port:             getenvDefault("PORT", "8080"),
		RunHistory:       p.int("RUN_HISTORY", 30),
		RunMaxAge:        p.duration("RUN_MAX_AGE", 168*time.Hour),

		LogLevel:  getenvDefault("LOG_LEVEL", "info"),
		LogFormat: strings.ToLower(getenvDefault("LOG_FORMAT", "json")),
	}

	tzName := getenvDefault("TIMEZONE", "Asia/Tokyo")
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		p.fail("TIMEZONE", tzName, err)
	}
	cfg.Timezone = tz

	if err := p.err(); err != nil {
		return nil, err
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConfiguration, err)
	}
	return cfg, nil
}

// Window returns the forecast window settings in the configured timezone.
func (c *AppConfig) Window() weather.WindowOptions {
	return weather.WindowOptions{
		StartHour:            c.ForecastWindowStart,
		EndHour:              c.ForecastWindowEnd,
		Location:             c.Timezone,
		RainThresholdPercent: c.RainThresholdPercent,
		RainKeywords:         c.RainKeywords,
	}
}

// parser collects every malformed variable instead of stopping at the first.
type parser struct {
	errs []error
}

func (p *parser) fail(key, value string, err error) {
	p.errs = append(p.errs, fmt.Errorf("invalid %s %q: %w", key, value, err))
}

func (p *parser) err() error {
	if len(p.errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", common.ErrConfiguration, errors.Join(p.errs...))
}

func (p *parser) int(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return n
}

func (p *parser) float(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return f
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return d
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// lookupenvDefault is like getenvDefault but keeps an explicitly empty value.
func lookupenvDefault(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return def
}
