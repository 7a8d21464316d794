package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/i474232898/morning-briefing/internal/briefing"
	"github.com/i474232898/morning-briefing/internal/common"
	"github.com/i474232898/morning-briefing/internal/config"
	"github.com/i474232898/morning-briefing/internal/logger"
	"github.com/i474232898/morning-briefing/internal/metrics"
	"github.com/i474232898/morning-briefing/internal/news"
	"github.com/i474232898/morning-briefing/internal/notify"
	"github.com/i474232898/morning-briefing/internal/reminder"
	"github.com/i474232898/morning-briefing/internal/rewrite"
	"github.com/i474232898/morning-briefing/internal/store"
	"github.com/i474232898/morning-briefing/internal/weather/providers"
)

// pipeline holds the wired briefing components for one process.
type pipeline struct {
	service   *briefing.Service
	reminders *reminder.Service
	runs      *store.MemoryStore
}

// loadConfig reads configuration, applies the mode override and configures logging.
func loadConfig(mode string) (*config.AppConfig, error) {
	if mode != "" {
		if err := os.Setenv("COMPOSITION_MODE", mode); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrConfiguration, err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFormat); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConfiguration, err)
	}
	return cfg, nil
}

// newPipeline wires sources, composer, notifier and the reminder. reg may be nil.
func newPipeline(cfg *config.AppConfig, reg prometheus.Registerer) *pipeline {
	m := metrics.New(reg)

	// Shared HTTP client for outbound source calls.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	weatherSource := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey,
		providers.WithBaseURL(cfg.OpenWeatherBaseURL),
		providers.WithLanguage(cfg.WeatherLang),
		providers.WithMaxRetries(cfg.HTTPMaxRetries),
	)
	newsSource := news.NewFeedSource(httpClient, cfg.NewsFeedURL)

	var rewriter briefing.Rewriter
	mode := briefing.Mode(cfg.CompositionMode)
	if mode == briefing.ModeRewritten {
		rewriter = rewrite.NewOpenAIRewriter(rewrite.Options{
			APIKey:      cfg.OpenAIAPIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			Model:       cfg.OpenAIModel,
			Temperature: float32(cfg.OpenAITemperature),
			HTTPClient:  &http.Client{Timeout: cfg.GenerationTimeout},
		})
	}
	composer := briefing.NewComposer(mode, briefing.NewTemplateRenderer(cfg.NewsPlaceholder), rewriter, m)

	notifier := newNotifier(cfg)
	runs := store.NewMemoryStore(cfg.RunHistory, cfg.RunMaxAge)

	service := briefing.NewService(weatherSource, newsSource, composer, notifier,
		briefing.Options{
			Location:  cfg.Location,
			Window:    cfg.Window(),
			NewsCount: cfg.NewsCount,
		},
		briefing.WithRunRecorder(runs),
		briefing.WithMetrics(m),
	)

	reminders := reminder.NewService(notifier,
		reminder.Options{
			Items:    cfg.ReminderItems,
			Mention:  cfg.ReminderMention,
			Location: cfg.Timezone,
		},
		reminder.WithRunRecorder(runs),
	)

	return &pipeline{service: service, reminders: reminders, runs: runs}
}

func newNotifier(cfg *config.AppConfig) notify.Notifier {
	switch strings.ToLower(cfg.Notifier) {
	case "console":
		return notify.NewConsoleNotifier(os.Stdout)
	default:
		return notify.NewDiscordNotifier(cfg.DiscordToken, cfg.DiscordChannelID, &http.Client{Timeout: cfg.DeliveryTimeout})
	}
}
