package briefing

import (
	"context"
	"strings"

	"github.com/i474232898/morning-briefing/internal/logger"
	"github.com/i474232898/morning-briefing/internal/metrics"
	"github.com/i474232898/morning-briefing/internal/notify"
)

const (
	MessageTitle = "☀️ Morning Briefing"

	// WeatherFailedText is the body sent when current conditions are missing.
	WeatherFailedText = "Weather fetch failed."

	// RenderFailedText is the body sent when even the template cannot render.
	RenderFailedText = "Today's briefing could not be rendered."

	footerTemplate  = "powered by OpenWeather + news feed"
	footerRewritten = "powered by OpenAI + OpenWeather + news feed"
)

// Composer selects a renderer and guarantees a non-empty message.
type Composer struct {
	mode     Mode
	renderer Renderer
	fallback *TemplateRenderer
	metrics  *metrics.Metrics
}

// NewComposer builds a composer for mode. Rewritten mode without a rewriter
// degrades to the template.
func NewComposer(mode Mode, template *TemplateRenderer, rewriter Rewriter, m *metrics.Metrics) *Composer {
	c := &Composer{
		mode:     ModeDeterministic,
		renderer: template,
		fallback: template,
		metrics:  m,
	}
	if mode == ModeRewritten && rewriter != nil {
		c.mode = ModeRewritten
		c.renderer = NewRewriteRenderer(rewriter, template.newsPlaceholder)
	}
	return c
}

// Mode returns the configured composition mode.
func (c *Composer) Mode() Mode {
	return c.mode
}

// Compose renders b. Without current weather it returns the placeholder
// composition together with a *PlaceholderError.
func (c *Composer) Compose(ctx context.Context, b Briefing) (Composition, error) {
	if b.Weather == nil {
		comp := Composition{
			Message:     PlaceholderMessage(),
			Mode:        c.mode,
			Placeholder: true,
		}
		return comp, &PlaceholderError{Message: comp.Message, Err: ErrWeatherUnavailable}
	}

	comp := Composition{Mode: c.mode}

	body, err := c.renderer.Render(ctx, b)
	if err == nil && strings.TrimSpace(body) != "" {
		comp.Message = c.message(body, c.mode)
		return comp, nil
	}

	if c.mode == ModeRewritten {
		logger.Log.WithField("mode", c.mode).Warnf("Rewrite failed, falling back to template: %v", err)
		c.metrics.RewriteFellBack()
		comp.FellBack = true
	}

	body, ferr := c.fallback.Render(ctx, b)
	if ferr != nil || strings.TrimSpace(body) == "" {
		logger.Log.Errorf("Template rendering failed: %v", ferr)
		comp.Message = notify.Message{Title: MessageTitle, Body: RenderFailedText}
		comp.Placeholder = true
		return comp, nil
	}
	comp.Message = c.message(body, ModeDeterministic)
	return comp, nil
}

func (c *Composer) message(body string, renderedBy Mode) notify.Message {
	footer := footerTemplate
	if renderedBy == ModeRewritten {
		footer = footerRewritten
	}
	return notify.Message{Title: MessageTitle, Body: body, Footer: footer}
}

// PlaceholderMessage is the fixed message delivered when weather is unavailable.
func PlaceholderMessage() notify.Message {
	return notify.Message{Title: MessageTitle, Body: WeatherFailedText}
}
