package briefing

import (
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Renderer turns a briefing into message body text.
type Renderer interface {
	Render(ctx context.Context, b Briefing) (string, error)
}

const (
	forecastUnavailable = "Forecast unavailable."
	forecastEmpty       = "No forecast blocks left for today."
)

var weekdayMoods = map[time.Weekday]string{
	time.Monday:    "Use the tone of a slightly gloomy start to a brand new week.",
	time.Tuesday:   "Use a matter-of-fact tone, accepting reality and getting things done.",
	time.Wednesday: "It's the middle of the week: acknowledge some tiredness but be encouraging.",
	time.Thursday:  "Keep it calm and plain, as boredom and fatigue start to show.",
	time.Friday:    "Sound bright and upbeat, the weekend is almost here.",
	time.Saturday:  "Use a relaxed tone for a laid-back start to the weekend.",
	time.Sunday:    "Be restful, while gently acknowledging that Monday is tomorrow.",
}

// WeekdayMood returns the tone hint used in the rewrite prompt.
func WeekdayMood(d time.Weekday) string {
	return weekdayMoods[d]
}

// view holds the preformatted fields shared by the template and the prompt.
type view struct {
	Weekday             string
	Date                string
	City                string
	Description         string
	Temperature         string
	Extras              []string
	Outfit              string
	Umbrella            string
	RainWindow          string
	Forecast            []string
	ForecastPlaceholder string
	News                []string
	NewsPlaceholder     string
}

func newView(b Briefing, newsPlaceholder string) view {
	v := view{
		Weekday:         b.Date.Weekday().String(),
		Date:            b.Date.Format("January 2, 2006"),
		City:            b.Location.City,
		Outfit:          b.Advisory.OutfitText,
		Umbrella:        b.Advisory.UmbrellaText,
		RainWindow:      b.Advisory.RainWindowText,
		NewsPlaceholder: newsPlaceholder,
	}

	if w := b.Weather; w != nil {
		v.Description = w.Description
		v.Temperature = fmt.Sprintf("%.1f°C", w.TemperatureC)
		if w.TempMinC != nil && w.TempMaxC != nil {
			v.Extras = append(v.Extras, fmt.Sprintf("min %.1f°C / max %.1f°C", *w.TempMinC, *w.TempMaxC))
		}
		if w.WindSpeedMS != nil {
			v.Extras = append(v.Extras, fmt.Sprintf("wind %.1f m/s", *w.WindSpeedMS))
		}
	}

	switch {
	case !b.ForecastAvailable:
		v.ForecastPlaceholder = forecastUnavailable
	case len(b.Forecast) == 0:
		v.ForecastPlaceholder = forecastEmpty
	}
	for _, blk := range b.Forecast {
		desc := blk.Description
		if desc == "" {
			desc = "unknown"
		}
		v.Forecast = append(v.Forecast, fmt.Sprintf("%s %s (precipitation %d%%)", blk.Label, desc, blk.PopPercent))
	}

	for _, item := range b.News {
		line := item.Title
		if item.Link != "" {
			line += " " + item.Link
		}
		v.News = append(v.News, line)
	}
	return v
}

const briefingTemplate = `Good morning! Today is {{.Weekday}}, {{.Date}}.

Weather in {{.City}}: {{.Description}}, {{.Temperature}}{{range .Extras}} ({{.}}){{end}}
Outfit: {{.Outfit}}
Umbrella: {{.Umbrella}}
{{.RainWindow}}

Forecast:
{{- range .Forecast}}
・{{.}}
{{- else}}
・{{.ForecastPlaceholder}}
{{- end}}

News:
{{- range .News}}
・{{.}}
{{- else}}
・{{.NewsPlaceholder}}
{{- end}}
`

// TemplateRenderer renders the deterministic message.
type TemplateRenderer struct {
	tmpl            *template.Template
	newsPlaceholder string
}

func NewTemplateRenderer(newsPlaceholder string) *TemplateRenderer {
	return &TemplateRenderer{
		tmpl:            template.Must(template.New("briefing").Parse(briefingTemplate)),
		newsPlaceholder: newsPlaceholder,
	}
}

func (r *TemplateRenderer) Render(_ context.Context, b Briefing) (string, error) {
	var sb strings.Builder
	if err := r.tmpl.Execute(&sb, newView(b, r.newsPlaceholder)); err != nil {
		return "", fmt.Errorf("render briefing template: %w", err)
	}
	return sb.String(), nil
}

// RewriteRenderer asks a Rewriter to phrase the briefing facts as prose.
type RewriteRenderer struct {
	rewriter        Rewriter
	newsPlaceholder string
}

func NewRewriteRenderer(rewriter Rewriter, newsPlaceholder string) *RewriteRenderer {
	return &RewriteRenderer{rewriter: rewriter, newsPlaceholder: newsPlaceholder}
}

func (r *RewriteRenderer) Render(ctx context.Context, b Briefing) (string, error) {
	return r.rewriter.Rewrite(ctx, BuildPrompt(b, r.newsPlaceholder))
}

// BuildPrompt embeds the structured facts into a generation prompt.
func BuildPrompt(b Briefing, newsPlaceholder string) string {
	v := newView(b, newsPlaceholder)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Today is %s, %s. %s\n", v.Weekday, v.Date, WeekdayMood(b.Date.Weekday()))
	sb.WriteString("Write a morning greeting message based on the following information:\n")
	fmt.Fprintf(&sb, "- Weather in %s: %s, %s", v.City, v.Description, v.Temperature)
	for _, extra := range v.Extras {
		fmt.Fprintf(&sb, " (%s)", extra)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "- Outfit advice: %s\n", v.Outfit)
	fmt.Fprintf(&sb, "- Umbrella advice: %s\n", v.Umbrella)
	fmt.Fprintf(&sb, "- Rain window: %s\n", v.RainWindow)

	sb.WriteString("- Precipitation forecast:\n")
	writeLines(&sb, v.Forecast, v.ForecastPlaceholder)
	sb.WriteString("- Today's news:\n")
	titles := make([]string, 0, len(b.News))
	for _, item := range b.News {
		titles = append(titles, item.Title)
	}
	writeLines(&sb, titles, newsPlaceholder)
	return sb.String()
}

func writeLines(sb *strings.Builder, lines []string, placeholder string) {
	if len(lines) == 0 {
		lines = []string{placeholder}
	}
	for _, l := range lines {
		fmt.Fprintf(sb, "  ・%s\n", l)
	}
}
