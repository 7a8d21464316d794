// Package reminder posts the daily schedule reminder to the same channel as
// the morning briefing.
package reminder

import (
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/morning-briefing/internal/briefing"
	"github.com/i474232898/morning-briefing/internal/logger"
	"github.com/i474232898/morning-briefing/internal/notify"
)

const (
	Title     = "📌 Today's schedule reminder"
	Footer    = "powered by ScheduleBot"
	Color     = 0xf1c40f
	EmptyText = "Nothing on the schedule today."
)

const reminderTemplate = `📅 Schedule for {{.Date}}
{{- range .Items}}
・{{.}}
{{- else}}
・{{.Empty}}
{{- end}}
`

// Renderer formats the schedule items for one day.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() *Renderer {
	return &Renderer{tmpl: template.Must(template.New("reminder").Parse(reminderTemplate))}
}

func (r *Renderer) Render(date time.Time, items []string) (string, error) {
	var sb strings.Builder
	err := r.tmpl.Execute(&sb, struct {
		Date  string
		Items []string
		Empty string
	}{
		Date:  date.Format("2006/01/02"),
		Items: items,
		Empty: EmptyText,
	})
	if err != nil {
		return "", fmt.Errorf("render reminder template: %w", err)
	}
	return sb.String(), nil
}

// Options holds the reminder settings.
type Options struct {
	Items []string
	// Mention is sent as plain content so it actually pings, e.g. "@everyone".
	Mention  string
	Location *time.Location
}

// Service composes and delivers the reminder.
type Service struct {
	notifier notify.Notifier
	renderer *Renderer
	opts     Options

	runs briefing.RunRecorder
	now  func() time.Time
}

type ServiceOption func(*Service)

// WithRunRecorder stores a RunRecord after each Run.
func WithRunRecorder(r briefing.RunRecorder) ServiceOption {
	return func(s *Service) { s.runs = r }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

func NewService(n notify.Notifier, opts Options, options ...ServiceOption) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	s := &Service{
		notifier: n,
		renderer: NewRenderer(),
		opts:     opts,
		now:      time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Compose builds today's reminder message.
func (s *Service) Compose() (notify.Message, error) {
	body, err := s.renderer.Render(s.now().In(s.opts.Location), s.opts.Items)
	if err != nil {
		return notify.Message{}, err
	}
	return notify.Message{
		Content: s.opts.Mention,
		Title:   Title,
		Body:    body,
		Footer:  Footer,
		Color:   Color,
	}, nil
}

// Run delivers exactly one reminder. Errors are delivery failures or
// cancellation before delivery.
func (s *Service) Run(ctx context.Context) (briefing.RunRecord, error) {
	record := briefing.RunRecord{ID: uuid.NewString(), Kind: briefing.KindReminder, StartedAt: s.now().UTC()}
	log := logger.Log.WithField("run_id", record.ID).WithField("kind", record.Kind)

	msg, err := s.Compose()
	if err != nil {
		return s.finish(log, record, briefing.OutcomeDeliveryFailed, err)
	}
	if err := ctx.Err(); err != nil {
		return s.finish(log, record, briefing.OutcomeCancelled, err)
	}
	if err := notify.Deliver(ctx, s.notifier, msg); err != nil {
		return s.finish(log, record, briefing.OutcomeDeliveryFailed, err)
	}
	return s.finish(log, record, briefing.OutcomeDelivered, nil)
}

func (s *Service) finish(log *logger.Entry, record briefing.RunRecord, outcome briefing.Outcome, err error) (briefing.RunRecord, error) {
	record.FinishedAt = s.now().UTC()
	record.Outcome = outcome
	if err != nil {
		record.Error = err.Error()
		log.Errorf("Reminder run failed: %v", err)
	} else {
		log.WithField("items", len(s.opts.Items)).Info("Reminder delivered")
	}
	if s.runs != nil {
		s.runs.SaveRun(record)
	}
	return record, err
}
