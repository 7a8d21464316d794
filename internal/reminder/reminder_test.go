package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/morning-briefing/internal/briefing"
	"github.com/i474232898/morning-briefing/internal/common"
	"github.com/i474232898/morning-briefing/internal/notify"
)

var jst = time.FixedZone("JST", 9*60*60)

// 23:30 UTC on the 18th is already the 19th in Tokyo.
var lateUTC = time.Date(2026, time.October, 18, 23, 30, 0, 0, time.UTC)

type recordingNotifier struct {
	sendErr  error
	sessions int
	messages []notify.Message
}

func (r *recordingNotifier) WithSession(_ context.Context, fn func(notify.Session) error) error {
	r.sessions++
	return fn(r)
}

func (r *recordingNotifier) Send(_ context.Context, msg notify.Message) error {
	r.messages = append(r.messages, msg)
	return r.sendErr
}

type recorder struct {
	records []briefing.RunRecord
}

func (r *recorder) SaveRun(rec briefing.RunRecord) {
	r.records = append(r.records, rec)
}

func newService(n notify.Notifier, items []string, runs briefing.RunRecorder) *Service {
	return NewService(n,
		Options{Items: items, Mention: "@everyone", Location: jst},
		WithRunRecorder(runs),
		WithClock(func() time.Time { return lateUTC }),
	)
}

func TestRender(t *testing.T) {
	body, err := NewRenderer().Render(lateUTC.In(jst), []string{"10:00 Team meeting", "13:00 Lunch meeting"})
	require.NoError(t, err)
	assert.Equal(t, "📅 Schedule for 2026/10/19\n・10:00 Team meeting\n・13:00 Lunch meeting\n", body)
}

func TestRenderWithoutItems(t *testing.T) {
	body, err := NewRenderer().Render(lateUTC, nil)
	require.NoError(t, err)
	assert.Equal(t, "📅 Schedule for 2026/10/18\n・"+EmptyText+"\n", body)
}

func TestCompose(t *testing.T) {
	s := newService(&recordingNotifier{}, []string{"16:00 Client call"}, nil)

	msg, err := s.Compose()
	require.NoError(t, err)
	assert.Equal(t, "@everyone", msg.Content)
	assert.Equal(t, Title, msg.Title)
	assert.Equal(t, Footer, msg.Footer)
	assert.Equal(t, Color, msg.Color)
	assert.Contains(t, msg.Body, "2026/10/19")
	assert.Contains(t, msg.Body, "・16:00 Client call")
}

func TestRunDelivers(t *testing.T) {
	n := &recordingNotifier{}
	runs := &recorder{}

	rec, err := newService(n, []string{"10:00 Standup"}, runs).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, briefing.KindReminder, rec.Kind)
	assert.Equal(t, briefing.OutcomeDelivered, rec.Outcome)
	assert.Equal(t, 1, n.sessions)
	require.Len(t, n.messages, 1)
	assert.Equal(t, "@everyone", n.messages[0].Content)
	require.Len(t, runs.records, 1)
	assert.Equal(t, rec, runs.records[0])
}

func TestRunDeliveryFailure(t *testing.T) {
	n := &recordingNotifier{sendErr: errors.New("missing permissions")}
	runs := &recorder{}

	rec, err := newService(n, nil, runs).Run(context.Background())

	require.ErrorIs(t, err, common.ErrDeliveryFailed)
	assert.Equal(t, briefing.OutcomeDeliveryFailed, rec.Outcome)
	assert.Contains(t, rec.Error, "missing permissions")
	require.Len(t, runs.records, 1)
}

func TestRunCancelled(t *testing.T) {
	n := &recordingNotifier{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec, err := newService(n, nil, nil).Run(ctx)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, briefing.OutcomeCancelled, rec.Outcome)
	assert.Zero(t, n.sessions)
}
