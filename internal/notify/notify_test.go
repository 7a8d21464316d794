package notify

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/morning-briefing/internal/common"
)

type fakeDiscord struct {
	openErr error
	sendErr error

	opened   int
	closed   int
	channel  string
	contents []string
	embeds   []*discordgo.MessageEmbed
}

func (f *fakeDiscord) Open() error {
	f.opened++
	return f.openErr
}

func (f *fakeDiscord) Close() error {
	f.closed++
	return nil
}

func (f *fakeDiscord) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.channel = channelID
	f.contents = append(f.contents, data.Content)
	f.embeds = append(f.embeds, data.Embeds...)
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return &discordgo.Message{ID: "1"}, nil
}

func newFakeNotifier(api *fakeDiscord) *DiscordNotifier {
	n := NewDiscordNotifier("token", "chan-1", nil)
	n.newSession = func() (discordAPI, error) { return api, nil }
	return n
}

var msg = Message{Title: "☀️ Morning Briefing", Body: "Good morning!", Footer: "powered by OpenWeather"}

func TestDiscordDeliver(t *testing.T) {
	api := &fakeDiscord{}
	require.NoError(t, Deliver(context.Background(), newFakeNotifier(api), msg))

	assert.Equal(t, 1, api.opened)
	assert.Equal(t, 1, api.closed)
	assert.Equal(t, "chan-1", api.channel)
	require.Len(t, api.embeds, 1)

	embed := api.embeds[0]
	assert.Equal(t, msg.Title, embed.Title)
	assert.Equal(t, msg.Body, embed.Description)
	assert.Equal(t, embedColor, embed.Color)
	require.NotNil(t, embed.Footer)
	assert.Equal(t, msg.Footer, embed.Footer.Text)
	assert.Equal(t, []string{""}, api.contents)
}

func TestDiscordDeliverWithMentionAndColor(t *testing.T) {
	api := &fakeDiscord{}
	reminder := Message{
		Content: "@everyone",
		Title:   "📌 Today's schedule",
		Body:    "・10:00 Team meeting",
		Footer:  "powered by ScheduleBot",
		Color:   0xf1c40f,
	}

	require.NoError(t, Deliver(context.Background(), newFakeNotifier(api), reminder))

	assert.Equal(t, []string{"@everyone"}, api.contents)
	require.Len(t, api.embeds, 1)
	assert.Equal(t, 0xf1c40f, api.embeds[0].Color)
	assert.Equal(t, reminder.Title, api.embeds[0].Title)
	assert.Equal(t, 1, api.closed)
}

func TestDiscordSendFailureStillCloses(t *testing.T) {
	api := &fakeDiscord{sendErr: errors.New("403 Forbidden")}

	err := Deliver(context.Background(), newFakeNotifier(api), msg)
	require.ErrorIs(t, err, common.ErrDeliveryFailed)
	assert.Equal(t, 1, api.closed)
	assert.Len(t, api.embeds, 1)
}

func TestDiscordOpenFailure(t *testing.T) {
	api := &fakeDiscord{openErr: errors.New("invalid token")}

	err := Deliver(context.Background(), newFakeNotifier(api), msg)
	require.ErrorIs(t, err, common.ErrDeliveryFailed)
	assert.Empty(t, api.embeds)
	assert.Zero(t, api.closed)
}

func TestDiscordSessionFactoryFailure(t *testing.T) {
	n := NewDiscordNotifier("token", "chan-1", nil)
	n.newSession = func() (discordAPI, error) { return nil, errors.New("bad token") }

	err := Deliver(context.Background(), n, msg)
	require.ErrorIs(t, err, common.ErrDeliveryFailed)
}

func TestDiscordCancelledBeforeSession(t *testing.T) {
	api := &fakeDiscord{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Deliver(ctx, newFakeNotifier(api), msg)
	require.ErrorIs(t, err, common.ErrDeliveryFailed)
	assert.Zero(t, api.opened)
}

func TestWithSessionClosesOnPanic(t *testing.T) {
	api := &fakeDiscord{}
	n := newFakeNotifier(api)

	assert.Panics(t, func() {
		_ = n.WithSession(context.Background(), func(Session) error {
			panic("boom")
		})
	})
	assert.Equal(t, 1, api.closed)
}

func TestDiscordTruncatesLongBody(t *testing.T) {
	api := &fakeDiscord{}
	long := Message{Title: "t", Body: strings.Repeat("雨", maxEmbedDescription+10)}

	require.NoError(t, Deliver(context.Background(), newFakeNotifier(api), long))
	assert.Len(t, []rune(api.embeds[0].Description), maxEmbedDescription)
}

func TestConsoleNotifier(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Deliver(context.Background(), NewConsoleNotifier(&buf), msg))
	assert.Equal(t, "☀️ Morning Briefing\n\nGood morning!\n\npowered by OpenWeather\n", buf.String())
}

func TestMessageText(t *testing.T) {
	assert.Equal(t, "body", Message{Body: "body"}.Text())
	assert.Equal(t, "@everyone\n\ntitle\n\nbody", Message{Content: "@everyone", Title: "title", Body: "body"}.Text())
}
