package notify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"github.com/i474232898/morning-briefing/internal/common"
	"github.com/i474232898/morning-briefing/internal/logger"
)

const (
	embedColor          = 0x1abc9c
	maxEmbedDescription = 4096
)

// discordAPI is the subset of *discordgo.Session used for delivery.
type discordAPI interface {
	Open() error
	Close() error
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordNotifier posts the briefing as an embed to one channel.
type DiscordNotifier struct {
	token      string
	channelID  string
	newSession func() (discordAPI, error)
}

// NewDiscordNotifier creates a notifier for channelID. The HTTP client's
// timeout bounds each REST call.
func NewDiscordNotifier(token, channelID string, client *http.Client) *DiscordNotifier {
	n := &DiscordNotifier{token: token, channelID: channelID}
	n.newSession = func() (discordAPI, error) {
		s, err := discordgo.New("Bot " + n.token)
		if err != nil {
			return nil, err
		}
		if client != nil {
			s.Client = client
		}
		return s, nil
	}
	return n
}

// WithSession opens the gateway connection, runs fn and always closes it.
func (n *DiscordNotifier) WithSession(ctx context.Context, fn func(Session) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrDeliveryFailed, err)
	}

	api, err := n.newSession()
	if err != nil {
		return fmt.Errorf("%w: create discord session: %v", common.ErrDeliveryFailed, err)
	}
	if err := api.Open(); err != nil {
		return fmt.Errorf("%w: open discord session: %v", common.ErrDeliveryFailed, err)
	}
	defer func() {
		if cerr := api.Close(); cerr != nil {
			logger.Log.Warnf("Failed to close discord session: %v", cerr)
		}
	}()

	return fn(&discordSession{api: api, channelID: n.channelID})
}

type discordSession struct {
	api       discordAPI
	channelID string
}

func (s *discordSession) Send(ctx context.Context, msg Message) error {
	embed := &discordgo.MessageEmbed{
		Title:       msg.Title,
		Description: truncate(msg.Body, maxEmbedDescription),
		Color:       embedColor,
	}
	if msg.Color != 0 {
		embed.Color = msg.Color
	}
	if msg.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: msg.Footer}
	}

	data := &discordgo.MessageSend{
		Content: msg.Content,
		Embeds:  []*discordgo.MessageEmbed{embed},
	}
	if _, err := s.api.ChannelMessageSendComplex(s.channelID, data, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("%w: send to channel %s: %v", common.ErrDeliveryFailed, s.channelID, err)
	}
	return nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
