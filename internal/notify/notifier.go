package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/i474232898/morning-briefing/internal/common"
)

// Message is the final payload. Body is never empty once composed.
type Message struct {
	// Content is plain text sent alongside the embed, e.g. a mention.
	Content string `json:"content,omitempty"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	Footer  string `json:"footer,omitempty"`
	// Color of the embed; zero uses the notifier default.
	Color int `json:"color,omitempty"`
}

// Text renders the plain-text form of the message.
func (m Message) Text() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{m.Content, m.Title, m.Body, m.Footer} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Session is an open connection to the destination.
type Session interface {
	Send(ctx context.Context, msg Message) error
}

// Notifier hands out scoped sessions. WithSession acquires a session, calls
// fn with it and releases the session on every exit path.
type Notifier interface {
	WithSession(ctx context.Context, fn func(Session) error) error
}

// Deliver sends exactly one message in a single session. Failures wrap
// common.ErrDeliveryFailed; nothing is retried.
func Deliver(ctx context.Context, n Notifier, msg Message) error {
	err := n.WithSession(ctx, func(s Session) error {
		return s.Send(ctx, msg)
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, common.ErrDeliveryFailed) {
		return err
	}
	return fmt.Errorf("%w: %v", common.ErrDeliveryFailed, err)
}
