package notify

import (
	"context"
	"fmt"
	"io"
	"os"
)

// ConsoleNotifier prints messages instead of sending them anywhere.
type ConsoleNotifier struct {
	w io.Writer
}

func NewConsoleNotifier(w io.Writer) *ConsoleNotifier {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleNotifier{w: w}
}

func (c *ConsoleNotifier) WithSession(ctx context.Context, fn func(Session) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(c)
}

func (c *ConsoleNotifier) Send(_ context.Context, msg Message) error {
	_, err := fmt.Fprintln(c.w, msg.Text())
	return err
}
