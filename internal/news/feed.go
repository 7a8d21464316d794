package news

import (
	"context"
	"net/http"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/i474232898/morning-briefing/internal/common"
	"github.com/i474232898/morning-briefing/internal/logger"
)

const source = "news/feed"

// Item is one headline from the feed.
type Item struct {
	Title string `json:"title"`
	Link  string `json:"link,omitempty"`
}

// Source returns the top headlines in feed order.
type Source interface {
	FetchTop(ctx context.Context, n int) ([]Item, error)
}

// FeedSource reads an RSS or Atom feed over HTTP.
type FeedSource struct {
	url    string
	client *http.Client
	parser *gofeed.Parser
}

// NewFeedSource creates a FeedSource. The client's timeout bounds the fetch.
func NewFeedSource(client *http.Client, url string) *FeedSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &FeedSource{
		url:    url,
		client: client,
		parser: gofeed.NewParser(),
	}
}

// FetchTop downloads the feed and returns at most n entries. Transport
// failures and non-2xx responses are errors; a feed that cannot be parsed or
// has no entries yields an empty result.
func (s *FeedSource) FetchTop(ctx context.Context, n int) ([]Item, error) {
	if n <= 0 {
		return []Item{}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, common.NewSourceError(source, 0, err)
	}
	req.Header.Set("User-Agent", "morning-briefing/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, common.NewSourceError(source, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, common.NewSourceError(source, resp.StatusCode, gofeed.HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		})
	}

	feed, err := s.parser.Parse(resp.Body)
	if err != nil {
		logger.Log.WithField("url", s.url).Warnf("Failed to parse news feed: %v", err)
		return []Item{}, nil
	}

	items := make([]Item, 0, n)
	for _, entry := range feed.Items {
		if len(items) == n {
			break
		}
		if entry == nil {
			continue
		}
		title := strings.TrimSpace(entry.Title)
		if title == "" {
			continue
		}
		items = append(items, Item{Title: title, Link: strings.TrimSpace(entry.Link)})
	}
	return items, nil
}
