package feed

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"
)

// PubDateLayout matches the timestamp format of the feed-to-JSON service.
const PubDateLayout = "2006-01-02 15:04:05"

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses an RSS/Atom document into entries shaped like the service output.
func (p *Parser) Run(data []byte) (*Metadata, []Entry, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	metadata := &Metadata{
		URL:         parsed.FeedLink,
		Title:       parsed.Title,
		Link:        parsed.Link,
		Description: parsed.Description,
	}
	if parsed.Image != nil {
		metadata.Image = parsed.Image.URL
	}
	if parsed.Author != nil {
		metadata.Author = parsed.Author.Name
	}

	entries := make([]Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, p.normalizeItem(item))
	}

	return metadata, entries, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) Entry {
	entry := Entry{
		GUID:        cmp.Or(item.GUID, item.Link),
		Title:       item.Title,
		Link:        item.Link,
		Description: cmp.Or(item.Content, item.Description),
		Content:     item.Content,
		Author:      p.extractAuthor(item),
		Thumbnail:   p.extractThumbnail(item),
		Categories:  []string{},
	}

	if item.PublishedParsed != nil {
		entry.PubDate = item.PublishedParsed.UTC().Format(PubDateLayout)
	} else if item.UpdatedParsed != nil {
		entry.PubDate = item.UpdatedParsed.UTC().Format(PubDateLayout)
	} else {
		entry.PubDate = cmp.Or(item.Published, item.Updated)
	}

	if item.Categories != nil {
		entry.Categories = item.Categories
	}

	return entry
}

func (p *Parser) extractAuthor(item *gofeed.Item) string {
	if item.Author != nil && strings.TrimSpace(item.Author.Name) != "" {
		return strings.TrimSpace(item.Author.Name)
	}
	for _, author := range item.Authors {
		if author != nil && strings.TrimSpace(author.Name) != "" {
			return strings.TrimSpace(author.Name)
		}
	}
	if item.DublinCoreExt != nil && len(item.DublinCoreExt.Creator) > 0 {
		return strings.TrimSpace(item.DublinCoreExt.Creator[0])
	}
	return ""
}

func (p *Parser) extractThumbnail(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}

	for _, enclosure := range item.Enclosures {
		if enclosure != nil && enclosure.URL != "" && strings.HasPrefix(enclosure.Type, "image/") {
			return enclosure.URL
		}
	}

	if media, ok := item.Extensions["media"]; ok {
		for _, name := range []string{"thumbnail", "content"} {
			for _, ext := range media[name] {
				if u := ext.Attrs["url"]; u != "" {
					return u
				}
			}
		}
	}

	return ""
}

// DirectClient reads the upstream RSS feed itself instead of going through
// the conversion service.
type DirectClient struct {
	feedURL    string
	parser     *Parser
	httpClient *http.Client
	userAgent  string
	label      string
	timeout    time.Duration
	limiter    *rate.Limiter
}

var _ Source = (*DirectClient)(nil)

func NewDirectClient(feedURL string, opts ClientOptions) *DirectClient {
	return &DirectClient{
		feedURL:    feedURL,
		parser:     NewParser(),
		httpClient: httpClientOrDefault(opts.HTTPClient),
		userAgent:  opts.UserAgent,
		label:      opts.Label,
		timeout:    opts.Timeout,
		limiter:    newLimiter(opts.MinInterval),
	}
}

func (c *DirectClient) Name() string {
	return "direct"
}

func (c *DirectClient) Fetch(ctx context.Context) ([]Entry, error) {
	body, status, err := get(ctx, c.httpClient, c.limiter, c.timeout, c.feedURL, c.userAgent)
	if err != nil {
		return nil, newTransportError(c.label, err)
	}

	if status < 200 || status > 299 {
		return nil, newUpstreamError(fmt.Errorf("HTTP error: %d", status))
	}

	_, entries, err := c.parser.Run(body)
	if err != nil {
		return nil, newMalformedError(c.label, err)
	}

	slog.Debug("Feed fetched", "source", c.Name(), "items", len(entries))

	return entries, nil
}
