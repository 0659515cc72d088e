package feed

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"codeberg.org/readeck/go-readability/v2"
	"golang.org/x/sync/errgroup"
)

const backfillConcurrency = 4

type ContentExtractor struct{}

func NewContentExtractor() *ContentExtractor {
	return &ContentExtractor{}
}

// Run extracts the readable text of an article page.
func (e *ContentExtractor) Run(data []byte, pageURL *url.URL) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("HTML data is empty")
	}

	article, err := readability.FromReader(bytes.NewReader(data), pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	var text strings.Builder
	if err := article.RenderText(&text); err != nil {
		return "", fmt.Errorf("failed to render content: %w", err)
	}

	content := normalizeWS(text.String())
	if content == "" {
		return "", fmt.Errorf("no content extracted from HTML data")
	}

	slog.Debug("Content extracted successfully", "content_length", len(content))

	return content, nil
}

// Backfiller fetches article pages for entries whose description carries no
// text and derives a preview from the readable content.
type Backfiller struct {
	extractor  *ContentExtractor
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
}

func NewBackfiller(extractor *ContentExtractor, opts ClientOptions) *Backfiller {
	return &Backfiller{
		extractor:  extractor,
		httpClient: httpClientOrDefault(opts.HTTPClient),
		userAgent:  opts.UserAgent,
		timeout:    opts.Timeout,
	}
}

// Run returns previews keyed by GUID. Failures are logged and skipped.
func (b *Backfiller) Run(ctx context.Context, entries []Entry) map[string]string {
	var candidates []Entry
	for _, entry := range entries {
		if entry.Link != "" && entry.GUID != "" && PreviewText(entry.Description) == "" {
			candidates = append(candidates, entry)
		}
	}

	previews := make(map[string]string, len(candidates))
	if len(candidates) == 0 {
		return previews
	}

	results := make([]string, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(backfillConcurrency)

	for i, entry := range candidates {
		g.Go(func() error {
			preview, err := b.previewFor(gctx, entry.Link)
			if err != nil {
				slog.Debug("Preview backfill failed", "guid", entry.GUID, "url", entry.Link, "error", err)
				return nil
			}
			results[i] = preview
			return nil
		})
	}
	_ = g.Wait()

	for i, entry := range candidates {
		if results[i] != "" {
			previews[entry.GUID] = results[i]
		}
	}

	return previews
}

func (b *Backfiller) previewFor(ctx context.Context, link string) (string, error) {
	pageURL, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("invalid link: %w", err)
	}

	data, status, err := get(ctx, b.httpClient, newLimiter(0), b.timeout, link, b.userAgent)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d", status)
	}

	content, err := b.extractor.Run(data, pageURL)
	if err != nil {
		return "", err
	}

	return truncate(content, PreviewLimit), nil
}
