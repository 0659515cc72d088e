package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const maxResponseSize = 10 * 1024 * 1024

type ClientOptions struct {
	HTTPClient  *http.Client
	UserAgent   string
	Label       string
	Timeout     time.Duration
	MinInterval time.Duration
}

// Rss2JSONClient reads the feed through a feed-to-JSON conversion service.
type Rss2JSONClient struct {
	serviceURL string
	feedURL    string
	httpClient *http.Client
	userAgent  string
	label      string
	timeout    time.Duration
	limiter    *rate.Limiter
}

var _ Source = (*Rss2JSONClient)(nil)

func NewRss2JSONClient(serviceURL, feedURL string, opts ClientOptions) *Rss2JSONClient {
	return &Rss2JSONClient{
		serviceURL: serviceURL,
		feedURL:    feedURL,
		httpClient: httpClientOrDefault(opts.HTTPClient),
		userAgent:  opts.UserAgent,
		label:      opts.Label,
		timeout:    opts.Timeout,
		limiter:    newLimiter(opts.MinInterval),
	}
}

func (c *Rss2JSONClient) Name() string {
	return "rss2json"
}

func (c *Rss2JSONClient) Fetch(ctx context.Context) ([]Entry, error) {
	requestURL, err := c.requestURL()
	if err != nil {
		return nil, newTransportError(c.label, err)
	}

	body, status, err := get(ctx, c.httpClient, c.limiter, c.timeout, requestURL, c.userAgent)
	if err != nil {
		return nil, newTransportError(c.label, err)
	}

	var envelope Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, newMalformedError(c.label, fmt.Errorf("failed to decode response (HTTP %d): %w", status, err))
	}

	if envelope.Status != StatusOK {
		return nil, newUpstreamError(fmt.Errorf("service status %q (HTTP %d): %s", envelope.Status, status, envelope.Message))
	}

	if envelope.Items == nil {
		envelope.Items = []Entry{}
	}

	slog.Debug("Feed fetched", "source", c.Name(), "items", len(envelope.Items))

	return envelope.Items, nil
}

func (c *Rss2JSONClient) requestURL() (string, error) {
	u, err := url.Parse(c.serviceURL)
	if err != nil {
		return "", fmt.Errorf("invalid feed service URL: %w", err)
	}
	q := u.Query()
	q.Set("rss_url", c.feedURL)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func get(ctx context.Context, client *http.Client, limiter *rate.Limiter, timeout time.Duration, target, userAgent string) ([]byte, int, error) {
	if err := limiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("rate limiter: %w", err)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, resp.StatusCode, nil
}

func newLimiter(minInterval time.Duration) *rate.Limiter {
	if minInterval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(minInterval), 1)
}

func httpClientOrDefault(client *http.Client) *http.Client {
	if client != nil {
		return client
	}
	return &http.Client{}
}
