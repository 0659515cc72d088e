package api

import (
	"time"

	"github.com/mk1shan/portfolio/app/database"
	"github.com/mk1shan/portfolio/app/feed"
	"github.com/mk1shan/portfolio/app/profile"
)

type ProfileProvider interface {
	Get() *profile.Profile
}

var _ ProfileProvider = (*profile.Store)(nil)

type HandlerOptions struct {
	FeedHomeURL string
	FeedLabel   string
	// RenderWait bounds how long a page request waits before rendering the loading state.
	RenderWait time.Duration
	// APIWait bounds how long a JSON request waits for the feed.
	APIWait time.Duration
	// RefreshAfter is the meta refresh delay of the loading page.
	RefreshAfter time.Duration
}

type Handler struct {
	profiles   ProfileProvider
	registry   *feed.Registry
	dispatcher feed.Dispatcher
	fetchRepo  database.FetchRepository
	opts       HandlerOptions
	startedAt  time.Time
}

// writingItem is one article in the JSON feed response.
type writingItem struct {
	feed.Card
	ContentHTML string `json:"content_html"`
}
