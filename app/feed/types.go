package feed

import "context"

// Entry is one article record as published by the feed service.
// Entries are treated as immutable once received.
type Entry struct {
	Title       string   `json:"title"`
	PubDate     string   `json:"pubDate"`
	Link        string   `json:"link"`
	GUID        string   `json:"guid"`
	Author      string   `json:"author"`
	Thumbnail   string   `json:"thumbnail"`
	Description string   `json:"description"`
	Content     string   `json:"content,omitempty"`
	Categories  []string `json:"categories"`
}

// Envelope is the JSON document returned by the feed-to-JSON service.
type Envelope struct {
	Status  string    `json:"status"`
	Message string    `json:"message,omitempty"`
	Feed    *Metadata `json:"feed,omitempty"`
	Items   []Entry   `json:"items"`
}

type Metadata struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Link        string `json:"link"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

const StatusOK = "ok"

// Source retrieves the current list of entries. A non-nil error is always a *FetchError.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]Entry, error)
}

// Result is what a dispatched fetch delivers back to its view.
type Result struct {
	Entries []Entry
	// Previews holds backfilled preview text keyed by entry GUID.
	Previews map[string]string
	Err      *FetchError
}

// Dispatcher runs the fetch for a view and calls deliver exactly once,
// unless ctx is cancelled first.
type Dispatcher interface {
	Dispatch(ctx context.Context, viewID string, deliver func(Result)) error
}
