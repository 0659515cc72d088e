package cfg

import "time"

type Cfg struct {
	// HTTP server
	Port         string
	BaseUrl      string
	APIAccessKey string

	// Portfolio content
	ProfileFile string

	// Writing feed
	FeedSource       string
	FeedServiceURL   string
	FeedURL          string
	FeedHomeURL      string
	FeedLabel        string
	FetchTimeout     time.Duration
	FetchRetries     int
	FetchMinInterval time.Duration
	ExtractContent   bool

	// Views
	RenderWait time.Duration
	ViewTTL    time.Duration
	MaxViews   int

	// Background processing
	DBPath            string
	WorkerCount       int
	SchedulerInterval time.Duration
	FetchLogRetention time.Duration

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
