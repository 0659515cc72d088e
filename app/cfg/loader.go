package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// HTTP server
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl      string `long:"base-url" env:"BASE_URL" description:"Public base URL for the site (e.g., https://mudipakishan.me)"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for the fetch log endpoint (optional)"`

	// Portfolio content
	ProfileFile string `long:"profile-file" env:"PROFILE_FILE" description:"YAML file overriding the built-in profile content"`

	// Writing feed
	FeedSource       string `long:"feed-source" env:"FEED_SOURCE" default:"rss2json" choice:"rss2json" choice:"direct" description:"How the writing feed is retrieved"`
	FeedServiceURL   string `long:"feed-service-url" env:"FEED_SERVICE_URL" default:"https://api.rss2json.com/v1/api.json" description:"Feed-to-JSON conversion endpoint"`
	FeedURL          string `long:"feed-url" env:"FEED_URL" default:"https://medium.com/feed/@mudipakishanimayanga" description:"Upstream RSS feed URL"`
	FeedHomeURL      string `long:"feed-home-url" env:"FEED_HOME_URL" default:"https://medium.com/@mudipakishanimayanga" description:"Public page of the upstream feed, used as fallback link"`
	FeedLabel        string `long:"feed-label" env:"FEED_LABEL" default:"Medium" description:"Display name of the upstream publisher"`
	FetchTimeout     int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"15" description:"Feed fetch timeout in seconds"`
	FetchRetries     int    `long:"fetch-retries" env:"FETCH_RETRIES" default:"0" description:"Retries for a failed feed fetch within one view"`
	FetchMinInterval int    `long:"fetch-min-interval" env:"FETCH_MIN_INTERVAL" default:"0" description:"Minimum milliseconds between outbound feed requests (0 disables pacing)"`
	ExtractContent   bool   `long:"extract-content" env:"EXTRACT_CONTENT" description:"Fetch article pages to fill previews of entries without description"`

	// Views
	RenderWait int `long:"render-wait" env:"RENDER_WAIT" default:"1500" description:"Milliseconds a page request waits for the feed before rendering the loading state"`
	ViewTTL    int `long:"view-ttl" env:"VIEW_TTL" default:"300" description:"Seconds an open writing view is kept before it is torn down"`
	MaxViews   int `long:"max-views" env:"MAX_VIEWS" default:"1000" description:"Maximum number of open writing views"`

	// Background processing
	DBPath            string `long:"db-path" env:"DB_PATH" default:"./data/portfolio.db" description:"SQLite database file for the fetch log"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"4" description:"Number of background workers for feed fetches"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"3600" description:"Scheduler interval in seconds for housekeeping tasks"`
	FetchLogRetention int    `long:"fetch-log-retention" env:"FETCH_LOG_RETENTION" default:"720" description:"Hours of fetch log history to keep"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Portfolio/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Asia/Colombo)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	return LoadArgs(nil)
}

// LoadArgs parses args instead of os.Args when args is non-nil.
func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	var err error
	if args == nil {
		_, err = parser.Parse()
	} else {
		_, err = parser.ParseArgs(args)
	}
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:              raw.Port,
		BaseUrl:           raw.BaseUrl,
		APIAccessKey:      raw.APIAccessKey,
		ProfileFile:       raw.ProfileFile,
		FeedSource:        raw.FeedSource,
		FeedServiceURL:    raw.FeedServiceURL,
		FeedURL:           raw.FeedURL,
		FeedHomeURL:       raw.FeedHomeURL,
		FeedLabel:         raw.FeedLabel,
		FetchTimeout:      time.Duration(raw.FetchTimeout) * time.Second,
		FetchRetries:      raw.FetchRetries,
		FetchMinInterval:  time.Duration(raw.FetchMinInterval) * time.Millisecond,
		ExtractContent:    raw.ExtractContent,
		RenderWait:        time.Duration(raw.RenderWait) * time.Millisecond,
		ViewTTL:           time.Duration(raw.ViewTTL) * time.Second,
		MaxViews:          raw.MaxViews,
		DBPath:            raw.DBPath,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: time.Duration(raw.SchedulerInterval) * time.Second,
		FetchLogRetention: time.Duration(raw.FetchLogRetention) * time.Hour,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func validate(cfg *Cfg) error {
	requiredFields := map[string]string{
		"feed URL":      cfg.FeedURL,
		"feed home URL": cfg.FeedHomeURL,
	}
	if cfg.FeedSource == "rss2json" {
		requiredFields["feed service URL"] = cfg.FeedServiceURL
	}

	for fieldName, fieldValue := range requiredFields {
		if fieldValue == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
	}

	nonNegativeFields := map[string]int64{
		"fetch timeout":       int64(cfg.FetchTimeout),
		"fetch retries":       int64(cfg.FetchRetries),
		"fetch min interval":  int64(cfg.FetchMinInterval),
		"render wait":         int64(cfg.RenderWait),
		"fetch log retention": int64(cfg.FetchLogRetention),
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	if cfg.WorkerCount < 1 {
		return fmt.Errorf("worker count must be at least 1")
	}
	if cfg.MaxViews < 1 {
		return fmt.Errorf("max views must be at least 1")
	}
	if cfg.ViewTTL <= 0 {
		return fmt.Errorf("view TTL must be positive")
	}
	if cfg.SchedulerInterval <= 0 {
		return fmt.Errorf("scheduler interval must be positive")
	}

	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
