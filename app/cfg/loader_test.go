package cfg

import (
	"testing"
	"time"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}

	version := GetVersion()
	if version != "dev" && version != "unknown" {
		t.Logf("Version: %s", version)
	}
}

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs([]string{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.FeedSource != "rss2json" {
		t.Errorf("Expected feed source 'rss2json', got '%s'", cfg.FeedSource)
	}
	if cfg.FeedServiceURL != "https://api.rss2json.com/v1/api.json" {
		t.Errorf("Unexpected feed service URL '%s'", cfg.FeedServiceURL)
	}
	if cfg.FeedURL != "https://medium.com/feed/@mudipakishanimayanga" {
		t.Errorf("Unexpected feed URL '%s'", cfg.FeedURL)
	}
	if cfg.FeedHomeURL != "https://medium.com/@mudipakishanimayanga" {
		t.Errorf("Unexpected feed home URL '%s'", cfg.FeedHomeURL)
	}
	if cfg.FeedLabel != "Medium" {
		t.Errorf("Expected feed label 'Medium', got '%s'", cfg.FeedLabel)
	}
	if cfg.FetchTimeout != 15*time.Second {
		t.Errorf("Expected fetch timeout 15s, got %v", cfg.FetchTimeout)
	}
	if cfg.FetchRetries != 0 {
		t.Errorf("Expected no retries by default, got %d", cfg.FetchRetries)
	}
	if cfg.RenderWait != 1500*time.Millisecond {
		t.Errorf("Expected render wait 1.5s, got %v", cfg.RenderWait)
	}
	if cfg.ViewTTL != 5*time.Minute {
		t.Errorf("Expected view TTL 5m, got %v", cfg.ViewTTL)
	}
	if cfg.FetchLogRetention != 720*time.Hour {
		t.Errorf("Expected fetch log retention 720h, got %v", cfg.FetchLogRetention)
	}
	if cfg.ExtractContent {
		t.Error("Expected content extraction to be disabled by default")
	}

	if Get() != cfg {
		t.Error("Expected Get to return the loaded configuration")
	}
}

func TestLoadArgsOverrides(t *testing.T) {
	cfg, err := LoadArgs([]string{
		"--port", "9090",
		"--feed-source", "direct",
		"--fetch-retries", "2",
		"--fetch-min-interval", "250",
		"--extract-content",
		"--debug",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Expected port '9090', got '%s'", cfg.Port)
	}
	if cfg.FeedSource != "direct" {
		t.Errorf("Expected feed source 'direct', got '%s'", cfg.FeedSource)
	}
	if cfg.FetchRetries != 2 {
		t.Errorf("Expected 2 retries, got %d", cfg.FetchRetries)
	}
	if cfg.FetchMinInterval != 250*time.Millisecond {
		t.Errorf("Expected min interval 250ms, got %v", cfg.FetchMinInterval)
	}
	if !cfg.ExtractContent {
		t.Error("Expected content extraction to be enabled")
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
}

func TestLoadArgsRejectsUnknownSource(t *testing.T) {
	if _, err := LoadArgs([]string{"--feed-source", "scraper"}); err == nil {
		t.Error("Expected error for unsupported feed source")
	}
}

func TestLoadArgsRejectsNegativeValues(t *testing.T) {
	if _, err := LoadArgs([]string{"--fetch-retries=-1"}); err == nil {
		t.Error("Expected error for negative retries")
	}
	if _, err := LoadArgs([]string{"--worker-count", "0"}); err == nil {
		t.Error("Expected error for zero workers")
	}
}
