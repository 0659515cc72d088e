package database

import (
	"time"
)

const (
	OutcomeOK        = "ok"
	OutcomeCancelled = "cancelled"
)

// FetchRecord describes one finished feed fetch. Entry content is never stored.
type FetchRecord struct {
	ID        int64
	ViewID    string
	Source    string
	Outcome   string // ok, transport, malformed, upstream, cancelled
	Entries   int
	Attempts  int
	Duration  time.Duration
	Error     string
	FetchedAt time.Time
}

type FetchStats struct {
	Total         int
	ByOutcome     map[string]int
	AvgDuration   time.Duration
	LastFetchedAt *time.Time
}
