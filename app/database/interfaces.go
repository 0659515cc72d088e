package database

import (
	"time"
)

type FetchRepository interface {
	RecordFetch(record FetchRecord) error
	GetFetchStats(since time.Time) (*FetchStats, error)
	ListRecentFetches(limit int) ([]FetchRecord, error)
	DeleteFetchesBefore(cutoff time.Time) (int64, error)
}
