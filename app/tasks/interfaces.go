package tasks

import (
	"time"

	"github.com/mk1shan/portfolio/app/database"
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application and the fetch dispatcher to run background work.
// Example usage:
//
//	scheduler := NewScheduler(fetchRepo, SchedulerOptions{Workers: 4, Interval: time.Hour})
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewPruneFetchLogTask(fetchRepo, retention))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

// FetchRecorder persists fetch outcomes. Satisfied by database.FetchRepository.
type FetchRecorder interface {
	RecordFetch(record database.FetchRecord) error
}

// FetchPruner removes old fetch outcomes. Satisfied by database.FetchRepository.
type FetchPruner interface {
	DeleteFetchesBefore(cutoff time.Time) (int64, error)
}
