package tasks

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mk1shan/portfolio/app/database"
	"github.com/mk1shan/portfolio/app/feed"
	"github.com/mk1shan/portfolio/app/metrics"
)

// FetchFeedTask performs the single fetch owned by a writing view and
// delivers the outcome back to it.
type FetchFeedTask struct {
	Task
	viewCtx    context.Context
	source     feed.Source
	backfiller *feed.Backfiller
	recorder   FetchRecorder
	label      string
	deliver    func(feed.Result)

	entries    []feed.Entry
	previews   map[string]string
	finishOnce sync.Once
}

type FetchFeedTaskOptions struct {
	Source     feed.Source
	Backfiller *feed.Backfiller
	Recorder   FetchRecorder
	Label      string
	MaxRetries int
}

func NewFetchFeedTask(viewCtx context.Context, viewID string, deliver func(feed.Result), opts FetchFeedTaskOptions) *FetchFeedTask {
	return &FetchFeedTask{
		Task:       NewTask(TaskTypeFetchFeed, viewID, opts.MaxRetries),
		viewCtx:    viewCtx,
		source:     opts.Source,
		backfiller: opts.Backfiller,
		recorder:   opts.Recorder,
		label:      opts.Label,
		deliver:    deliver,
	}
}

func (t *FetchFeedTask) Execute(ctx context.Context) error {
	if err := t.viewCtx.Err(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(t.viewCtx, cancel)
	defer stop()

	entries, err := t.source.Fetch(ctx)
	if err != nil {
		return err
	}

	if t.backfiller != nil {
		t.previews = t.backfiller.Run(ctx, entries)
	}
	t.entries = entries

	return nil
}

// CanRetry stops retrying once the owning view is gone.
func (t *FetchFeedTask) CanRetry() bool {
	if t.viewCtx.Err() != nil {
		return false
	}
	return t.Task.CanRetry()
}

func (t *FetchFeedTask) Finish(err error) {
	t.finishOnce.Do(func() {
		t.finish(err)
	})
}

func (t *FetchFeedTask) finish(err error) {
	sourceName := t.source.Name()
	duration := t.GetDuration()

	var result feed.Result
	outcome := database.OutcomeOK
	errText := ""

	switch {
	case t.viewCtx.Err() != nil:
		outcome = database.OutcomeCancelled
		if err != nil {
			errText = err.Error()
		}
		result.Err = feed.AsFetchError(t.label, context.Cause(t.viewCtx))
	case err != nil:
		fe := feed.AsFetchError(t.label, err)
		outcome = string(fe.Kind)
		errText = fe.Error()
		result.Err = fe
	default:
		result.Entries = t.entries
		result.Previews = t.previews
	}

	metrics.RecordFetch(sourceName, outcome, duration.Seconds(), len(t.entries))

	if t.recorder != nil {
		record := database.FetchRecord{
			ViewID:    t.Subject,
			Source:    sourceName,
			Outcome:   outcome,
			Entries:   len(t.entries),
			Attempts:  t.RetryCount + 1,
			Duration:  duration,
			Error:     errText,
			FetchedAt: time.Now().UTC(),
		}
		if recErr := t.recorder.RecordFetch(record); recErr != nil {
			slog.Warn("Failed to record fetch", "view", t.Subject, "error", recErr)
		}
	}

	slog.Info("Task completed",
		"type", "FetchFeed",
		"view", t.Subject,
		"source", sourceName,
		"outcome", outcome,
		"entries", len(t.entries),
		"attempts", t.RetryCount+1,
		"duration", duration)

	if t.deliver != nil {
		t.deliver(result)
	}
}
