package tasks

import (
	"context"
	"fmt"

	"github.com/mk1shan/portfolio/app/feed"
)

var _ feed.Dispatcher = (*FetchDispatcher)(nil)

// FetchDispatcher turns view activations into FetchFeedTasks on the scheduler.
type FetchDispatcher struct {
	scheduler TaskSchedulerInterface
	opts      FetchFeedTaskOptions
}

func NewFetchDispatcher(scheduler TaskSchedulerInterface, opts FetchFeedTaskOptions) *FetchDispatcher {
	return &FetchDispatcher{
		scheduler: scheduler,
		opts:      opts,
	}
}

func (d *FetchDispatcher) Dispatch(ctx context.Context, viewID string, deliver func(feed.Result)) error {
	task := NewFetchFeedTask(ctx, viewID, deliver, d.opts)
	if err := d.scheduler.EnqueueTask(task); err != nil {
		_, connect := feed.Messages(d.opts.Label)
		return &feed.FetchError{
			Kind:    feed.KindTransport,
			Message: connect,
			Err:     fmt.Errorf("failed to enqueue fetch for view %s: %w", viewID, err),
		}
	}
	return nil
}
