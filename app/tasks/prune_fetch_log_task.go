package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type PruneFetchLogTask struct {
	Task
	pruner    FetchPruner
	retention time.Duration
}

func NewPruneFetchLogTask(pruner FetchPruner, retention time.Duration) *PruneFetchLogTask {
	return &PruneFetchLogTask{
		Task:      NewTask(TaskTypePruneFetchLog, "fetch_log", 1),
		pruner:    pruner,
		retention: retention,
	}
}

func (t *PruneFetchLogTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	cutoff := time.Now().UTC().Add(-t.retention)

	deleted, err := t.pruner.DeleteFetchesBefore(cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune fetch log: %w", err)
	}

	slog.Info("Task completed",
		"type", "PruneFetchLog",
		"cutoff", cutoff,
		"deleted", deleted,
		"duration", t.GetDuration())

	return nil
}
