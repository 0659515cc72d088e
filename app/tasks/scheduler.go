package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

const (
	defaultQueueSize   = 300
	defaultTaskTimeout = 2 * time.Minute
	maxRetryDelay      = 30 * time.Second
)

type SchedulerOptions struct {
	Workers   int
	Interval  time.Duration
	Retention time.Duration
	QueueSize int
	// RetryBaseDelay is doubled on every retry. Defaults to one second.
	RetryBaseDelay time.Duration
}

type Scheduler struct {
	pruner         FetchPruner
	interval       time.Duration
	retention      time.Duration
	workerCount    int
	retryBaseDelay time.Duration
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	taskQueue      chan TaskInterface
}

func NewScheduler(pruner FetchPruner, opts SchedulerOptions) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.RetryBaseDelay <= 0 {
		opts.RetryBaseDelay = time.Second
	}

	return &Scheduler{
		pruner:         pruner,
		interval:       opts.Interval,
		retention:      opts.Retention,
		workerCount:    opts.Workers,
		retryBaseDelay: opts.RetryBaseDelay,
		ctx:            ctx,
		cancel:         cancel,
		taskQueue:      make(chan TaskInterface, opts.QueueSize),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	if s.pruner == nil || s.interval <= 0 || s.retention <= 0 {
		slog.Debug("Fetch log pruning disabled")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueuePrune()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueuePrune()
			}
		}
	}()
}

// Stop cancels running tasks and waits for the workers to exit.
// Tasks still queued are finished with the scheduler's error.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()

	for {
		select {
		case task := <-s.taskQueue:
			task.Finish(s.ctx.Err())
		default:
			return
		}
	}
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
	}

	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueuePrune() {
	task := NewPruneFetchLogTask(s.pruner, s.retention)
	if err := s.EnqueueTask(task); err != nil {
		slog.Warn("Failed to enqueue PruneFetchLogTask", "error", err)
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, defaultTaskTimeout)
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		task.Finish(nil)
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.CanRetry() {
		if task.GetMaxRetries() > 0 {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
		task.Finish(err)
		return
	}

	task.IncrementRetryCount()
	retryDelay := s.retryDelay(task.GetRetryCount())

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "subject", task.GetSubject(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

	go func() {
		timer := time.NewTimer(retryDelay)
		defer timer.Stop()

		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
			task.Finish(err)
			return
		case <-timer.C:
		}

		if retryErr := s.EnqueueTask(task); retryErr != nil {
			slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
			task.Finish(err)
		}
	}()
}

// retryDelay doubles the base delay per attempt, capped at maxRetryDelay.
func (s *Scheduler) retryDelay(retryCount int) time.Duration {
	if retryCount < 1 {
		retryCount = 1
	}
	delay := s.retryBaseDelay << uint(retryCount-1)
	if delay <= 0 || delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}
