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
	defaultQueueSize  = 300
	defaultTaskTimeout = 5 * time.Minute
	maxRetryDelay     = 30 * time.Second
)

type SchedulerOptions struct {
	WorkerCount int
	// Interval between full cache refreshes; zero disables warming.
	Interval time.Duration
	// MaxArticles is passed to every refresh.
	MaxArticles int
	RetryDelay  time.Duration
}

type Scheduler struct {
	refresher   Refresher
	categories  []string
	maxArticles int
	interval    time.Duration
	workerCount int
	retryDelay  time.Duration
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

func NewScheduler(refresher Refresher, categories []string, opts SchedulerOptions) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	if opts.WorkerCount <= 0 {
		opts.WorkerCount = 1
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = time.Second
	}

	return &Scheduler{
		refresher:   refresher,
		categories:  categories,
		maxArticles: opts.MaxArticles,
		interval:    opts.Interval,
		workerCount: opts.WorkerCount,
		retryDelay:  opts.RetryDelay,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, defaultQueueSize),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	if s.interval <= 0 {
		slog.Debug("Cache warming disabled")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueRefreshTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueRefreshTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
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
	default:
		return fmt.Errorf("task queue is full")
	}
}

// RefreshCategory queues a refresh of one category and returns the task ID.
func (s *Scheduler) RefreshCategory(category string) (string, error) {
	task := NewRefreshCategoryTask(category, s.refresher, s.maxArticles)
	if err := s.EnqueueTask(task); err != nil {
		return "", err
	}
	return task.GetID(), nil
}

func (s *Scheduler) enqueueRefreshTasks() {
	if len(s.categories) == 0 {
		slog.Debug("No categories configured")
		return
	}

	slog.Debug("Scheduling category refreshes", "count", len(s.categories))

	for _, category := range s.categories {
		if _, err := s.RefreshCategory(category); err != nil {
			slog.Warn("Failed to enqueue RefreshCategoryTask", "category", category, "error", err)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
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
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.CanRetry() {
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		return
	}

	task.IncrementRetryCount()
	retryDelay := s.retryDelayFor(task.GetRetryCount())

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "category", task.GetCategory(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

	// Tracked so Stop never closes the queue under a pending retry.
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(retryDelay)
		defer timer.Stop()

		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
		case <-timer.C:
			if retryErr := s.EnqueueTask(task); retryErr != nil {
				slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
			}
		}
	}()
}

// retryDelayFor doubles the base delay per attempt, capped at 30s.
func (s *Scheduler) retryDelayFor(retryCount int) time.Duration {
	delay := s.retryDelay << uint(retryCount-1)
	if delay > maxRetryDelay || delay <= 0 {
		delay = maxRetryDelay
	}
	return delay
}
