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
	taskQueueSize = 300
	taskTimeout   = 5 * time.Minute
)

type Scheduler struct {
	lister      FeedLister
	loader      BillLoader
	store       BillStore
	interval    time.Duration
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

func NewScheduler(lister FeedLister, loader BillLoader, store BillStore, interval time.Duration, workerCount int) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	if workerCount < 1 {
		workerCount = 1
	}

	return &Scheduler{
		lister:      lister,
		loader:      loader,
		store:       store,
		interval:    interval,
		workerCount: workerCount,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, taskQueueSize),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.enqueueTasks()

		if s.interval <= 0 {
			<-s.ctx.Done()
			return
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
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

// LoadFeed queues a load of a single feed.
func (s *Scheduler) LoadFeed(name string) error {
	return s.EnqueueTask(NewLoadFeedTask(name, s.loader, s.store))
}

func (s *Scheduler) enqueueTasks() {
	names, err := s.lister.List()
	if err != nil {
		slog.Error("Failed to list feeds", "error", err)
		return
	}
	if len(names) == 0 {
		slog.Debug("No feed files found")
		return
	}

	slog.Debug("Scheduling feed loads", "count", len(names))

	for _, name := range names {
		if err := s.LoadFeed(name); err != nil {
			slog.Warn("Failed to enqueue LoadFeedTask", "feed", name, "error", err)
		}
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

	taskCtx, cancel := context.WithTimeout(s.ctx, taskTimeout)
	defer cancel()

	if err := task.Execute(taskCtx); err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "feed", task.GetFeedName(), "id", task.GetID(), "error", err)
		return
	}

	slog.Debug("Worker task completed", "worker_id", workerID, "type", string(task.GetType()), "feed", task.GetFeedName(), "duration", task.GetDuration().String())
}
