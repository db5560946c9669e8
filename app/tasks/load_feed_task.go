package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/bill-comb/app/metrics"
)

// LoadFeedTask reads one feed file and replaces its stored bill collection.
type LoadFeedTask struct {
	Task
	loader BillLoader
	store  BillStore
}

func NewLoadFeedTask(feedName string, loader BillLoader, store BillStore) *LoadFeedTask {
	return &LoadFeedTask{
		Task:   NewTask(TaskTypeLoadFeed, feedName),
		loader: loader,
		store:  store,
	}
}

func (t *LoadFeedTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	start := time.Now()

	bills, err := t.loader.Load(t.FeedName)
	if err != nil {
		metrics.RecordFeedLoad(t.FeedName, time.Since(start), 0, err)
		if recordErr := t.store.RecordLoadFailure(t.FeedName, err.Error(), time.Now().UTC()); recordErr != nil {
			slog.Error("Failed to record load failure", "feed", t.FeedName, "error", recordErr)
		}
		return fmt.Errorf("failed to load feed: %w", err)
	}

	if err := t.store.ReplaceFeedBills(t.FeedName, bills, time.Now().UTC()); err != nil {
		metrics.RecordFeedLoad(t.FeedName, time.Since(start), 0, err)
		return fmt.Errorf("failed to store bills: %w", err)
	}

	metrics.RecordFeedLoad(t.FeedName, time.Since(start), len(bills), nil)

	slog.Info("Feed loaded", "feed", t.FeedName, "bills", len(bills), "duration", time.Since(start).String())

	return nil
}
