package tasks

import (
	"github.com/lysyi3m/bill-comb/app/bill"
	"github.com/lysyi3m/bill-comb/app/database"
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by main to run background loading and by the API to request reloads.
//
//	scheduler := NewScheduler(source, loader, repo, interval, workers)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewLoadFeedTask("senate", loader, repo))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	LoadFeed(name string) error
}

type FeedLister interface {
	List() ([]string, error)
}

type BillLoader interface {
	Load(name string) ([]bill.Bill, error)
}

type BillStore interface {
	database.BillWriter
	database.FeedWriter
}
