package api

import (
	"github.com/lysyi3m/bill-comb/app/bill"
	"github.com/lysyi3m/bill-comb/app/database"
	"github.com/lysyi3m/bill-comb/app/feed"
	"github.com/lysyi3m/bill-comb/app/filter"
	"github.com/lysyi3m/bill-comb/app/tasks"
)

type GeneratorInterface interface {
	Run(channel feed.Channel, bills []bill.Bill) (string, error)
}

var _ GeneratorInterface = (*feed.Generator)(nil)

// Store is the read side of the bill store used by the handlers.
type Store interface {
	database.FeedReader
	database.BillReader
}

// Reloader queues a load of one feed.
type Reloader interface {
	LoadFeed(name string) error
}

var _ Reloader = (tasks.TaskSchedulerInterface)(nil)

type Handler struct {
	store     Store
	generator GeneratorInterface
	sessions  *filter.Sessions
	feeds     tasks.FeedLister
	reloader  Reloader
	baseURL   string
}

type selectionRequest struct {
	Tags []string `json:"tags"`
}
