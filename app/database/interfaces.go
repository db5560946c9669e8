package database

import (
	"time"

	"github.com/lysyi3m/bill-comb/app/bill"
)

type FeedReader interface {
	GetFeed(name string) (*Feed, error)
	GetFeeds() ([]Feed, error)
	GetFeedCount() (int, error)
}

type FeedWriter interface {
	RecordLoadFailure(name, message string, at time.Time) error
}

type BillReader interface {
	GetBills(feedName string) ([]bill.Bill, error)
	GetBillCount(feedName string) (int, error)
}

type BillWriter interface {
	ReplaceFeedBills(feedName string, bills []bill.Bill, loadedAt time.Time) error
}

// Repository is everything the loader and the HTTP layer need from storage.
type Repository interface {
	FeedReader
	FeedWriter
	BillReader
	BillWriter
}
