package feed

import "errors"

// Format tells the loader how to turn a feed file into records.
type Format string

const (
	FormatDelimited Format = "delimited"
	FormatRSS       Format = "rss"
)

var (
	ErrFeedNotFound    = errors.New("feed not found")
	ErrInvalidFeedName = errors.New("invalid feed name")
)

// Channel describes the RSS channel wrapped around a bill view.
type Channel struct {
	Name        string
	Title       string
	Link        string
	Description string
	SelfLink    string
	Generator   string
}
