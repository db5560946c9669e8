package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// FeedRepository handles database operations for feeds
type FeedRepository struct {
	db *DB
}

// NewFeedRepository creates a new feed repository
func NewFeedRepository(db *DB) *FeedRepository {
	return &FeedRepository{db: db}
}

const feedColumns = `name, bill_count, loaded_at, last_error, last_error_at, created_at, updated_at`

// GetFeed returns a feed by name, or nil when it has never been loaded
func (r *FeedRepository) GetFeed(name string) (*Feed, error) {
	row := r.db.QueryRow(`SELECT `+feedColumns+` FROM feeds WHERE name = ?`, name)

	feed, err := scanFeed(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed: %w", err)
	}

	return feed, nil
}

// GetFeeds returns all known feeds ordered by name
func (r *FeedRepository) GetFeeds() ([]Feed, error) {
	rows, err := r.db.Query(`SELECT ` + feedColumns + ` FROM feeds ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query feeds: %w", err)
	}
	defer rows.Close()

	feeds := []Feed{}
	for rows.Next() {
		feed, err := scanFeed(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feed row: %w", err)
		}
		feeds = append(feeds, *feed)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feed rows: %w", err)
	}

	return feeds, nil
}

// GetFeedCount returns the number of known feeds
func (r *FeedRepository) GetFeedCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM feeds`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get feed count: %w", err)
	}
	return count, nil
}

// RecordLoadFailure stores the error of a failed load. Bills from the
// last successful load are left untouched.
func (r *FeedRepository) RecordLoadFailure(name, message string, at time.Time) error {
	stamp := formatTime(at)
	_, err := r.db.Exec(`
		INSERT INTO feeds (name, last_error, last_error_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			last_error = excluded.last_error,
			last_error_at = excluded.last_error_at,
			updated_at = excluded.updated_at
	`, name, message, stamp, stamp, stamp)
	if err != nil {
		return fmt.Errorf("failed to record load failure: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFeed(row rowScanner) (*Feed, error) {
	var (
		feed                 Feed
		loadedAt, errorAt    sql.NullString
		createdAt, updatedAt string
	)

	err := row.Scan(&feed.Name, &feed.BillCount, &loadedAt, &feed.LastError, &errorAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if feed.LoadedAt, err = parseNullTime(loadedAt); err != nil {
		return nil, err
	}
	if feed.LastErrorAt, err = parseNullTime(errorAt); err != nil {
		return nil, err
	}
	if feed.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if feed.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &feed, nil
}
