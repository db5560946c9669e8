package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lysyi3m/bill-comb/app/bill"
)

// BillRepository handles database operations for bills
type BillRepository struct {
	*FeedRepository
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *DB) *BillRepository {
	return &BillRepository{FeedRepository: NewFeedRepository(db)}
}

// ReplaceFeedBills swaps the stored bills of a feed for a freshly loaded
// set in a single transaction and clears any recorded load error.
func (r *BillRepository) ReplaceFeedBills(feedName string, bills []bill.Bill, loadedAt time.Time) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stamp := formatTime(loadedAt)
	_, err = tx.Exec(`
		INSERT INTO feeds (name, bill_count, loaded_at, last_error, last_error_at, created_at, updated_at)
		VALUES (?, ?, ?, '', NULL, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			bill_count = excluded.bill_count,
			loaded_at = excluded.loaded_at,
			last_error = '',
			last_error_at = NULL,
			updated_at = excluded.updated_at
	`, feedName, len(bills), stamp, stamp, stamp)
	if err != nil {
		return fmt.Errorf("failed to upsert feed: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM bills WHERE feed_name = ?`, feedName); err != nil {
		return fmt.Errorf("failed to delete bills: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO bills (
			feed_name, position, bill_number, pub_date, title, summary, link,
			tags, version_history, sponsors, status, is_reviewed
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare bill insert: %w", err)
	}
	defer stmt.Close()

	for i, b := range bills {
		tags, err := json.Marshal(b.Tags())
		if err != nil {
			return fmt.Errorf("failed to encode tags of %s: %w", b.BillNumber(), err)
		}
		history, err := json.Marshal(b.VersionHistory())
		if err != nil {
			return fmt.Errorf("failed to encode version history of %s: %w", b.BillNumber(), err)
		}
		sponsors, err := json.Marshal(b.Sponsors())
		if err != nil {
			return fmt.Errorf("failed to encode sponsors of %s: %w", b.BillNumber(), err)
		}

		_, err = stmt.Exec(feedName, i, b.BillNumber(), nullTime(b.PubDate()), b.Title(), b.Summary(), b.Link(),
			string(tags), string(history), string(sponsors), b.Status(), b.IsReviewed())
		if err != nil {
			return fmt.Errorf("failed to store bill %s: %w", b.BillNumber(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bills: %w", err)
	}

	return nil
}

// GetBills returns the bills of a feed in their original row order
func (r *BillRepository) GetBills(feedName string) ([]bill.Bill, error) {
	rows, err := r.db.Query(`
		SELECT bill_number, pub_date, title, summary, link,
		       tags, version_history, sponsors, status, is_reviewed
		FROM bills
		WHERE feed_name = ?
		ORDER BY position
	`, feedName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bills: %w", err)
	}
	defer rows.Close()

	bills := []bill.Bill{}
	for rows.Next() {
		var (
			p                       bill.Params
			pubDate                 sql.NullString
			tags, history, sponsors string
		)
		err := rows.Scan(&p.BillNumber, &pubDate, &p.Title, &p.Summary, &p.Link,
			&tags, &history, &sponsors, &p.Status, &p.IsReviewed)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill row: %w", err)
		}

		if pubDate.Valid {
			if p.PubDate, err = parseTime(pubDate.String); err != nil {
				return nil, err
			}
		}
		if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags of %s: %w", p.BillNumber, err)
		}
		if err := json.Unmarshal([]byte(history), &p.VersionHistory); err != nil {
			return nil, fmt.Errorf("failed to decode version history of %s: %w", p.BillNumber, err)
		}
		if err := json.Unmarshal([]byte(sponsors), &p.Sponsors); err != nil {
			return nil, fmt.Errorf("failed to decode sponsors of %s: %w", p.BillNumber, err)
		}

		bills = append(bills, bill.New(p))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bill rows: %w", err)
	}

	return bills, nil
}

// GetBillCount returns the number of stored bills for a feed
func (r *BillRepository) GetBillCount(feedName string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM bills WHERE feed_name = ?`, feedName).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get bill count: %w", err)
	}
	return count, nil
}
