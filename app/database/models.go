package database

import "time"

// Feed is the load bookkeeping row kept for every feed file.
type Feed struct {
	Name        string     `json:"name"`
	BillCount   int        `json:"bill_count"`
	LoadedAt    *time.Time `json:"loaded_at"`
	LastError   string     `json:"last_error,omitempty"`
	LastErrorAt *time.Time `json:"last_error_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Healthy reports whether the most recent load attempt succeeded.
func (f Feed) Healthy() bool {
	if f.LastErrorAt == nil {
		return true
	}
	return f.LoadedAt != nil && !f.LoadedAt.Before(*f.LastErrorAt)
}
