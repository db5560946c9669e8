package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DefaultDSN keeps the store in memory for the lifetime of the process.
const DefaultDSN = "file:billcomb?mode=memory&cache=shared"

type DB struct {
	*sql.DB
}

func NewConnection(dsn string) (*DB, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps a shared in-memory database alive and
	// serialises writers.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{DB: db}, nil
}
