// Package postgres implements the storage layer on PostgreSQL. Every query
// on an owned resource filters by the owner before matching the id, so a
// foreign record and a missing record produce the same result.
package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/olehkozachenko/budget-api/internal/storage"
)

type Storage struct {
	db *sql.DB
}

func New(dbURL string) (*Storage, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("database connection error %s", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect database error %s", err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Stop() error {
	return s.db.Close()
}

// translate maps driver-level constraint violations to the sentinel errors
// callers switch on.
func translate(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return storage.ErrEmailTaken
		case "23503": // foreign_key_violation
			return storage.ErrReferenceGone
		}
	}

	return err
}
