package store

import (
	"database/sql"
)

// Store is the service layer. All SQL lives here; handlers never touch
// the pool directly. The pool is injected at construction so lifecycle
// and tests stay explicit.
type Store struct {
	DB *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{DB: db}
}
