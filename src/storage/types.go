package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
)

// Execer is an interface for executing SQL statements
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// ExecQuerier combines Execer and sqlscan.Querier for operations that need
// both reads and writes.
type ExecQuerier interface {
	Execer
	sqlscan.Querier
}

// ChatIndexEntry is one row of the chat index, derived from a chat file.
type ChatIndexEntry struct {
	ThreadID     string    `json:"thread_id" db:"thread_id"`
	Path         string    `json:"path" db:"path"`
	Title        string    `json:"title" db:"title"`
	MessageCount int       `json:"message_count" db:"message_count"`
	LastSender   string    `json:"last_sender" db:"last_sender"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
