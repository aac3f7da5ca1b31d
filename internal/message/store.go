package message

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists message rows in PostgreSQL.
//
// Store is safe for concurrent use by multiple goroutines; every method is a
// standalone call with independent success/failure. There are no
// transactions: callers that need cross-call ordering must accept the
// at-least-once semantics documented on the relay service.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewStore creates a new Store backed by the given connection pool.
// A nil logger falls back to slog.Default().
func NewStore(pool *pgxpool.Pool, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{pool: pool, logger: logger}
}

// Insert appends one row for the given owner. The row ID and created_at
// timestamp are assigned by the database.
func (s *Store) Insert(ctx context.Context, uid, role, content string) error {
	if !ValidRole(role) {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO messages (uid, role, content) VALUES ($1, $2, $3)`,
		uid, role, content)
	if err != nil {
		return fmt.Errorf("failed to insert %s message: %w", role, err)
	}

	s.logger.Debug("inserted message", "uid", uid, "role", role, "bytes", len(content))
	return nil
}

// Recent returns up to limit rows for the given owner, the newest ones,
// ordered ascending by created_at (oldest of the window first).
//
// Selecting the newest rows but returning them oldest-first is exactly the
// shape both consumers need: the completion window wants the most recent
// context in conversation order, and the history endpoint wants the most
// recent page in display order.
func (s *Store) Recent(ctx context.Context, uid string, limit int32) ([]Message, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, uid, role, content, created_at
		   FROM (SELECT id, uid, role, content, created_at
		           FROM messages
		          WHERE uid = $1
		          ORDER BY created_at DESC
		          LIMIT $2) AS recent
		  ORDER BY created_at ASC`,
		uid, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}

	messages, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Message, error) {
		var m Message
		err := row.Scan(&m.ID, &m.UID, &m.Role, &m.Content, &m.CreatedAt)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan messages: %w", err)
	}

	s.logger.Debug("loaded messages", "uid", uid, "count", len(messages), "limit", limit)
	return messages, nil
}

// Purge deletes every row for the given owner. Purging an owner with no rows
// succeeds silently, which makes the operation idempotent.
func (s *Store) Purge(ctx context.Context, uid string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM messages WHERE uid = $1`, uid)
	if err != nil {
		return fmt.Errorf("failed to purge messages: %w", err)
	}

	s.logger.Debug("purged messages", "uid", uid, "deleted", tag.RowsAffected())
	return nil
}
