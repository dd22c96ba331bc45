package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domain "clubktm/internal/domain/outbox"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new outbox store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const entryColumns = "id, action_type, payload, status, attempts, max_attempts, last_attempted_at, created_at, message_id, error_message"

// GetByID retrieves an outbox entry by its ID.
// PRE: id is non-empty
// POST: Returns the entry or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Entry, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+entryColumns+" FROM outbox WHERE id = ?", id)
	e, err := scanEntry(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Entry{}, fmt.Errorf("outbox entry not found: %w", err)
	}
	return e, err
}

// Save persists an outbox entry (insert or update keyed by id).
// PRE: e has been validated
// POST: Entry is persisted
func (s *SQLiteStore) Save(ctx context.Context, e domain.Entry) error {
	query := `INSERT INTO outbox (` + entryColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status=excluded.status,
			attempts=excluded.attempts,
			last_attempted_at=excluded.last_attempted_at,
			message_id=excluded.message_id,
			error_message=excluded.error_message`

	var lastAttempted any
	if !e.LastAttemptedAt.IsZero() {
		lastAttempted = e.LastAttemptedAt.Format(time.RFC3339Nano)
	}

	_, err := s.db.ExecContext(ctx, query,
		e.ID,
		e.ActionType,
		e.Payload,
		e.Status,
		e.Attempts,
		e.MaxAttempts,
		lastAttempted,
		e.CreatedAt.Format(time.RFC3339Nano),
		e.MessageID,
		e.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("save outbox entry: %w", err)
	}
	return nil
}

// ListPending returns entries awaiting processing, oldest first.
func (s *SQLiteStore) ListPending(ctx context.Context, limit int) ([]domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM outbox
		WHERE status IN (?, ?) AND attempts < max_attempts
		ORDER BY created_at LIMIT ?`
	return s.listEntries(ctx, query, domain.StatusPending, domain.StatusRetrying, limit)
}

// ListFailed returns permanently failed entries, most recent attempt first.
func (s *SQLiteStore) ListFailed(ctx context.Context, limit int) ([]domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM outbox
		WHERE status = ?
		ORDER BY last_attempted_at DESC LIMIT ?`
	return s.listEntries(ctx, query, domain.StatusFailed, limit)
}

// Delete removes an entry from the outbox.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM outbox WHERE id = ?", id)
	return err
}

func (s *SQLiteStore) listEntries(ctx context.Context, query string, args ...any) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Entry
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, e)
	}
	return results, rows.Err()
}

// scanEntry extracts an Entry from a row scanner function.
func scanEntry(scan func(dest ...interface{}) error) (domain.Entry, error) {
	var e domain.Entry
	var lastAttempted sql.NullString
	var createdAt string
	err := scan(
		&e.ID,
		&e.ActionType,
		&e.Payload,
		&e.Status,
		&e.Attempts,
		&e.MaxAttempts,
		&lastAttempted,
		&createdAt,
		&e.MessageID,
		&e.ErrorMessage,
	)
	if err != nil {
		return domain.Entry{}, err
	}
	if lastAttempted.Valid {
		e.LastAttemptedAt, _ = parseTime(lastAttempted.String)
	}
	e.CreatedAt, _ = parseTime(createdAt)
	return e, nil
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		t, err := time.Parse(f, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}
