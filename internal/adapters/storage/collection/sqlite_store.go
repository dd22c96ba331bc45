package collection

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"clubktm/internal/domain/record"
)

// SQLiteStore implements Store using SQLite. Each collection is one row in
// the collection table holding the serialized array.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new collection store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Load retrieves a collection by name.
// POST: Returns the decoded records; an absent row or undecodable payload
// yields an empty collection (fail-soft, logged)
func (s *SQLiteStore) Load(ctx context.Context, name string) ([]record.Record, error) {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT data FROM collection WHERE name = ?", name).Scan(&data)
	if err == sql.ErrNoRows {
		return []record.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load collection %s: %w", name, err)
	}

	var records []record.Record
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		// Corrupt stored data is treated as an empty collection rather than
		// an error; the next save overwrites it.
		slog.Warn("collection_unparsable", "collection", name, "error", err.Error())
		return []record.Record{}, nil
	}
	if records == nil {
		records = []record.Record{}
	}
	return records, nil
}

// Save overwrites a collection with the given records.
// POST: The stored array equals records exactly, in order
func (s *SQLiteStore) Save(ctx context.Context, name string, records []record.Record) error {
	if records == nil {
		records = []record.Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", name, err)
	}

	query := `INSERT INTO collection (name, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET data=excluded.data, updated_at=excluded.updated_at`
	_, err = s.db.ExecContext(ctx, query, name, string(data), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save collection %s: %w", name, err)
	}
	return nil
}

// Clear removes exactly the named collections.
// POST: Load of each named collection returns empty; other rows untouched
func (s *SQLiteStore) Clear(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	placeholders := strings.Repeat("?, ", len(names)-1) + "?"
	args := make([]interface{}, len(names))
	for i, n := range names {
		args[i] = n
	}
	_, err := s.db.ExecContext(ctx, "DELETE FROM collection WHERE name IN ("+placeholders+")", args...)
	if err != nil {
		return fmt.Errorf("clear collections: %w", err)
	}
	return nil
}
