package staffdir

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domain "clubktm/internal/domain/staff"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new staff directory store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const memberColumns = "username, password_hash, name, role, email, created_at"

// GetByUsername retrieves a Member by its username (case-sensitive exact match).
// PRE: username is non-empty
// POST: Returns the member or an error if not found
func (s *SQLiteStore) GetByUsername(ctx context.Context, username string) (domain.Member, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+memberColumns+" FROM staff WHERE username = ?", username)
	m, err := scanMember(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Member{}, fmt.Errorf("staff member not found: %w", err)
	}
	return m, err
}

// Save persists a Member (insert or update keyed by username).
// PRE: m has been validated
// POST: Member is persisted
func (s *SQLiteStore) Save(ctx context.Context, m domain.Member) error {
	query := `INSERT INTO staff (` + memberColumns + `) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			password_hash=excluded.password_hash,
			name=excluded.name,
			role=excluded.role,
			email=excluded.email`

	_, err := s.db.ExecContext(ctx, query,
		m.Username,
		m.PasswordHash,
		m.Name,
		m.Role,
		m.Email,
		m.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save staff member: %w", err)
	}
	return nil
}

// Delete removes a Member from the directory.
// PRE: username is non-empty
// POST: Member with given username is removed
func (s *SQLiteStore) Delete(ctx context.Context, username string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM staff WHERE username = ?", username)
	return err
}

// List retrieves all staff members ordered by creation time.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Member, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+memberColumns+" FROM staff ORDER BY created_at, username")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Member
	for rows.Next() {
		m, err := scanMember(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, m)
	}
	return results, rows.Err()
}

// Count returns the total number of staff members.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM staff").Scan(&count)
	return count, err
}

// scanMember extracts a Member from a row scanner function.
func scanMember(scan func(dest ...interface{}) error) (domain.Member, error) {
	var m domain.Member
	var createdAt string
	err := scan(
		&m.Username,
		&m.PasswordHash,
		&m.Name,
		&m.Role,
		&m.Email,
		&createdAt,
	)
	if err != nil {
		return domain.Member{}, err
	}
	m.CreatedAt, _ = parseTime(createdAt)
	return m, nil
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
