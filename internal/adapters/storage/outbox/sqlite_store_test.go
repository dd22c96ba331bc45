package outbox

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"clubktm/internal/adapters/storage"
	domain "clubktm/internal/domain/outbox"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("MigrateDB failed: %v", err)
	}
	return NewSQLiteStore(db)
}

func testEntry(id string, createdAt time.Time) domain.Entry {
	return domain.Entry{
		ID:          id,
		ActionType:  domain.ActionTypeEmail,
		Payload:     `{"subject":"Password Changed"}`,
		Status:      domain.StatusPending,
		MaxAttempts: domain.DefaultMaxAttempts,
		CreatedAt:   createdAt,
	}
}

// TestSaveGet verifies the insert and lookup round-trip.
func TestSaveGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created := time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)
	if err := store.Save(ctx, testEntry("entry-1", created)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.GetByID(ctx, "entry-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ActionType != domain.ActionTypeEmail || got.Status != domain.StatusPending {
		t.Errorf("unexpected entry: %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v", got.CreatedAt)
	}
	if !got.LastAttemptedAt.IsZero() {
		t.Errorf("LastAttemptedAt should be zero, got %v", got.LastAttemptedAt)
	}
}

// TestGet_Missing verifies an unknown id errors.
func TestGet_Missing(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.GetByID(context.Background(), "ghost"); err == nil {
		t.Error("expected error for unknown id")
	}
}

// TestSave_UpsertAttempt verifies a failed attempt updates in place.
func TestSave_UpsertAttempt(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	e := testEntry("entry-1", time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC))
	if err := store.Save(ctx, e); err != nil {
		t.Fatalf("Save: %v", err)
	}

	e.MarkAttempt(time.Date(2026, 2, 10, 9, 31, 0, 0, time.UTC))
	e.MarkFailed(errors.New("provider unavailable"))
	if err := store.Save(ctx, e); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := store.GetByID(ctx, "entry-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Attempts != 1 || got.Status != domain.StatusRetrying {
		t.Errorf("attempt not recorded: %+v", got)
	}
	if got.ErrorMessage != "provider unavailable" {
		t.Errorf("ErrorMessage = %q", got.ErrorMessage)
	}
	if got.LastAttemptedAt.IsZero() {
		t.Error("LastAttemptedAt not persisted")
	}
}

// TestListPending verifies ordering and exclusion of terminal entries.
func TestListPending(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	older := testEntry("older", base)
	newer := testEntry("newer", base.Add(time.Minute))
	done := testEntry("done", base.Add(2*time.Minute))
	done.MarkSuccess("msg-123")
	exhausted := testEntry("exhausted", base.Add(3*time.Minute))
	exhausted.Attempts = exhausted.MaxAttempts
	exhausted.Status = domain.StatusFailed

	for _, e := range []domain.Entry{newer, older, done, exhausted} {
		if err := store.Save(ctx, e); err != nil {
			t.Fatalf("Save %s: %v", e.ID, err)
		}
	}

	pending, err := store.ListPending(ctx, 10)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("got %d pending, want 2", len(pending))
	}
	if pending[0].ID != "older" || pending[1].ID != "newer" {
		t.Errorf("wrong order: %s, %s", pending[0].ID, pending[1].ID)
	}
}

// TestListFailed verifies only exhausted entries appear in the failure log.
func TestListFailed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	pending := testEntry("pending", base)
	failed := testEntry("failed", base)
	failed.Attempts = failed.MaxAttempts
	failed.Status = domain.StatusFailed
	failed.LastAttemptedAt = base.Add(time.Hour)
	failed.ErrorMessage = "provider unavailable"

	for _, e := range []domain.Entry{pending, failed} {
		if err := store.Save(ctx, e); err != nil {
			t.Fatalf("Save %s: %v", e.ID, err)
		}
	}

	list, err := store.ListFailed(ctx, 10)
	if err != nil {
		t.Fatalf("ListFailed: %v", err)
	}
	if len(list) != 1 || list[0].ID != "failed" {
		t.Errorf("unexpected failure log: %+v", list)
	}
}

// TestDelete verifies removal.
func TestDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testEntry("entry-1", time.Now().UTC())); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(ctx, "entry-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.GetByID(ctx, "entry-1"); err == nil {
		t.Error("entry still present after delete")
	}
}
