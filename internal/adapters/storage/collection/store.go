package collection

import (
	"context"

	"clubktm/internal/domain/record"
)

// Store persists whole club-data collections as named JSON arrays. Every
// mutation in the application is a read-modify-write of the full array, so
// the interface is deliberately coarse.
type Store interface {
	// Load returns the stored collection, or an empty slice if absent.
	// Unparsable stored data is treated as absent, never surfaced.
	Load(ctx context.Context, name string) ([]record.Record, error)

	// Save overwrites the entire stored collection. No merge, no diffing.
	Save(ctx context.Context, name string, records []record.Record) error

	// Clear erases exactly the named collections, leaving every other table
	// (staff directory, outbox) untouched.
	Clear(ctx context.Context, names ...string) error
}
