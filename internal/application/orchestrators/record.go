package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"clubktm/internal/domain/record"
)

// CollectionStore defines the store interface needed by the record orchestrators.
type CollectionStore interface {
	Load(ctx context.Context, name string) ([]record.Record, error)
	Save(ctx context.Context, name string, records []record.Record) error
	Clear(ctx context.Context, names ...string) error
}

// addMu serializes add operations so two concurrent adds cannot scan the same
// collection snapshot and hand out the same id.
var addMu sync.Mutex

// --- Add Record ---

// AddRecordInput carries input for adding a record to a collection.
type AddRecordInput struct {
	Collection string
	Fields     record.Record
}

// AddRecordDeps holds dependencies for AddRecord.
type AddRecordDeps struct {
	Collections CollectionStore
}

// ExecuteAddRecord appends a new record to a collection, assigning the next
// available integer id. Any id supplied by the caller is overwritten.
// PRE: input.Collection is a known collection name
// POST: Record persisted with a unique id; returns the stored record
func ExecuteAddRecord(ctx context.Context, input AddRecordInput, deps AddRecordDeps) (record.Record, error) {
	if !record.IsValidCollection(input.Collection) {
		return nil, fmt.Errorf("%w: %s", record.ErrUnknownCollection, input.Collection)
	}

	addMu.Lock()
	defer addMu.Unlock()

	records, err := deps.Collections.Load(ctx, input.Collection)
	if err != nil {
		return nil, err
	}

	stored := input.Fields.Clone()
	stored.SetID(record.NextID(records))
	records = append(records, stored)

	if err := deps.Collections.Save(ctx, input.Collection, records); err != nil {
		return nil, err
	}

	slog.Info("record_event", "event", "record_added", "collection", input.Collection, "id", stored.ID())
	return stored, nil
}

// --- Update Record ---

// UpdateRecordInput carries input for patching a record in place.
type UpdateRecordInput struct {
	Collection string
	ID         int
	Patch      record.Record
}

// UpdateRecordDeps holds dependencies for UpdateRecord.
type UpdateRecordDeps struct {
	Collections CollectionStore
}

// ExecuteUpdateRecord merges the patch into the matching record. Fields absent
// from the patch keep their stored values; the id cannot be changed.
// PRE: input.Collection is a known collection name
// POST: Matching record updated in place, order preserved; ErrNotFound when
// no record matches and nothing is written
func ExecuteUpdateRecord(ctx context.Context, input UpdateRecordInput, deps UpdateRecordDeps) (record.Record, error) {
	if !record.IsValidCollection(input.Collection) {
		return nil, fmt.Errorf("%w: %s", record.ErrUnknownCollection, input.Collection)
	}

	records, err := deps.Collections.Load(ctx, input.Collection)
	if err != nil {
		return nil, err
	}

	var updated record.Record
	for i, r := range records {
		if r.ID() == input.ID {
			updated = r.Merge(input.Patch)
			records[i] = updated
			break
		}
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: %s/%d", record.ErrNotFound, input.Collection, input.ID)
	}

	if err := deps.Collections.Save(ctx, input.Collection, records); err != nil {
		return nil, err
	}

	slog.Info("record_event", "event", "record_updated", "collection", input.Collection, "id", input.ID)
	return updated, nil
}

// --- Remove Record ---

// RemoveRecordInput carries input for removing a record from a collection.
type RemoveRecordInput struct {
	Collection string
	ID         int
}

// RemoveRecordDeps holds dependencies for RemoveRecord.
type RemoveRecordDeps struct {
	Collections CollectionStore
}

// ExecuteRemoveRecord filters the matching record out of the collection.
// Removing an id that does not exist is not an error.
// PRE: input.Collection is a known collection name
// POST: No record with input.ID remains; surviving order preserved
func ExecuteRemoveRecord(ctx context.Context, input RemoveRecordInput, deps RemoveRecordDeps) error {
	if !record.IsValidCollection(input.Collection) {
		return fmt.Errorf("%w: %s", record.ErrUnknownCollection, input.Collection)
	}

	records, err := deps.Collections.Load(ctx, input.Collection)
	if err != nil {
		return err
	}

	filtered, removed := record.RemoveByID(records, input.ID)
	if err := deps.Collections.Save(ctx, input.Collection, filtered); err != nil {
		return err
	}

	slog.Info("record_event", "event", "record_removed", "collection", input.Collection, "id", input.ID, "existed", removed)
	return nil
}

// --- Clear Club Data ---

// ClearDataDeps holds dependencies for ClearData.
type ClearDataDeps struct {
	Collections CollectionStore
}

// ExecuteClearData erases every club-data collection. The staff directory and
// live sessions are untouched; logged-in staff stay logged in.
// POST: All collections in record.Collections load as empty
func ExecuteClearData(ctx context.Context, deps ClearDataDeps) error {
	if err := deps.Collections.Clear(ctx, record.Collections...); err != nil {
		return err
	}
	slog.Info("record_event", "event", "data_cleared", "collections", len(record.Collections))
	return nil
}
