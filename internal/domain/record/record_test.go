package record

import (
	"encoding/json"
	"testing"
)

// TestNextID_Empty verifies an empty collection starts at 1.
func TestNextID_Empty(t *testing.T) {
	if got := NextID(nil); got != 1 {
		t.Errorf("NextID(nil) = %d, want 1", got)
	}
	if got := NextID([]Record{}); got != 1 {
		t.Errorf("NextID(empty) = %d, want 1", got)
	}
}

// TestNextID_MaxPlusOne verifies 1+max(id) over a sparse collection.
func TestNextID_MaxPlusOne(t *testing.T) {
	records := []Record{
		{"id": 1, "jersey": 9},
		{"id": 3, "jersey": 4},
	}
	if got := NextID(records); got != 4 {
		t.Errorf("NextID = %d, want 4", got)
	}
}

// TestNextID_MissingIDTreatedAsZero verifies records without an id do not
// poison the scan.
func TestNextID_MissingIDTreatedAsZero(t *testing.T) {
	records := []Record{
		{"title": "no id yet"},
		{"id": 2},
	}
	if got := NextID(records); got != 3 {
		t.Errorf("NextID = %d, want 3", got)
	}
}

// TestID_JSONNumbers verifies ids decoded from JSON (float64) are readable.
func TestID_JSONNumbers(t *testing.T) {
	var r Record
	if err := json.Unmarshal([]byte(`{"id": 7, "name": "x"}`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.ID() != 7 {
		t.Errorf("ID = %d, want 7", r.ID())
	}
}

// TestMerge_PatchFieldsOnly verifies only patched fields change.
func TestMerge_PatchFieldsOnly(t *testing.T) {
	base := Record{"id": 2, "title": "Old", "category": "Match Report"}
	merged := base.Merge(Record{"title": "New"})

	if merged.String("title") != "New" {
		t.Errorf("title = %q, want New", merged.String("title"))
	}
	if merged.String("category") != "Match Report" {
		t.Errorf("category changed: %q", merged.String("category"))
	}
	if merged.ID() != 2 {
		t.Errorf("id = %d, want 2", merged.ID())
	}
	if base.String("title") != "Old" {
		t.Error("Merge mutated the original record")
	}
}

// TestMerge_IDImmutable verifies a patch cannot reassign the id.
func TestMerge_IDImmutable(t *testing.T) {
	base := Record{"id": 5, "opponent": "United"}
	merged := base.Merge(Record{"id": 99, "opponent": "City"})
	if merged.ID() != 5 {
		t.Errorf("id = %d, want 5", merged.ID())
	}
}

// TestRemoveByID verifies filter-out semantics and order preservation.
func TestRemoveByID(t *testing.T) {
	records := []Record{{"id": 1}, {"id": 2}, {"id": 3}}

	out, removed := RemoveByID(records, 2)
	if !removed {
		t.Error("expected removed=true")
	}
	if len(out) != 2 || out[0].ID() != 1 || out[1].ID() != 3 {
		t.Errorf("unexpected result: %v", out)
	}

	out, removed = RemoveByID(records, 42)
	if removed {
		t.Error("expected removed=false for missing id")
	}
	if len(out) != 3 {
		t.Errorf("no-op remove changed length: %d", len(out))
	}
}

// TestIsValidCollection verifies the collection registry.
func TestIsValidCollection(t *testing.T) {
	for _, name := range Collections {
		if !IsValidCollection(name) {
			t.Errorf("expected %q to be valid", name)
		}
	}
	if IsValidCollection("staffCredentials") {
		t.Error("staffCredentials must not be a club-data collection")
	}
	if IsValidCollection("") {
		t.Error("empty name must not be valid")
	}
}
