package record

import (
	"encoding/json"
	"errors"
)

// Collection name constants. These are the storage keys the public site and
// admin dashboard read and write.
const (
	CollectionFixtures     = "fixtures"
	CollectionResults      = "results"
	CollectionPlayers      = "players"
	CollectionNews         = "news"
	CollectionMedia        = "media"
	CollectionApplications = "applications"
)

// Collections lists every club-data collection. Clearing club data erases
// exactly these keys and nothing else.
var Collections = []string{
	CollectionFixtures,
	CollectionResults,
	CollectionPlayers,
	CollectionNews,
	CollectionMedia,
	CollectionApplications,
}

// IDField is the reserved field name carrying a record's integer id.
const IDField = "id"

// Domain errors
var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrNotFound          = errors.New("record not found")
)

// Record is one stored entity within a named collection: a flat mapping of
// field names to scalar values plus a mandatory unique integer id.
type Record map[string]any

// IsValidCollection returns true if name is a known collection key.
func IsValidCollection(name string) bool {
	for _, c := range Collections {
		if c == name {
			return true
		}
	}
	return false
}

// ID returns the record's integer id, or 0 if absent or non-numeric.
// JSON decoding yields float64 for numbers, so both forms are accepted.
func (r Record) ID() int {
	switch v := r[IDField].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0
		}
		return int(n)
	default:
		return 0
	}
}

// SetID stores an integer id on the record.
// POST: r.ID() == id
func (r Record) SetID(id int) {
	r[IDField] = id
}

// Int returns the named field as an int, or 0 if absent or non-numeric.
func (r Record) Int(key string) int {
	switch v := r[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// String returns the named field as a string, or "" if absent or not a string.
func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Merge returns a shallow merge of the record and patch: fields present in
// patch overwrite, all other fields pass through unchanged. The id survives
// the merge regardless of the patch contents.
func (r Record) Merge(patch Record) Record {
	out := r.Clone()
	for k, v := range patch {
		out[k] = v
	}
	out.SetID(r.ID())
	return out
}

// NextID computes the next id for a collection: 1 for an empty collection,
// otherwise 1 + max(id) with missing ids treated as 0. Ids are assigned by
// scan, not by a persisted counter, so the sequence self-heals after deletes
// of the highest record.
func NextID(records []Record) int {
	if len(records) == 0 {
		return 1
	}
	max := 0
	for _, r := range records {
		if id := r.ID(); id > max {
			max = id
		}
	}
	return max + 1
}

// RemoveByID returns the records with the matching record filtered out,
// preserving order. The second return reports whether anything was removed.
func RemoveByID(records []Record, id int) ([]Record, bool) {
	out := make([]Record, 0, len(records))
	removed := false
	for _, r := range records {
		if r.ID() == id {
			removed = true
			continue
		}
		out = append(out, r)
	}
	return out, removed
}
