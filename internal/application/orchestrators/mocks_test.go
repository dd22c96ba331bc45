package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"clubktm/internal/domain/outbox"
	"clubktm/internal/domain/record"
	"clubktm/internal/domain/staff"
)

// fixedNow is the deterministic clock used across orchestrator tests.
func fixedNow() time.Time {
	return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
}

func sequentialID() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// mockCollectionStore keeps collections in memory.
type mockCollectionStore struct {
	data     map[string][]record.Record
	cleared  []string
	failLoad bool
	failSave bool
	saves    int
}

func newMockCollectionStore() *mockCollectionStore {
	return &mockCollectionStore{data: make(map[string][]record.Record)}
}

func (m *mockCollectionStore) Load(_ context.Context, name string) ([]record.Record, error) {
	if m.failLoad {
		return nil, errors.New("load failed")
	}
	return m.data[name], nil
}

func (m *mockCollectionStore) Save(_ context.Context, name string, records []record.Record) error {
	if m.failSave {
		return errors.New("save failed")
	}
	m.saves++
	m.data[name] = records
	return nil
}

func (m *mockCollectionStore) Clear(_ context.Context, names ...string) error {
	for _, n := range names {
		delete(m.data, n)
		m.cleared = append(m.cleared, n)
	}
	return nil
}

// mockStaffStore keeps the staff directory in memory.
type mockStaffStore struct {
	members map[string]staff.Member
}

func newMockStaffStore() *mockStaffStore {
	return &mockStaffStore{members: make(map[string]staff.Member)}
}

func (m *mockStaffStore) GetByUsername(_ context.Context, username string) (staff.Member, error) {
	member, ok := m.members[username]
	if !ok {
		return staff.Member{}, errors.New("staff member not found")
	}
	return member, nil
}

func (m *mockStaffStore) Save(_ context.Context, member staff.Member) error {
	m.members[member.Username] = member
	return nil
}

func (m *mockStaffStore) Delete(_ context.Context, username string) error {
	delete(m.members, username)
	return nil
}

func (m *mockStaffStore) List(_ context.Context) ([]staff.Member, error) {
	var out []staff.Member
	for _, member := range m.members {
		out = append(out, member)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (m *mockStaffStore) Count(_ context.Context) (int, error) {
	return len(m.members), nil
}

// seedMember stores a member with a real bcrypt hash for the given password.
func (m *mockStaffStore) seedMember(username, name, role, password string) staff.Member {
	member := staff.Member{Username: username, Name: name, Role: role, CreatedAt: fixedNow()}
	if err := member.SetPassword(password); err != nil {
		panic(err)
	}
	m.members[username] = member
	return member
}

// mockOutboxStore keeps outbox entries in memory, insertion-ordered.
type mockOutboxStore struct {
	entries  []outbox.Entry
	failSave bool
}

func (m *mockOutboxStore) GetByID(_ context.Context, id string) (outbox.Entry, error) {
	for _, e := range m.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return outbox.Entry{}, errors.New("outbox entry not found")
}

func (m *mockOutboxStore) Save(_ context.Context, e outbox.Entry) error {
	if m.failSave {
		return errors.New("save failed")
	}
	for i, existing := range m.entries {
		if existing.ID == e.ID {
			m.entries[i] = e
			return nil
		}
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *mockOutboxStore) ListPending(_ context.Context, limit int) ([]outbox.Entry, error) {
	var out []outbox.Entry
	for _, e := range m.entries {
		if (e.Status == outbox.StatusPending || e.Status == outbox.StatusRetrying) && e.Attempts < e.MaxAttempts {
			out = append(out, e)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockOutboxStore) ListFailed(_ context.Context, limit int) ([]outbox.Entry, error) {
	var out []outbox.Entry
	for _, e := range m.entries {
		if e.Status == outbox.StatusFailed {
			out = append(out, e)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockOutboxStore) Delete(_ context.Context, id string) error {
	for i, e := range m.entries {
		if e.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return nil
}
