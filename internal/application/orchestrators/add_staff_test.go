package orchestrators

import (
	"context"
	"errors"
	"testing"

	"clubktm/internal/domain/staff"
)

// TestAddStaff_Success verifies an administrator can create an account.
func TestAddStaff_Success(t *testing.T) {
	store := newMockStaffStore()

	summary, err := ExecuteAddStaff(context.Background(), AddStaffInput{
		CallerRole: staff.RoleAdministrator,
		Username:   "coach_thandi",
		Password:   "StrongPass@789",
		Name:       "Thandi Nkosi",
		Role:       "Coach",
	}, AddStaffDeps{Staff: store, Now: fixedNow})
	if err != nil {
		t.Fatalf("ExecuteAddStaff: %v", err)
	}
	if summary.ID != "coach_thandi" || summary.Role != "Coach" {
		t.Errorf("unexpected summary: %+v", summary)
	}

	member := store.members["coach_thandi"]
	if member.PasswordHash == "" || member.PasswordHash == "StrongPass@789" {
		t.Error("password must be stored hashed")
	}
	if err := member.CheckPassword("StrongPass@789"); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}

// TestAddStaff_NotAuthorized verifies the role gate fires before validation,
// so a non-administrator never learns whether the rest of the request was ok.
func TestAddStaff_NotAuthorized(t *testing.T) {
	store := newMockStaffStore()

	for _, role := range []string{"Coach", "Director", "administrator", ""} {
		_, err := ExecuteAddStaff(context.Background(), AddStaffInput{
			CallerRole: role,
			Username:   "", // invalid, but authorization is checked first
			Password:   "x",
		}, AddStaffDeps{Staff: store, Now: fixedNow})
		if !errors.Is(err, ErrNotAuthorized) {
			t.Errorf("role %q: err = %v, want ErrNotAuthorized", role, err)
		}
	}
	if len(store.members) != 0 {
		t.Error("no member should be created")
	}
}

// TestAddStaff_DuplicateUsername verifies an existing account is never
// overwritten.
func TestAddStaff_DuplicateUsername(t *testing.T) {
	store := newMockStaffStore()
	existing := store.seedMember("coach_john", "John Smith", "Coach", "CoachPass@456")

	_, err := ExecuteAddStaff(context.Background(), AddStaffInput{
		CallerRole: staff.RoleAdministrator,
		Username:   "coach_john",
		Password:   "Different@999",
		Name:       "Johnny",
		Role:       "Coach",
	}, AddStaffDeps{Staff: store, Now: fixedNow})
	if !errors.Is(err, ErrDuplicateUsername) {
		t.Errorf("err = %v, want ErrDuplicateUsername", err)
	}
	if store.members["coach_john"].PasswordHash != existing.PasswordHash {
		t.Error("existing account must be untouched")
	}
}

// TestAddStaff_WeakPassword verifies the minimum length applies to new accounts.
func TestAddStaff_WeakPassword(t *testing.T) {
	store := newMockStaffStore()

	_, err := ExecuteAddStaff(context.Background(), AddStaffInput{
		CallerRole: staff.RoleAdministrator,
		Username:   "coach_thandi",
		Password:   "short",
		Name:       "Thandi Nkosi",
		Role:       "Coach",
	}, AddStaffDeps{Staff: store, Now: fixedNow})
	if !errors.Is(err, staff.ErrWeakPassword) {
		t.Errorf("err = %v, want ErrWeakPassword", err)
	}
}
