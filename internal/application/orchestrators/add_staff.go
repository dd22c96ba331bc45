package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"clubktm/internal/domain/staff"
)

// StaffStoreForAddStaff defines the store interface needed by AddStaff.
type StaffStoreForAddStaff interface {
	GetByUsername(ctx context.Context, username string) (staff.Member, error)
	Save(ctx context.Context, m staff.Member) error
}

// AddStaffInput carries input for creating a staff account.
type AddStaffInput struct {
	CallerRole string // role of the logged-in member performing the add
	Username   string
	Password   string
	Name       string
	Role       string
	Email      string
}

// AddStaffDeps holds dependencies for AddStaff.
type AddStaffDeps struct {
	Staff StaffStoreForAddStaff
	Now   func() time.Time
}

var (
	ErrNotAuthorized     = errors.New("only administrators can add staff members")
	ErrDuplicateUsername = errors.New("username already exists")
)

// ExecuteAddStaff creates a new staff account. The authorization check runs
// before any validation so a non-administrator always gets the same error,
// whatever else is wrong with the request.
// PRE: Caller is logged in; CallerRole is the caller's directory role
// POST: New member persisted with a bcrypt password hash
func ExecuteAddStaff(ctx context.Context, input AddStaffInput, deps AddStaffDeps) (staff.Summary, error) {
	if input.CallerRole != staff.RoleAdministrator {
		slog.Info("auth_event", "event", "add_staff_denied", "caller_role", input.CallerRole)
		return staff.Summary{}, ErrNotAuthorized
	}

	member := staff.Member{
		Username:  input.Username,
		Name:      input.Name,
		Role:      input.Role,
		Email:     input.Email,
		CreatedAt: deps.Now(),
	}
	if err := member.Validate(); err != nil {
		return staff.Summary{}, err
	}

	if _, err := deps.Staff.GetByUsername(ctx, input.Username); err == nil {
		return staff.Summary{}, ErrDuplicateUsername
	}

	if err := member.SetPassword(input.Password); err != nil {
		return staff.Summary{}, err
	}

	if err := deps.Staff.Save(ctx, member); err != nil {
		return staff.Summary{}, err
	}

	slog.Info("auth_event", "event", "staff_added", "username", member.Username, "role", member.Role)
	return member.Summary(), nil
}
