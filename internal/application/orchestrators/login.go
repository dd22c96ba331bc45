package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"clubktm/internal/domain/staff"
)

// StaffStoreForLogin defines the store interface needed by Login.
type StaffStoreForLogin interface {
	GetByUsername(ctx context.Context, username string) (staff.Member, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Username string
	Password string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Staff StaffStoreForLogin
}

// ErrInvalidUsername is returned when no staff member has the given username.
// It is deliberately distinct from staff.ErrIncorrectPassword so the login
// form can tell the operator which field was wrong.
var ErrInvalidUsername = errors.New("invalid username")

// ExecuteLogin validates credentials and returns the member's summary for
// session creation.
// PRE: Username and password provided
// POST: Returns the non-sensitive summary on success
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (staff.Summary, error) {
	if input.Username == "" {
		return staff.Summary{}, ErrInvalidUsername
	}

	member, err := deps.Staff.GetByUsername(ctx, input.Username)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "username", input.Username, "reason", "not_found")
		return staff.Summary{}, ErrInvalidUsername
	}

	if err := member.CheckPassword(input.Password); err != nil {
		slog.Info("auth_event", "event", "login_failed", "username", input.Username, "reason", "wrong_password")
		return staff.Summary{}, staff.ErrIncorrectPassword
	}

	slog.Info("auth_event", "event", "login_success", "username", input.Username, "role", member.Role)
	return member.Summary(), nil
}
