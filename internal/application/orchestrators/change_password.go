package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"clubktm/internal/domain/staff"
)

// StaffStoreForChangePassword defines the store interface needed by ChangePassword.
type StaffStoreForChangePassword interface {
	GetByUsername(ctx context.Context, username string) (staff.Member, error)
	Save(ctx context.Context, m staff.Member) error
}

// ChangePasswordInput carries input for the password change orchestrator.
type ChangePasswordInput struct {
	Username        string // from the session, not the request body
	CurrentPassword string
	NewPassword     string
}

// ChangePasswordDeps holds dependencies for ChangePassword.
type ChangePasswordDeps struct {
	Staff      StaffStoreForChangePassword
	Outbox     OutboxStoreForEnqueue // nil disables the notification
	ClubEmail  string
	GenerateID func() string
	Now        func() time.Time
}

var (
	ErrAccessDenied         = errors.New("access denied")
	ErrAccountNotFound      = errors.New("staff account not found")
	ErrWrongCurrentPassword = errors.New("current password is incorrect")
	ErrPasswordUnchanged    = errors.New("new password must be different from the current password")
)

// ExecuteChangePassword rotates a member's password. Checks run in a fixed
// order so each failure mode surfaces its own error: account lookup, current
// password, strength, then sameness.
// PRE: input.Username comes from an authenticated session
// POST: Password hash replaced; a notification email is queued best-effort
func ExecuteChangePassword(ctx context.Context, input ChangePasswordInput, deps ChangePasswordDeps) error {
	if input.Username == "" {
		return ErrAccessDenied
	}

	member, err := deps.Staff.GetByUsername(ctx, input.Username)
	if err != nil {
		return ErrAccountNotFound
	}

	if err := member.CheckPassword(input.CurrentPassword); err != nil {
		slog.Info("auth_event", "event", "password_change_failed", "username", input.Username, "reason", "wrong_current")
		return ErrWrongCurrentPassword
	}

	if len(input.NewPassword) < staff.MinPasswordLength {
		return staff.ErrWeakPassword
	}

	if input.NewPassword == input.CurrentPassword {
		return ErrPasswordUnchanged
	}

	if err := member.SetPassword(input.NewPassword); err != nil {
		return err
	}
	if err := deps.Staff.Save(ctx, member); err != nil {
		return err
	}

	slog.Info("auth_event", "event", "password_changed", "username", input.Username)

	// Notification is fire-and-forget: the change has already landed.
	if deps.Outbox != nil {
		now := deps.Now()
		payload := PasswordChangedEmail(deps.ClubEmail, member.Username, member.Name, now)
		if err := EnqueueEmail(ctx, deps.Outbox, deps.GenerateID(), payload, now); err != nil {
			slog.Warn("outbox_event", "event", "enqueue_failed", "username", input.Username, "error", err.Error())
		}
	}
	return nil
}
