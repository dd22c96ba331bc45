package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"clubktm/internal/domain/record"
)

// Applicant role values accepted on a program application.
const (
	ApplicantParticipant = "participant"
	ApplicantCoach       = "coach"
)

// SubmitApplicationInput carries one program application from the public site.
type SubmitApplicationInput struct {
	Program    string
	Role       string // participant or coach
	Name       string
	Email      string
	Phone      string
	Age        int    // required for participants
	Experience string // required for coaches
	Message    string
}

// SubmitApplicationDeps holds dependencies for SubmitApplication.
type SubmitApplicationDeps struct {
	Collections CollectionStore
	Outbox      OutboxStoreForEnqueue // nil disables the notification
	ClubEmail   string
	GenerateID  func() string
	Now         func() time.Time
}

var (
	ErrInvalidApplication   = errors.New("application is missing required fields")
	ErrInvalidApplicantRole = errors.New("applicant role must be participant or coach")
)

// ExecuteSubmitApplication validates and stores a program application, then
// queues a notification email for the club inbox.
// PRE: Input comes from the public application form, unauthenticated
// POST: Application stored in the applications collection with a fresh id;
// notification queued best-effort
func ExecuteSubmitApplication(ctx context.Context, input SubmitApplicationInput, deps SubmitApplicationDeps) (record.Record, error) {
	if err := validateApplication(input); err != nil {
		return nil, err
	}

	now := deps.Now()
	fields := record.Record{
		"program":     input.Program,
		"role":        input.Role,
		"name":        strings.TrimSpace(input.Name),
		"email":       strings.TrimSpace(input.Email),
		"phone":       strings.TrimSpace(input.Phone),
		"message":     input.Message,
		"submittedAt": now.Format(time.RFC3339),
	}
	if input.Role == ApplicantParticipant {
		fields["age"] = input.Age
	} else {
		fields["experience"] = input.Experience
	}

	stored, err := ExecuteAddRecord(ctx, AddRecordInput{
		Collection: record.CollectionApplications,
		Fields:     fields,
	}, AddRecordDeps{Collections: deps.Collections})
	if err != nil {
		return nil, err
	}

	slog.Info("application_event", "event", "application_submitted", "id", stored.ID(), "program", input.Program, "role", input.Role)

	if deps.Outbox != nil {
		payload := ApplicationEmail(deps.ClubEmail, stored)
		if err := EnqueueEmail(ctx, deps.Outbox, deps.GenerateID(), payload, now); err != nil {
			slog.Warn("outbox_event", "event", "enqueue_failed", "application_id", stored.ID(), "error", err.Error())
		}
	}
	return stored, nil
}

func validateApplication(input SubmitApplicationInput) error {
	if strings.TrimSpace(input.Name) == "" ||
		strings.TrimSpace(input.Email) == "" ||
		strings.TrimSpace(input.Phone) == "" ||
		strings.TrimSpace(input.Program) == "" {
		return ErrInvalidApplication
	}
	switch input.Role {
	case ApplicantParticipant:
		if input.Age <= 0 {
			return ErrInvalidApplication
		}
	case ApplicantCoach:
		if strings.TrimSpace(input.Experience) == "" {
			return ErrInvalidApplication
		}
	default:
		return ErrInvalidApplicantRole
	}
	return nil
}
