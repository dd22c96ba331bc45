package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

// SubmitContactInput carries one contact form message from the public site.
type SubmitContactInput struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// SubmitContactDeps holds dependencies for SubmitContact.
type SubmitContactDeps struct {
	Outbox     OutboxStoreForEnqueue
	ClubEmail  string
	GenerateID func() string
	Now        func() time.Time
}

var ErrInvalidContact = errors.New("contact message is missing required fields")

// ExecuteSubmitContact validates a contact message and queues it for the club
// inbox. Unlike applications, contact messages are not stored as records;
// the outbox entry is their only persistence.
// POST: Pending outbox entry created for the notification
func ExecuteSubmitContact(ctx context.Context, input SubmitContactInput, deps SubmitContactDeps) error {
	if strings.TrimSpace(input.Name) == "" ||
		strings.TrimSpace(input.Email) == "" ||
		strings.TrimSpace(input.Message) == "" {
		return ErrInvalidContact
	}

	payload := ContactEmail(deps.ClubEmail, input.Name, input.Email, input.Phone, input.Message)
	if err := EnqueueEmail(ctx, deps.Outbox, deps.GenerateID(), payload, deps.Now()); err != nil {
		return err
	}

	slog.Info("contact_event", "event", "contact_submitted", "from", input.Email)
	return nil
}
