package orchestrators

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"time"

	emailAdapter "clubktm/internal/adapters/email"
	"clubktm/internal/domain/outbox"
	"clubktm/internal/domain/record"
)

// EmailPayload is the JSON structure stored in outbox entries for the email
// action type. It holds everything needed to replay the send later.
type EmailPayload struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// OutboxStoreForEnqueue defines the store interface needed to queue an entry.
type OutboxStoreForEnqueue interface {
	Save(ctx context.Context, e outbox.Entry) error
}

// EnqueueEmail queues an email notification for background delivery. Callers
// treat failures as best-effort: the triggering operation has already
// succeeded, so an enqueue failure is logged, never propagated as a hard
// error to the user.
// POST: Pending outbox entry persisted with the serialized payload
func EnqueueEmail(ctx context.Context, store OutboxStoreForEnqueue, id string, payload EmailPayload, now time.Time) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}

	entry := outbox.Entry{
		ID:          id,
		ActionType:  outbox.ActionTypeEmail,
		Payload:     string(raw),
		Status:      outbox.StatusPending,
		MaxAttempts: outbox.DefaultMaxAttempts,
		CreatedAt:   now,
	}
	if err := entry.Validate(); err != nil {
		return err
	}
	if err := store.Save(ctx, entry); err != nil {
		return fmt.Errorf("enqueue email: %w", err)
	}

	slog.Info("outbox_event", "event", "email_enqueued", "entry_id", id, "subject", payload.Subject)
	return nil
}

// PasswordChangedEmail builds the notification sent to the club inbox when a
// staff member changes their password.
func PasswordChangedEmail(clubEmail, username, name string, at time.Time) EmailPayload {
	body := fmt.Sprintf(
		"<h2>Password Changed</h2><p><strong>%s</strong> (%s) changed their password on %s.</p><p>If this was not expected, review the staff directory.</p>",
		html.EscapeString(name), html.EscapeString(username), at.Format("2 January 2006 at 15:04"),
	)
	return EmailPayload{
		To:      []string{clubEmail},
		Subject: fmt.Sprintf("Staff password changed: %s", username),
		HTML:    body,
	}
}

// ApplicationEmail builds the notification sent to the club inbox for a new
// program application.
func ApplicationEmail(clubEmail string, app record.Record) EmailPayload {
	rows := ""
	for _, f := range []struct{ label, key string }{
		{"Name", "name"},
		{"Email", "email"},
		{"Phone", "phone"},
		{"Program", "program"},
		{"Applying as", "role"},
		{"Age", "age"},
		{"Experience", "experience"},
		{"Message", "message"},
	} {
		v := app.String(f.key)
		if v == "" && f.key == "age" {
			if n := app.Int("age"); n > 0 {
				v = fmt.Sprintf("%d", n)
			}
		}
		if v == "" {
			continue
		}
		rows += fmt.Sprintf("<tr><td><strong>%s</strong></td><td>%s</td></tr>", f.label, html.EscapeString(v))
	}
	return EmailPayload{
		To:      []string{clubEmail},
		Subject: fmt.Sprintf("New program application: %s", app.String("name")),
		HTML:    "<h2>New Program Application</h2><table>" + rows + "</table>",
		ReplyTo: app.String("email"),
	}
}

// ContactEmail builds the notification sent to the club inbox for a contact
// form message.
func ContactEmail(clubEmail, name, fromEmail, phone, message string) EmailPayload {
	body := fmt.Sprintf(
		"<h2>Contact Message</h2><p><strong>From:</strong> %s (%s)</p><p><strong>Phone:</strong> %s</p><p>%s</p>",
		html.EscapeString(name), html.EscapeString(fromEmail), html.EscapeString(phone), html.EscapeString(message),
	)
	return EmailPayload{
		To:      []string{clubEmail},
		Subject: fmt.Sprintf("Contact message from %s", name),
		HTML:    body,
		ReplyTo: fromEmail,
	}
}

// EmailExecutor delivers queued email payloads through the configured sender.
type EmailExecutor struct {
	Sender emailAdapter.Sender
	From   string
}

// Execute sends an email from the payload.
// PRE: payload is valid JSON matching EmailPayload
// POST: Email sent via configured sender, returns the provider message ID
// INVARIANT: outbox entry status managed by caller
func (e *EmailExecutor) Execute(ctx context.Context, payload string) (string, error) {
	var p EmailPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return "", fmt.Errorf("unmarshal email payload: %w", err)
	}

	result, err := e.Sender.Send(ctx, emailAdapter.SendRequest{
		To:      p.To,
		From:    e.From,
		Subject: p.Subject,
		HTML:    p.HTML,
		ReplyTo: p.ReplyTo,
	})
	if err != nil {
		return "", err
	}
	return result.MessageID, nil
}
