package outbox

import (
	"errors"
	"testing"
	"time"
)

func validEntry() Entry {
	return Entry{
		ID:          "e1",
		ActionType:  ActionTypeEmail,
		Payload:     `{"to":["x@example.com"]}`,
		Status:      StatusPending,
		MaxAttempts: 3,
		CreatedAt:   time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

// TestValidate verifies required fields and the MaxAttempts default.
func TestValidate(t *testing.T) {
	e := validEntry()
	if err := e.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	e = validEntry()
	e.ActionType = ""
	if err := e.Validate(); !errors.Is(err, ErrEmptyActionType) {
		t.Errorf("got %v, want ErrEmptyActionType", err)
	}

	e = validEntry()
	e.Payload = ""
	if err := e.Validate(); !errors.Is(err, ErrEmptyPayload) {
		t.Errorf("got %v, want ErrEmptyPayload", err)
	}

	e = validEntry()
	e.MaxAttempts = 0
	if err := e.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.MaxAttempts != DefaultMaxAttempts {
		t.Errorf("MaxAttempts = %d, want %d", e.MaxAttempts, DefaultMaxAttempts)
	}
}

// TestRetryLifecycle walks an entry through failures to a terminal state.
func TestRetryLifecycle(t *testing.T) {
	e := validEntry()
	now := e.CreatedAt

	if !e.CanRetry() {
		t.Fatal("fresh pending entry must be retryable")
	}

	failure := errors.New("provider timeout")
	for i := 0; i < 3; i++ {
		e.MarkAttempt(now.Add(time.Duration(i) * time.Minute))
		e.MarkFailed(failure)
	}

	if e.Status != StatusFailed {
		t.Errorf("status = %q, want failed", e.Status)
	}
	if e.CanRetry() {
		t.Error("entry at max attempts must not be retryable")
	}
	if !e.IsTerminal() {
		t.Error("failed entry at max attempts must be terminal")
	}
	if e.ErrorMessage != "provider timeout" {
		t.Errorf("ErrorMessage = %q", e.ErrorMessage)
	}
}

// TestMarkSuccess verifies delivery clears the error and records the id.
func TestMarkSuccess(t *testing.T) {
	e := validEntry()
	e.MarkAttempt(e.CreatedAt)
	e.MarkSuccess("msg-123")

	if e.Status != StatusDone {
		t.Errorf("status = %q, want done", e.Status)
	}
	if e.MessageID != "msg-123" {
		t.Errorf("MessageID = %q", e.MessageID)
	}
	if !e.IsTerminal() || e.CanRetry() {
		t.Error("done entry must be terminal and not retryable")
	}
}

// TestMarkAbandoned verifies operator abandonment is terminal.
func TestMarkAbandoned(t *testing.T) {
	e := validEntry()
	e.MarkAbandoned()
	if !e.IsTerminal() {
		t.Error("abandoned entry must be terminal")
	}
}

// TestNextRetryDelay verifies exponential backoff with a cap.
func TestNextRetryDelay(t *testing.T) {
	base := 30 * time.Second
	max := 5 * time.Minute

	cases := []struct {
		attempts int
		want     time.Duration
	}{
		{1, 30 * time.Second},
		{2, time.Minute},
		{3, 2 * time.Minute},
		{4, 4 * time.Minute},
		{5, 5 * time.Minute},
		{20, 5 * time.Minute},
	}
	for _, tc := range cases {
		e := Entry{Attempts: tc.attempts}
		if got := e.NextRetryDelay(base, max); got != tc.want {
			t.Errorf("attempts=%d: delay = %v, want %v", tc.attempts, got, tc.want)
		}
	}
}
