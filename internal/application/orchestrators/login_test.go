package orchestrators

import (
	"context"
	"errors"
	"testing"

	"clubktm/internal/domain/staff"
)

// TestLogin_Success verifies a correct credential pair returns the summary.
func TestLogin_Success(t *testing.T) {
	store := newMockStaffStore()
	store.seedMember("khayalethu", "Khayalethu Ngangqu", "Director", "YourPassword@123")

	summary, err := ExecuteLogin(context.Background(), LoginInput{
		Username: "khayalethu",
		Password: "YourPassword@123",
	}, LoginDeps{Staff: store})
	if err != nil {
		t.Fatalf("ExecuteLogin: %v", err)
	}
	if summary.ID != "khayalethu" || summary.Name != "Khayalethu Ngangqu" || summary.Role != "Director" {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

// TestLogin_UnknownUsername verifies the username failure is distinct from
// the password failure.
func TestLogin_UnknownUsername(t *testing.T) {
	store := newMockStaffStore()
	store.seedMember("khayalethu", "Khayalethu Ngangqu", "Director", "YourPassword@123")

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Username: "ghost",
		Password: "YourPassword@123",
	}, LoginDeps{Staff: store})
	if !errors.Is(err, ErrInvalidUsername) {
		t.Errorf("err = %v, want ErrInvalidUsername", err)
	}
}

// TestLogin_WrongPassword verifies a known username with a bad password
// surfaces the password error.
func TestLogin_WrongPassword(t *testing.T) {
	store := newMockStaffStore()
	store.seedMember("khayalethu", "Khayalethu Ngangqu", "Director", "YourPassword@123")

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Username: "khayalethu",
		Password: "wrong-password",
	}, LoginDeps{Staff: store})
	if !errors.Is(err, staff.ErrIncorrectPassword) {
		t.Errorf("err = %v, want ErrIncorrectPassword", err)
	}
}

// TestLogin_CaseSensitiveUsername verifies usernames do not fold case.
func TestLogin_CaseSensitiveUsername(t *testing.T) {
	store := newMockStaffStore()
	store.seedMember("khayalethu", "Khayalethu Ngangqu", "Director", "YourPassword@123")

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Username: "Khayalethu",
		Password: "YourPassword@123",
	}, LoginDeps{Staff: store})
	if !errors.Is(err, ErrInvalidUsername) {
		t.Errorf("err = %v, want ErrInvalidUsername", err)
	}
}
