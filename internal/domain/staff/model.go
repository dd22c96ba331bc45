package staff

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// RoleAdministrator is the only role with special meaning: it alone may add
// staff members. Every other role is a free-form display string.
const RoleAdministrator = "Administrator"

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// Domain errors
var (
	ErrEmptyUsername     = errors.New("username cannot be empty")
	ErrEmptyName         = errors.New("name cannot be empty")
	ErrEmptyRole         = errors.New("role cannot be empty")
	ErrWeakPassword      = errors.New("password must be at least 8 characters long")
	ErrIncorrectPassword = errors.New("incorrect password")
)

// Member holds state for one staff directory entry. Usernames are the unique
// key and are matched case-sensitively.
type Member struct {
	Username     string
	PasswordHash string
	Name         string
	Role         string
	Email        string
	CreatedAt    time.Time
}

// Summary is the non-sensitive projection of a member handed to the UI and
// stored on the session.
type Summary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Validate checks if the Member has valid data.
// PRE: Member struct is populated
// POST: Returns nil if valid, error otherwise
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Username) == "" {
		return ErrEmptyUsername
	}
	if strings.ContainsAny(m.Username, " \t\n") {
		return errors.New("username cannot contain whitespace")
	}
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(m.Role) == "" {
		return ErrEmptyRole
	}
	return nil
}

// SetPassword hashes and stores a password using bcrypt with cost 12.
// PRE: plaintext is at least MinPasswordLength characters
// POST: PasswordHash is set to bcrypt hash
func (m *Member) SetPassword(plaintext string) error {
	if len(plaintext) < MinPasswordLength {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), 12)
	if err != nil {
		return err
	}
	m.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// INVARIANT: Member fields are not mutated
func (m *Member) CheckPassword(plaintext string) error {
	if m.PasswordHash == "" {
		return ErrIncorrectPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(plaintext)); err != nil {
		return ErrIncorrectPassword
	}
	return nil
}

// IsAdministrator returns true if the member may manage the staff directory.
// INVARIANT: Member fields are not mutated
func (m *Member) IsAdministrator() bool {
	return m.Role == RoleAdministrator
}

// Summary returns the member's non-sensitive summary.
func (m *Member) Summary() Summary {
	return Summary{ID: m.Username, Name: m.Name, Role: m.Role}
}

// SeedMember is one entry of the hard-coded default staff set. Passwords are
// plaintext here and hashed at seed time; they exist only so a fresh install
// has a working login.
type SeedMember struct {
	Username string
	Name     string
	Role     string
	Password string
	Email    string
}

// DefaultSeed returns the initial staff directory used when the directory is
// empty. Operators are expected to change these passwords after first login.
func DefaultSeed() []SeedMember {
	return []SeedMember{
		{Username: "khayalethu", Name: "Khayalethu Ngangqu", Role: "Director", Password: "YourPassword@123"},
		{Username: "coach_john", Name: "John Smith", Role: "Coach", Password: "CoachPass@456"},
	}
}
