package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"clubktm/internal/domain/staff"
)

// StaffStoreForSeed defines the store interface needed by SeedStaff.
type StaffStoreForSeed interface {
	Count(ctx context.Context) (int, error)
	Save(ctx context.Context, m staff.Member) error
}

// SeedStaffDeps holds dependencies for SeedStaff.
type SeedStaffDeps struct {
	Staff StaffStoreForSeed
	Now   func() time.Time
}

// ExecuteSeedStaff populates an empty staff directory with the default
// accounts so a fresh install has a working login. A non-empty directory is
// left alone, so operator password changes survive restarts.
// POST: Directory holds the default members iff it was empty
func ExecuteSeedStaff(ctx context.Context, deps SeedStaffDeps) error {
	count, err := deps.Staff.Count(ctx)
	if err != nil {
		return fmt.Errorf("count staff: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, seed := range staff.DefaultSeed() {
		member := staff.Member{
			Username:  seed.Username,
			Name:      seed.Name,
			Role:      seed.Role,
			Email:     seed.Email,
			CreatedAt: deps.Now(),
		}
		if err := member.SetPassword(seed.Password); err != nil {
			return fmt.Errorf("seed %s: %w", seed.Username, err)
		}
		if err := deps.Staff.Save(ctx, member); err != nil {
			return fmt.Errorf("seed %s: %w", seed.Username, err)
		}
	}

	slog.Info("auth_event", "event", "staff_seeded", "count", len(staff.DefaultSeed()))
	return nil
}
