package staffdir

import (
	"context"

	domain "clubktm/internal/domain/staff"
)

// Store persists the staff directory.
type Store interface {
	GetByUsername(ctx context.Context, username string) (domain.Member, error)
	Save(ctx context.Context, m domain.Member) error
	Delete(ctx context.Context, username string) error
	List(ctx context.Context) ([]domain.Member, error)
	Count(ctx context.Context) (int, error)
}
