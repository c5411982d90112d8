package ports

import (
	"context"

	"github.com/mentorlink/sphere-api/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// SetVerified flips the verification flag for the given user.
	SetVerified(ctx context.Context, id string, verified bool) error
	// UpdatePasswordHash replaces the stored hash for the given user.
	UpdatePasswordHash(ctx context.Context, id string, hash string) error
}
