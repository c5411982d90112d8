package ports

import (
	"context"

	"github.com/mentorlink/sphere-api/internal/core/domain"
)

// MentorRepository defines persistence for mentor profiles.
type MentorRepository interface {
	Create(ctx context.Context, m *domain.Mentor) (*domain.Mentor, error)
	FindByID(ctx context.Context, id string) (*domain.Mentor, error)
	List(ctx context.Context) ([]*domain.Mentor, error)
	Update(ctx context.Context, m *domain.Mentor) (*domain.Mentor, error)
	Delete(ctx context.Context, id string) error
}
