package ports

import (
	"context"

	"github.com/mentorlink/sphere-api/internal/core/domain"
)

// MentorInput carries the writable fields of a mentor profile.
type MentorInput struct {
	Name      string
	Expertise string
	Bio       string
	Email     string
}

// MentorService defines use-case operations for mentor profiles.
type MentorService interface {
	CreateMentor(ctx context.Context, input MentorInput) (*domain.Mentor, error)
	GetMentor(ctx context.Context, id string) (*domain.Mentor, error)
	ListMentors(ctx context.Context) ([]*domain.Mentor, error)
	UpdateMentor(ctx context.Context, id string, input MentorInput) (*domain.Mentor, error)
	DeleteMentor(ctx context.Context, id string) error
}
