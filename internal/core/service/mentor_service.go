package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mentorlink/sphere-api/internal/core/domain"
	"github.com/mentorlink/sphere-api/internal/core/ports"
)

// MentorService implements CRUD over mentor profiles. There is no uniqueness
// constraint on mentor email.
type MentorService struct {
	repo ports.MentorRepository
	log  zerolog.Logger
}

func NewMentorService(repo ports.MentorRepository, log zerolog.Logger) *MentorService {
	return &MentorService{repo: repo, log: log}
}

func (s *MentorService) CreateMentor(ctx context.Context, input ports.MentorInput) (*domain.Mentor, error) {
	if input.Name == "" || input.Email == "" {
		return nil, domain.ErrInvalidInput
	}

	created, err := s.repo.Create(ctx, &domain.Mentor{
		Name:      input.Name,
		Expertise: input.Expertise,
		Bio:       input.Bio,
		Email:     input.Email,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("mentor_id", created.ID).Str("name", created.Name).Msg("mentor created")
	return created, nil
}

func (s *MentorService) GetMentor(ctx context.Context, id string) (*domain.Mentor, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *MentorService) ListMentors(ctx context.Context) ([]*domain.Mentor, error) {
	return s.repo.List(ctx)
}

func (s *MentorService) UpdateMentor(ctx context.Context, id string, input ports.MentorInput) (*domain.Mentor, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = input.Name
	existing.Expertise = input.Expertise
	existing.Bio = input.Bio
	existing.Email = input.Email

	return s.repo.Update(ctx, existing)
}

func (s *MentorService) DeleteMentor(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
