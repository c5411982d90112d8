package ports

import (
	"context"

	"github.com/mentorlink/sphere-api/internal/core/domain"
)

// CourseUpdateInput is the DTO passed from the transport layer to UpdateService.
type CourseUpdateInput struct {
	Type        string
	Title       string
	Description string
	CourseID    string
	CourseName  string
	URL         string
}

// UpdateService publishes course updates and serves recent history.
type UpdateService interface {
	Publish(ctx context.Context, input CourseUpdateInput) (*domain.CourseUpdate, error)
	Recent(ctx context.Context, courseID string) ([]*domain.CourseUpdate, error)
}
