package ports

import (
	"context"

	"github.com/mentorlink/sphere-api/internal/core/domain"
)

// UpdateRepository persists course updates for history lookups.
type UpdateRepository interface {
	Insert(ctx context.Context, u *domain.CourseUpdate) error
	// ListByCourse returns the most recent updates for a course, newest first.
	ListByCourse(ctx context.Context, courseID string, limit int) ([]*domain.CourseUpdate, error)
}
