package domain

import (
	"errors"
	"time"
)

// UpdateType classifies a course update.
type UpdateType string

const (
	UpdateMaterial   UpdateType = "material"
	UpdateQuiz       UpdateType = "quiz"
	UpdateVideo      UpdateType = "video"
	UpdateAssignment UpdateType = "assignment"
)

var ErrInvalidUpdateType = errors.New("invalid update type")

// ValidUpdateType reports whether t is one of the known update kinds.
func ValidUpdateType(t UpdateType) bool {
	switch t {
	case UpdateMaterial, UpdateQuiz, UpdateVideo, UpdateAssignment:
		return true
	}
	return false
}

// CourseUpdate is a notification about new content in a course. Updates are
// persisted for history, cached in a per-course feed, and broadcast to
// connected realtime clients.
type CourseUpdate struct {
	ID          string     `json:"id"`
	Type        UpdateType `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CourseID    string     `json:"course_id"`
	CourseName  string     `json:"course_name"`
	URL         string     `json:"url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
