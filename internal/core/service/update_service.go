package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mentorlink/sphere-api/internal/api/metrics"
	"github.com/mentorlink/sphere-api/internal/core/domain"
	"github.com/mentorlink/sphere-api/internal/core/ports"
)

// FeedCache abstracts the capped per-course feed (Redis).
type FeedCache interface {
	Push(ctx context.Context, update *domain.CourseUpdate) error
	Recent(ctx context.Context, courseID string) ([]*domain.CourseUpdate, error)
}

// Broadcaster fans a published update out to connected realtime clients.
type Broadcaster interface {
	Broadcast(ctx context.Context, update *domain.CourseUpdate) error
}

const recentLimit = 50

type updateService struct {
	repo      ports.UpdateRepository
	feed      FeedCache
	broadcast Broadcaster
	log       zerolog.Logger
}

// NewUpdateService returns an UpdateService implementation.
func NewUpdateService(repo ports.UpdateRepository, feed FeedCache, broadcast Broadcaster, log zerolog.Logger) ports.UpdateService {
	return &updateService{repo: repo, feed: feed, broadcast: broadcast, log: log}
}

// Publish validates, persists, caches, and broadcasts a course update.
// Feed and broadcast failures are non-fatal; the persisted record is the
// source of truth.
func (s *updateService) Publish(ctx context.Context, in ports.CourseUpdateInput) (*domain.CourseUpdate, error) {
	kind := domain.UpdateType(in.Type)
	if !domain.ValidUpdateType(kind) {
		return nil, fmt.Errorf("publish update: %w (%q)", domain.ErrInvalidUpdateType, in.Type)
	}
	if in.Title == "" || in.CourseID == "" {
		return nil, domain.ErrInvalidInput
	}

	update := &domain.CourseUpdate{
		ID:          uuid.NewString(),
		Type:        kind,
		Title:       in.Title,
		Description: in.Description,
		CourseID:    in.CourseID,
		CourseName:  in.CourseName,
		URL:         in.URL,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, update); err != nil {
		return nil, fmt.Errorf("publish update: %w", err)
	}

	if err := s.feed.Push(ctx, update); err != nil {
		s.log.Warn().Err(err).Str("course_id", update.CourseID).Msg("failed to push update to feed")
	}

	if err := s.broadcast.Broadcast(ctx, update); err != nil {
		s.log.Warn().Err(err).Str("course_id", update.CourseID).Msg("failed to broadcast update")
	}

	// Counted here rather than at enqueue time so rejected or failed
	// updates never show up as published.
	metrics.UpdatesPublishedTotal.WithLabelValues(string(update.Type)).Inc()

	s.log.Info().
		Str("update_id", update.ID).
		Str("course_id", update.CourseID).
		Str("type", string(update.Type)).
		Msg("course update published")

	return update, nil
}

// Recent serves the capped feed, falling back to the store when the cache is
// empty or unavailable.
func (s *updateService) Recent(ctx context.Context, courseID string) ([]*domain.CourseUpdate, error) {
	if courseID == "" {
		return nil, domain.ErrInvalidInput
	}

	updates, err := s.feed.Recent(ctx, courseID)
	if err != nil {
		s.log.Warn().Err(err).Str("course_id", courseID).Msg("feed read failed, falling back to store")
	} else if len(updates) > 0 {
		return updates, nil
	}

	return s.repo.ListByCourse(ctx, courseID, recentLimit)
}
