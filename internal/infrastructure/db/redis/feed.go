package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mentorlink/sphere-api/internal/core/domain"
)

const (
	feedLimit   = 50
	feedTTL     = 7 * 24 * time.Hour
	feedChannel = "course_updates"
)

// UpdateFeed keeps a capped, per-course list of recent updates and publishes
// every update on a shared channel so all service instances can fan it out
// to their connected realtime clients.
// Key format: feed:<course_id>
type UpdateFeed struct {
	client *redis.Client
}

// NewUpdateFeed creates an UpdateFeed wrapping the given Redis client.
func NewUpdateFeed(client *redis.Client) *UpdateFeed {
	return &UpdateFeed{client: client}
}

// Push prepends update to its course feed and trims the feed to feedLimit.
func (f *UpdateFeed) Push(ctx context.Context, update *domain.CourseUpdate) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("marshal update: %w", err)
	}

	key := f.key(update.CourseID)
	pipe := f.client.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, feedLimit-1)
	pipe.Expire(ctx, key, feedTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push feed: %w", err)
	}
	return nil
}

// Broadcast publishes update on the shared channel. Every instance's Relay
// picks it up and hands it to the local realtime hub.
func (f *UpdateFeed) Broadcast(ctx context.Context, update *domain.CourseUpdate) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("marshal update: %w", err)
	}
	if err := f.client.Publish(ctx, feedChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish update: %w", err)
	}
	return nil
}

// Recent returns the cached feed for courseID, newest first.
func (f *UpdateFeed) Recent(ctx context.Context, courseID string) ([]*domain.CourseUpdate, error) {
	raw, err := f.client.LRange(ctx, f.key(courseID), 0, feedLimit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}

	updates := make([]*domain.CourseUpdate, 0, len(raw))
	for _, item := range raw {
		var u domain.CourseUpdate
		if err := json.Unmarshal([]byte(item), &u); err != nil {
			return nil, fmt.Errorf("decode feed item: %w", err)
		}
		updates = append(updates, &u)
	}
	return updates, nil
}

func (f *UpdateFeed) key(courseID string) string {
	return fmt.Sprintf("feed:%s", courseID)
}

// Sink receives updates that arrived on the shared channel.
type Sink interface {
	HandleUpdate(update *domain.CourseUpdate)
}

// Relay subscribes to the shared channel and forwards every update to sink
// until ctx is cancelled. Malformed payloads are logged and dropped.
func (f *UpdateFeed) Relay(ctx context.Context, sink Sink, log zerolog.Logger) {
	sub := f.client.Subscribe(ctx, feedChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var u domain.CourseUpdate
			if err := json.Unmarshal([]byte(msg.Payload), &u); err != nil {
				log.Warn().Err(err).Msg("dropping malformed update payload")
				continue
			}
			sink.HandleUpdate(&u)
		}
	}
}
