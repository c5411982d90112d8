package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mentorlink/sphere-api/internal/core/domain"
)

const updateCollection = "course_updates"

// UpdateRepository is the durable audit trail for course updates; the Redis
// feed in front of it is a cache.
type UpdateRepository struct {
	coll *mongo.Collection
}

func NewUpdateRepository(db *mongo.Database) *UpdateRepository {
	return &UpdateRepository{coll: db.Collection(updateCollection)}
}

type mongoUpdate struct {
	ID          string    `bson:"_id"`
	Type        string    `bson:"type"`
	Title       string    `bson:"title"`
	Description string    `bson:"description,omitempty"`
	CourseID    string    `bson:"course_id"`
	CourseName  string    `bson:"course_name,omitempty"`
	URL         string    `bson:"url,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
}

func (r *UpdateRepository) Insert(ctx context.Context, u *domain.CourseUpdate) error {
	doc := mongoUpdate{
		ID:          u.ID,
		Type:        string(u.Type),
		Title:       u.Title,
		Description: u.Description,
		CourseID:    u.CourseID,
		CourseName:  u.CourseName,
		URL:         u.URL,
		CreatedAt:   u.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert update: %w", err)
	}
	return nil
}

func (r *UpdateRepository) ListByCourse(ctx context.Context, courseID string, limit int) ([]*domain.CourseUpdate, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{"course_id": courseID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list updates: %w", err)
	}
	defer cur.Close(ctx)

	var updates []*domain.CourseUpdate
	for cur.Next(ctx) {
		var mu mongoUpdate
		if err := cur.Decode(&mu); err != nil {
			return nil, fmt.Errorf("decode update: %w", err)
		}
		updates = append(updates, &domain.CourseUpdate{
			ID:          mu.ID,
			Type:        domain.UpdateType(mu.Type),
			Title:       mu.Title,
			Description: mu.Description,
			CourseID:    mu.CourseID,
			CourseName:  mu.CourseName,
			URL:         mu.URL,
			CreatedAt:   mu.CreatedAt,
		})
	}
	return updates, cur.Err()
}
