package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mentorlink/sphere-api/internal/core/domain"
)

const mentorCollection = "mentors"

// MentorRepository persists mentor profiles. Mentor email carries no
// uniqueness constraint.
type MentorRepository struct {
	coll *mongo.Collection
}

func NewMentorRepository(db *mongo.Database) *MentorRepository {
	return &MentorRepository{coll: db.Collection(mentorCollection)}
}

type mongoMentor struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Expertise string             `bson:"expertise"`
	Bio       string             `bson:"bio"`
	Email     string             `bson:"email"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (mm *mongoMentor) toDomain() *domain.Mentor {
	return &domain.Mentor{
		ID:        mm.ID.Hex(),
		Name:      mm.Name,
		Expertise: mm.Expertise,
		Bio:       mm.Bio,
		Email:     mm.Email,
		CreatedAt: mm.CreatedAt,
		UpdatedAt: mm.UpdatedAt,
	}
}

func (r *MentorRepository) Create(ctx context.Context, m *domain.Mentor) (*domain.Mentor, error) {
	now := time.Now().UTC()
	doc := mongoMentor{
		Name:      m.Name,
		Expertise: m.Expertise,
		Bio:       m.Bio,
		Email:     m.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert mentor: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *MentorRepository) FindByID(ctx context.Context, id string) (*domain.Mentor, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrMentorNotFound
	}

	var mm mongoMentor
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mm); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrMentorNotFound
		}
		return nil, fmt.Errorf("find mentor: %w", err)
	}
	return mm.toDomain(), nil
}

func (r *MentorRepository) List(ctx context.Context) ([]*domain.Mentor, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list mentors: %w", err)
	}
	defer cur.Close(ctx)

	var mentors []*domain.Mentor
	for cur.Next(ctx) {
		var mm mongoMentor
		if err := cur.Decode(&mm); err != nil {
			return nil, fmt.Errorf("decode mentor: %w", err)
		}
		mentors = append(mentors, mm.toDomain())
	}
	return mentors, cur.Err()
}

func (r *MentorRepository) Update(ctx context.Context, m *domain.Mentor) (*domain.Mentor, error) {
	oid, err := primitive.ObjectIDFromHex(m.ID)
	if err != nil {
		return nil, domain.ErrMentorNotFound
	}

	set := bson.M{
		"name":       m.Name,
		"expertise":  m.Expertise,
		"bio":        m.Bio,
		"email":      m.Email,
		"updated_at": time.Now().UTC(),
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("update mentor: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrMentorNotFound
	}

	return r.FindByID(ctx, m.ID)
}

func (r *MentorRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrMentorNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete mentor: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrMentorNotFound
	}
	return nil
}
