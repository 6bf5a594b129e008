package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/joyeria-diana-laura/backend/internal/model"
)

// ProfileRepository defines the interface for the document-store user profile.
type ProfileRepository interface {
	CreateProfile(ctx context.Context, profile *model.Profile) (*model.Profile, error)
	GetProfileByUID(ctx context.Context, uid string) (*model.Profile, error)
	EmailExists(ctx context.Context, email string) (bool, error)

	// UpdateLastLogin stamps ultimo_login on the profile.
	UpdateLastLogin(ctx context.Context, uid string) error

	// MarkEmailVerified flips email_verified to true. The flag is monotonic:
	// marking an already-verified profile is a no-op.
	MarkEmailVerified(ctx context.Context, uid string) error
}

const profileCollection = "users"

type profileMongoRepository struct {
	db *mongo.Database
}

// NewProfileMongoRepository creates the MongoDB repository for user profiles.
func NewProfileMongoRepository(ctx context.Context, db *mongo.Database) (ProfileRepository, error) {
	collection := db.Collection(profileCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, err
	}

	return &profileMongoRepository{db: db}, nil
}

func (r *profileMongoRepository) CreateProfile(
	ctx context.Context,
	profile *model.Profile,
) (*model.Profile, error) {
	now := time.Now()
	profile.FechaCreacion = now
	profile.FechaActualizacion = now

	if _, err := r.db.Collection(profileCollection).InsertOne(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

func (r *profileMongoRepository) GetProfileByUID(ctx context.Context, uid string) (*model.Profile, error) {
	result := r.db.Collection(profileCollection).FindOne(ctx, bson.M{"_id": uid})
	if result.Err() != nil {
		if errors.Is(result.Err(), mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, result.Err()
	}

	var profile model.Profile
	if err := result.Decode(&profile); err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *profileMongoRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	count, err := r.db.Collection(profileCollection).CountDocuments(
		ctx,
		bson.M{"email": email, "activo": true},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *profileMongoRepository) UpdateLastLogin(ctx context.Context, uid string) error {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"ultimo_login":        now,
			"fecha_actualizacion": now,
		},
	}

	result, err := r.db.Collection(profileCollection).UpdateOne(ctx, bson.M{"_id": uid}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *profileMongoRepository) MarkEmailVerified(ctx context.Context, uid string) error {
	filter := bson.M{"_id": uid, "email_verified": false}
	update := bson.M{
		"$set": bson.M{
			"email_verified":      true,
			"fecha_actualizacion": time.Now(),
		},
	}

	// MatchedCount 0 covers both a missing profile and one already verified;
	// the flag only ever moves false to true so neither case is an error here.
	_, err := r.db.Collection(profileCollection).UpdateOne(ctx, filter, update)
	return err
}
