package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/joyeria-diana-laura/backend/internal/model"
)

// ActivityRepository appends entries to the user activity log. The log is
// append-only; nothing in this codebase updates or deletes entries.
type ActivityRepository interface {
	Append(ctx context.Context, uid string, kind model.ActivityKind, metadata map[string]any) error
	ListByUID(ctx context.Context, uid string) ([]model.Activity, error)
}

const activityCollection = "user_activities"

type activityMongoRepository struct {
	db *mongo.Database
}

// NewActivityMongoRepository creates the MongoDB repository for the activity log.
func NewActivityMongoRepository(ctx context.Context, db *mongo.Database) (ActivityRepository, error) {
	collection := db.Collection(activityCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "uid", Value: 1}, {Key: "timestamp", Value: -1}},
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, err
	}

	return &activityMongoRepository{db: db}, nil
}

func (r *activityMongoRepository) Append(
	ctx context.Context,
	uid string,
	kind model.ActivityKind,
	metadata map[string]any,
) error {
	activity := model.Activity{
		UID:       uid,
		Kind:      kind,
		Metadata:  metadata,
		Timestamp: time.Now(),
	}

	_, err := r.db.Collection(activityCollection).InsertOne(ctx, activity)
	return err
}

func (r *activityMongoRepository) ListByUID(ctx context.Context, uid string) ([]model.Activity, error) {
	cursor, err := r.db.Collection(activityCollection).Find(ctx, bson.M{"uid": uid})
	if err != nil {
		return nil, err
	}

	var activities []model.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, err
	}

	return activities, nil
}
