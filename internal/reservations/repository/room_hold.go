package repository

import (
	"context"
	"fmt"
	"time"

	"hostal/pkg/config"
	"hostal/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	RoomHoldCollectionName = "room_holds"
)

// RoomHoldRepository manages the advisory locks taken while a booking
// transaction is in flight.
type RoomHoldRepository interface {
	Create(ctx context.Context, hold *model.RoomHold) (*model.RoomHold, error)
	Delete(ctx context.Context, holdID string) error
	EnsureIndexes(ctx context.Context) error
}

type mongoRoomHoldRepository struct {
	collection *mongo.Collection
}

func NewMongoRoomHoldRepository(cfg *config.Config) RoomHoldRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomHoldRepository{
		collection: db.Collection(RoomHoldCollectionName),
	}
}

// Create inserts the hold. A duplicate key error means the room is held by a
// concurrent request; callers must check with mongo.IsDuplicateKeyError.
func (r *mongoRoomHoldRepository) Create(ctx context.Context, hold *model.RoomHold) (*model.RoomHold, error) {
	hold.CreatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, hold); err != nil {
		return nil, err
	}
	return hold, nil
}

func (r *mongoRoomHoldRepository) Delete(ctx context.Context, holdID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": holdID})
	return err
}

// EnsureIndexes installs the TTL index that reaps holds leaked by requests
// that died before releasing them.
func (r *mongoRoomHoldRepository) EnsureIndexes(ctx context.Context) error {
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("failed to create room hold TTL index: %w", err)
	}
	return nil
}
