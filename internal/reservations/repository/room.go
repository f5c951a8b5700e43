package repository

import (
	"context"
	"fmt"
	"time"

	reserrors "hostal/internal/reservations/errors"
	"hostal/pkg/config"
	"hostal/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	RoomCollectionName = "rooms"
)

type mongoRoomRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type RoomRepository interface {
	FindAll(ctx context.Context) ([]*model.Room, error)
	FindByType(ctx context.Context, roomType string) ([]*model.Room, error)
	Seed(ctx context.Context, rooms []*model.Room) error
	EnsureIndexes(ctx context.Context) error
}

func NewMongoRoomRepository(cfg *config.Config) RoomRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomRepository{
		cfg:        cfg,
		collection: db.Collection(RoomCollectionName),
	}
}

func (r *mongoRoomRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoRoomRepository) FindAll(ctx context.Context) ([]*model.Room, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	defer cursor.Close(ctx)

	var rooms []*model.Room
	if err = cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}
	return rooms, nil
}

func (r *mongoRoomRepository) FindByType(ctx context.Context, roomType string) ([]*model.Room, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"type": roomType}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms by type: %w", err)
	}
	defer cursor.Close(ctx)

	var rooms []*model.Room
	if err = cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}
	if len(rooms) == 0 {
		return nil, fmt.Errorf("%w: %s", reserrors.ErrUnknownRoomType, roomType)
	}
	return rooms, nil
}

// Seed upserts the room catalog. Existing units keep their _id so bookings
// stay attached across restarts.
func (r *mongoRoomRepository) Seed(ctx context.Context, rooms []*model.Room) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	for _, room := range rooms {
		room.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
		filter := bson.M{"_id": room.ID}
		update := bson.M{
			"$set": bson.M{
				"type":         room.Type,
				"capacity":     room.Capacity,
				"nightly_rate": room.NightlyRate,
				"amenities":    room.Amenities,
			},
			"$setOnInsert": bson.M{"created_at": room.CreatedAt},
		}
		opts := options.Update().SetUpsert(true)
		if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
			return fmt.Errorf("failed to seed room %s: %w", room.ID, err)
		}
	}
	return nil
}

func (r *mongoRoomRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "type", Value: 1}}},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create room indexes: %w", err)
	}
	return nil
}

// DefaultRooms is the physical inventory bootstrapped on first start: two
// dormitories, three private doubles, one family room.
func DefaultRooms() []*model.Room {
	return []*model.Room{
		{ID: "dorm-1", Type: model.RoomTypeDormitory, Capacity: 8, NightlyRate: 25, Amenities: []string{"shared_bathroom", "lockers", "fan"}},
		{ID: "dorm-2", Type: model.RoomTypeDormitory, Capacity: 6, NightlyRate: 25, Amenities: []string{"shared_bathroom", "lockers", "air_conditioning"}},
		{ID: "double-1", Type: model.RoomTypePrivateDouble, Capacity: 2, NightlyRate: 65, Amenities: []string{"private_bathroom", "air_conditioning"}},
		{ID: "double-2", Type: model.RoomTypePrivateDouble, Capacity: 2, NightlyRate: 65, Amenities: []string{"private_bathroom", "air_conditioning"}},
		{ID: "double-3", Type: model.RoomTypePrivateDouble, Capacity: 3, NightlyRate: 70, Amenities: []string{"private_bathroom", "air_conditioning", "lagoon_view"}},
		{ID: "family-1", Type: model.RoomTypePrivateFamily, Capacity: 5, NightlyRate: 95, Amenities: []string{"private_bathroom", "air_conditioning", "kitchenette"}},
	}
}
