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
	CustomerCollectionName = "customers"
)

type mongoCustomerRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type CustomerRepository interface {
	Upsert(ctx context.Context, customer *model.Customer) error
}

func NewMongoCustomerRepository(cfg *config.Config) CustomerRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCustomerRepository{
		cfg:        cfg,
		collection: db.Collection(CustomerCollectionName),
	}
}

// Upsert writes the customer profile keyed by email. Name and phone are only
// overwritten when present so a later booking without them keeps the profile.
func (r *mongoCustomerRepository) Upsert(ctx context.Context, customer *model.Customer) error {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.WriteTimeout)
		defer cancel()
	}

	set := bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)}
	if customer.Name != "" {
		set["name"] = customer.Name
	}
	if customer.Phone != "" {
		set["phone"] = customer.Phone
	}

	filter := bson.M{"_id": customer.Email}
	update := bson.M{"$set": set}
	opts := options.Update().SetUpsert(true)

	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert customer: %w", err)
	}
	return nil
}
