// Package repository gives the analytics pipeline its read and report
// persistence surface. Reads are plain queries against the reservation
// collections; the pipeline never writes to the ledger.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hostal/pkg/config"
	"hostal/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	BookingCollectionName = "bookings"
	ReviewCollectionName  = "reviews"
	ReportCollectionName  = "reports"
)

var ErrReportNotFound = errors.New("report not found")

// BookingReader streams the ledger slice for a report window.
type BookingReader interface {
	FindByCheckInWindow(ctx context.Context, from, to time.Time) ([]*model.Booking, error)
}

// ReviewReader returns guest reviews created inside the window.
type ReviewReader interface {
	FindByCreatedWindow(ctx context.Context, from, to time.Time) ([]*model.Review, error)
}

type ReportRepository interface {
	Upsert(ctx context.Context, report *model.Report) error
	FindByDate(ctx context.Context, date string) (*model.Report, error)
}

type mongoAnalyticsRepository struct {
	cfg      *config.Config
	bookings *mongo.Collection
	reviews  *mongo.Collection
	reports  *mongo.Collection
}

// AnalyticsRepository bundles the three surfaces behind one Mongo client.
type AnalyticsRepository interface {
	BookingReader
	ReviewReader
	ReportRepository
}

func NewMongoAnalyticsRepository(cfg *config.Config) AnalyticsRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAnalyticsRepository{
		cfg:      cfg,
		bookings: db.Collection(BookingCollectionName),
		reviews:  db.Collection(ReviewCollectionName),
		reports:  db.Collection(ReportCollectionName),
	}
}

func (r *mongoAnalyticsRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoAnalyticsRepository) FindByCheckInWindow(ctx context.Context, from, to time.Time) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"checkin": bson.M{"$gte": from, "$lt": to}}
	opts := options.Find().SetSort(bson.D{{Key: "checkin", Value: 1}})

	cursor, err := r.bookings.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings window: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings window: %w", err)
	}
	return bookings, nil
}

func (r *mongoAnalyticsRepository) FindByCreatedWindow(ctx context.Context, from, to time.Time) ([]*model.Review, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"created_at": bson.M{"$gte": from, "$lt": to}}
	cursor, err := r.reviews.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews window: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []*model.Review
	if err = cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}

// Upsert writes the report keyed by date, so re-running a day replaces its
// report instead of duplicating it.
func (r *mongoAnalyticsRepository) Upsert(ctx context.Context, report *model.Report) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"_id": report.Date}
	opts := options.Replace().SetUpsert(true)

	if _, err := r.reports.ReplaceOne(ctx, filter, report, opts); err != nil {
		return fmt.Errorf("failed to upsert report: %w", err)
	}
	return nil
}

func (r *mongoAnalyticsRepository) FindByDate(ctx context.Context, date string) (*model.Report, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var report model.Report
	err := r.reports.FindOne(ctx, bson.M{"_id": date}).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", ErrReportNotFound, date)
		}
		return nil, fmt.Errorf("failed to find report: %w", err)
	}
	return &report, nil
}
