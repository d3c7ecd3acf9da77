package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"slotwise/pkg/config"
	"slotwise/pkg/model"
)

const BookingLocksCollection = "booking_locks"

type BookingLockRepository interface {
	Create(ctx context.Context, lock *model.BookingLock) error
	Delete(ctx context.Context, id string) error
}

type mongoBookingLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBookingLockRepository(cfg *config.Config) BookingLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingLockRepository{
		cfg:        cfg,
		collection: db.Collection(BookingLocksCollection),
	}
}

func (r *mongoBookingLockRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// Create inserts the lock document; the unique _id index turns a
// concurrent acquisition into a duplicate-key error for the loser.
func (r *mongoBookingLockRepository) Create(ctx context.Context, lock *model.BookingLock) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		return err
	}
	return nil
}

func (r *mongoBookingLockRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to release booking lock: %w", err)
	}
	return nil
}

// IsDuplicateLock reports whether err means another request holds the lock.
func IsDuplicateLock(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// LockIDs builds the advisory lock keys for a slot: one per UTC
// calendar day the [start, end) interval touches. Any two overlapping
// intervals share at least one day, so concurrent writes for
// overlapping slots always contend on a common key.
func LockIDs(start, end time.Time) []string {
	day := start.UTC().Truncate(24 * time.Hour)
	last := end.UTC().Add(-time.Nanosecond).Truncate(24 * time.Hour)
	if last.Before(day) {
		last = day
	}

	ids := []string{}
	for !day.After(last) {
		ids = append(ids, "booking_lock_"+day.Format("2006-01-02"))
		day = day.Add(24 * time.Hour)
	}
	return ids
}
