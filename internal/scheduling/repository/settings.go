package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	schederrors "slotwise/internal/scheduling/errors"
	"slotwise/pkg/config"
	"slotwise/pkg/model"
)

const SettingsCollection = "booking_settings"

type SettingsRepository interface {
	Get(ctx context.Context) (*model.BookingSettings, error)
	Upsert(ctx context.Context, settings *model.BookingSettings) error
}

type mongoSettingsRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSettingsRepository(cfg *config.Config) SettingsRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSettingsRepository{
		cfg:        cfg,
		collection: db.Collection(SettingsCollection),
	}
}

func (r *mongoSettingsRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoSettingsRepository) Get(ctx context.Context) (*model.BookingSettings, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var settings model.BookingSettings
	err := r.collection.FindOne(ctx, bson.M{"_id": model.SettingsID}).Decode(&settings)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, schederrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking settings: %w", err)
	}
	return &settings, nil
}

func (r *mongoSettingsRepository) Upsert(ctx context.Context, settings *model.BookingSettings) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"timezone":           settings.Timezone,
		"availability":       settings.Availability,
		"brand_color":        settings.BrandColor,
		"is_24x7":            settings.Is24x7,
		"allow_open_events":  settings.AllowOpenEvents,
		"lead_custom_fields": settings.LeadCustomFields,
		"updated_at":         settings.UpdatedAt,
	}}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": model.SettingsID}, update,
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert booking settings: %w", err)
	}
	return nil
}
