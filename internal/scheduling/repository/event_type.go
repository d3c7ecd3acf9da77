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

const EventTypesCollection = "event_types"

type EventTypeRepository interface {
	Create(ctx context.Context, eventType *model.EventType) error
	FindByID(ctx context.Context, id string) (*model.EventType, error)
	FindBySlug(ctx context.Context, slug string) (*model.EventType, error)
	FindAll(ctx context.Context, activeOnly bool) ([]*model.EventType, error)
	CountBySlug(ctx context.Context, slug, excludeID string) (int64, error)
	Update(ctx context.Context, id string, eventType *model.EventType) error
	Delete(ctx context.Context, id string) error
}

type mongoEventTypeRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoEventTypeRepository(cfg *config.Config) EventTypeRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoEventTypeRepository{
		cfg:        cfg,
		collection: db.Collection(EventTypesCollection),
	}
}

func (r *mongoEventTypeRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoEventTypeRepository) Create(ctx context.Context, eventType *model.EventType) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, eventType); err != nil {
		return fmt.Errorf("failed to create event type: %w", err)
	}
	return nil
}

func (r *mongoEventTypeRepository) FindByID(ctx context.Context, id string) (*model.EventType, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var eventType model.EventType
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&eventType)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, schederrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find event type: %w", err)
	}
	return &eventType, nil
}

func (r *mongoEventTypeRepository) FindBySlug(ctx context.Context, slug string) (*model.EventType, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var eventType model.EventType
	err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&eventType)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, schederrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find event type by slug: %w", err)
	}
	return &eventType, nil
}

func (r *mongoEventTypeRepository) FindAll(ctx context.Context, activeOnly bool) ([]*model.EventType, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{}
	if activeOnly {
		filter["is_active"] = true
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find event types: %w", err)
	}
	defer cursor.Close(ctx)

	var eventTypes []*model.EventType
	if err = cursor.All(ctx, &eventTypes); err != nil {
		return nil, fmt.Errorf("failed to decode event types: %w", err)
	}
	return eventTypes, nil
}

// CountBySlug reports how many other event types already carry slug.
func (r *mongoEventTypeRepository) CountBySlug(ctx context.Context, slug, excludeID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"slug": slug}
	if excludeID != "" {
		filter["_id"] = bson.M{"$ne": excludeID}
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count event types by slug: %w", err)
	}
	return count, nil
}

func (r *mongoEventTypeRepository) Update(ctx context.Context, id string, eventType *model.EventType) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":          eventType.Name,
		"slug":          eventType.Slug,
		"duration_min":  eventType.DurationMin,
		"description":   eventType.Description,
		"is_active":     eventType.IsActive,
		"color":         eventType.Color,
		"custom_fields": eventType.CustomFields,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update event type: %w", err)
	}
	if result.MatchedCount == 0 {
		return schederrors.ErrNotFound
	}
	return nil
}

func (r *mongoEventTypeRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete event type: %w", err)
	}
	if result.DeletedCount == 0 {
		return schederrors.ErrNotFound
	}
	return nil
}
