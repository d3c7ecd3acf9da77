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

const LeadsCollection = "leads"

// LeadFilter narrows list queries. Zero values mean "no filter".
type LeadFilter struct {
	Status   string
	Priority string
	Source   string
	Email    string
}

type LeadRepository interface {
	Create(ctx context.Context, lead *model.Lead) error
	FindByID(ctx context.Context, id string) (*model.Lead, error)
	FindAll(ctx context.Context, filter LeadFilter, limit int, offset int64) ([]*model.Lead, error)
	Count(ctx context.Context, filter LeadFilter) (int64, error)
	FindActiveByEmail(ctx context.Context, email string) (*model.Lead, error)
	Update(ctx context.Context, id string, lead *model.Lead) error
	Delete(ctx context.Context, id string) error
	CountByField(ctx context.Context, field string) (map[string]int64, error)
}

type mongoLeadRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoLeadRepository(cfg *config.Config) LeadRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoLeadRepository{
		cfg:        cfg,
		collection: db.Collection(LeadsCollection),
	}
}

func (r *mongoLeadRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoLeadRepository) Create(ctx context.Context, lead *model.Lead) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, lead); err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}
	return nil
}

func (r *mongoLeadRepository) FindByID(ctx context.Context, id string) (*model.Lead, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var lead model.Lead
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&lead)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, schederrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find lead: %w", err)
	}
	return &lead, nil
}

func buildLeadFilter(filter LeadFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}
	if filter.Source != "" {
		query["source"] = filter.Source
	}
	if filter.Email != "" {
		query["email"] = filter.Email
	}
	return query
}

func (r *mongoLeadRepository) FindAll(ctx context.Context, filter LeadFilter, limit int, offset int64) ([]*model.Lead, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, buildLeadFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find leads: %w", err)
	}
	defer cursor.Close(ctx)

	var leads []*model.Lead
	if err = cursor.All(ctx, &leads); err != nil {
		return nil, fmt.Errorf("failed to decode leads: %w", err)
	}
	return leads, nil
}

func (r *mongoLeadRepository) Count(ctx context.Context, filter LeadFilter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildLeadFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count leads: %w", err)
	}
	return count, nil
}

// FindActiveByEmail returns the newest non-terminal lead for email,
// or ErrNotFound when every lead with that email is converted or lost.
func (r *mongoLeadRepository) FindActiveByEmail(ctx context.Context, email string) (*model.Lead, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"email":  email,
		"status": bson.M{"$nin": bson.A{model.LeadStatusConverted, model.LeadStatusLost}},
	}

	var lead model.Lead
	err := r.collection.FindOne(ctx, filter,
		options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})).Decode(&lead)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, schederrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find lead by email: %w", err)
	}
	return &lead, nil
}

func (r *mongoLeadRepository) Update(ctx context.Context, id string, lead *model.Lead) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":                     lead.Name,
		"email":                    lead.Email,
		"phone":                    lead.Phone,
		"company":                  lead.Company,
		"source":                   lead.Source,
		"status":                   lead.Status,
		"priority":                 lead.Priority,
		"notes":                    lead.Notes,
		"tags":                     lead.Tags,
		"interested_in":            lead.InterestedIn,
		"preferred_contact_method": lead.PreferredContactMethod,
		"preferred_callback_time":  lead.PreferredCallbackTime,
		"custom_fields":            lead.CustomFields,
		"updated_at":               lead.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update lead: %w", err)
	}
	if result.MatchedCount == 0 {
		return schederrors.ErrNotFound
	}
	return nil
}

func (r *mongoLeadRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	if result.DeletedCount == 0 {
		return schederrors.ErrNotFound
	}
	return nil
}

// CountByField groups leads by a single field value via aggregation.
func (r *mongoLeadRepository) CountByField(ctx context.Context, field string) (map[string]int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$" + field,
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate leads by %s: %w", field, err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode lead aggregation: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ID] = row.Count
	}
	return counts, nil
}
