package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	schederrors "slotwise/internal/scheduling/errors"
	"slotwise/internal/scheduling/repository"
	"slotwise/internal/scheduling/validator"
	"slotwise/pkg/broadcast"
	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/logger"
	"slotwise/pkg/model"
	"slotwise/pkg/sanitizer"
)

type EventTypeService interface {
	Create(ctx context.Context, eventType *model.EventType) (*model.EventType, error)
	GetByID(ctx context.Context, id string) (*model.EventType, error)
	List(ctx context.Context, activeOnly bool) ([]*model.EventType, error)
	Update(ctx context.Context, id string, update *model.EventTypeUpdate) (*model.EventType, error)
	Delete(ctx context.Context, id string) error
}

type eventTypeService struct {
	repo        repository.EventTypeRepository
	validator   *validator.EventTypeValidator
	broadcaster broadcast.Broadcaster
	logger      *logger.Logger
}

func NewEventTypeService(
	repo repository.EventTypeRepository,
	v *validator.EventTypeValidator,
	b broadcast.Broadcaster,
	log *logger.Logger,
) EventTypeService {
	return &eventTypeService{
		repo:        repo,
		validator:   v,
		broadcaster: b,
		logger:      log,
	}
}

func (s *eventTypeService) Create(ctx context.Context, eventType *model.EventType) (*model.EventType, error) {
	eventType.Name = sanitizer.NormalizeName(eventType.Name)
	if eventType.Slug == "" {
		eventType.Slug = sanitizer.NormalizeSlug(eventType.Name)
	} else {
		eventType.Slug = sanitizer.NormalizeSlug(eventType.Slug)
	}

	if err := s.validator.Validate(eventType); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, apperrors.Validation("event type validation failed", map[string]any{"errors": validationErrs})
		}
		return nil, apperrors.Internal("event type validation failed", err)
	}

	// Slug uniqueness is advisory: a duplicate is logged, not rejected.
	if count, err := s.repo.CountBySlug(ctx, eventType.Slug, ""); err == nil && count > 0 {
		s.logger.Warn("Creating event type with duplicate slug", "slug", eventType.Slug)
	}

	eventType.ID = uuid.NewString()
	eventType.CustomFields = normalizeFieldIDs(eventType.CustomFields)
	eventType.CreatedAt = time.Now().UTC()

	if err := s.repo.Create(ctx, eventType); err != nil {
		return nil, apperrors.Internal("failed to create event type", err)
	}

	s.logger.Info("Event type created", "id", eventType.ID, "name", eventType.Name, "duration_min", eventType.DurationMin)
	s.broadcaster.Publish(ctx, broadcast.EventTypeCreated, eventType)

	return eventType, nil
}

func (s *eventTypeService) GetByID(ctx context.Context, id string) (*model.EventType, error) {
	eventType, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, schederrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("event type", id)
		}
		return nil, apperrors.Internal("failed to load event type", err)
	}
	return eventType, nil
}

func (s *eventTypeService) List(ctx context.Context, activeOnly bool) ([]*model.EventType, error) {
	eventTypes, err := s.repo.FindAll(ctx, activeOnly)
	if err != nil {
		return nil, apperrors.Internal("failed to list event types", err)
	}
	return eventTypes, nil
}

func (s *eventTypeService) Update(ctx context.Context, id string, update *model.EventTypeUpdate) (*model.EventType, error) {
	if err := s.validator.ValidateUpdate(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, apperrors.Validation("event type validation failed", map[string]any{"errors": validationErrs})
		}
		return nil, apperrors.Internal("event type validation failed", err)
	}

	eventType, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != "" {
		eventType.Name = sanitizer.NormalizeName(update.Name)
	}
	if update.Slug != "" {
		eventType.Slug = sanitizer.NormalizeSlug(update.Slug)
		if count, err := s.repo.CountBySlug(ctx, eventType.Slug, id); err == nil && count > 0 {
			s.logger.Warn("Updating event type to duplicate slug", "slug", eventType.Slug, "id", id)
		}
	}
	if update.DurationMin != nil {
		eventType.DurationMin = *update.DurationMin
	}
	if update.Description != nil {
		eventType.Description = *update.Description
	}
	if update.IsActive != nil {
		eventType.IsActive = *update.IsActive
	}
	if update.Color != nil {
		eventType.Color = *update.Color
	}
	if update.CustomFields != nil {
		eventType.CustomFields = normalizeFieldIDs(*update.CustomFields)
	}

	if err := s.repo.Update(ctx, id, eventType); err != nil {
		if errors.Is(err, schederrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("event type", id)
		}
		return nil, apperrors.Internal("failed to update event type", err)
	}

	s.logger.Info("Event type updated", "id", id, "is_active", eventType.IsActive)
	s.broadcaster.Publish(ctx, broadcast.EventTypeUpdated, eventType)

	return eventType, nil
}

func (s *eventTypeService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, schederrors.ErrNotFound) {
			return apperrors.NotFoundWithID("event type", id)
		}
		return apperrors.Internal("failed to delete event type", err)
	}
	s.logger.Info("Event type deleted", "id", id)
	return nil
}
