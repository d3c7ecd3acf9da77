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
	"slotwise/pkg/config"
	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/logger"
	"slotwise/pkg/model"
)

type SettingsService interface {
	Get(ctx context.Context) (*model.BookingSettings, error)
	Update(ctx context.Context, update *model.BookingSettingsUpdate) (*model.BookingSettings, error)
	LeadCustomFields(ctx context.Context) ([]model.CustomField, error)
	SetLeadCustomFields(ctx context.Context, fields []model.CustomField) ([]model.CustomField, error)
}

type settingsService struct {
	repo        repository.SettingsRepository
	validator   *validator.SettingsValidator
	broadcaster broadcast.Broadcaster
	cfg         *config.Config
	logger      *logger.Logger
}

func NewSettingsService(
	repo repository.SettingsRepository,
	v *validator.SettingsValidator,
	b broadcast.Broadcaster,
	cfg *config.Config,
	log *logger.Logger,
) SettingsService {
	return &settingsService{
		repo:        repo,
		validator:   v,
		broadcaster: b,
		cfg:         cfg,
		logger:      log,
	}
}

// defaultSettings builds the baseline document: configured timezone,
// Monday through Friday open with the configured day window, weekend
// closed.
func (s *settingsService) defaultSettings() *model.BookingSettings {
	availability := make(map[string]*model.DayWindow, len(model.Weekdays))
	for _, day := range model.Weekdays {
		switch day {
		case "Saturday", "Sunday":
			availability[day] = nil
		default:
			availability[day] = &model.DayWindow{
				Start: s.cfg.DefaultStartOfDay,
				End:   s.cfg.DefaultEndOfDay,
			}
		}
	}
	return &model.BookingSettings{
		ID:           model.SettingsID,
		Timezone:     s.cfg.Timezone,
		Availability: availability,
	}
}

// Get returns the singleton with defaults merged under stored values,
// so a partially written document never breaks callers.
func (s *settingsService) Get(ctx context.Context) (*model.BookingSettings, error) {
	merged := s.defaultSettings()

	stored, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, schederrors.ErrNotFound) {
			return merged, nil
		}
		return nil, apperrors.Internal("failed to load booking settings", err)
	}

	if stored.Timezone != "" {
		merged.Timezone = stored.Timezone
	}
	if stored.Availability != nil {
		for day, window := range stored.Availability {
			merged.Availability[day] = window
		}
	}
	merged.BrandColor = stored.BrandColor
	merged.Is24x7 = stored.Is24x7
	merged.AllowOpenEvents = stored.AllowOpenEvents
	merged.LeadCustomFields = stored.LeadCustomFields
	merged.UpdatedAt = stored.UpdatedAt

	return merged, nil
}

func (s *settingsService) Update(ctx context.Context, update *model.BookingSettingsUpdate) (*model.BookingSettings, error) {
	if err := s.validator.ValidateUpdate(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, apperrors.Validation("settings validation failed", map[string]any{"errors": validationErrs})
		}
		return nil, apperrors.Internal("settings validation failed", err)
	}

	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	if update.Timezone != "" {
		current.Timezone = update.Timezone
	}
	if update.Availability != nil {
		for day, window := range *update.Availability {
			current.Availability[day] = window
		}
	}
	if update.BrandColor != nil {
		current.BrandColor = *update.BrandColor
	}
	if update.Is24x7 != nil {
		current.Is24x7 = *update.Is24x7
	}
	if update.AllowOpenEvents != nil {
		current.AllowOpenEvents = *update.AllowOpenEvents
	}
	if update.LeadCustomFields != nil {
		current.LeadCustomFields = normalizeFieldIDs(*update.LeadCustomFields)
	}
	current.UpdatedAt = time.Now().UTC()

	if err := s.repo.Upsert(ctx, current); err != nil {
		return nil, apperrors.Internal("failed to save booking settings", err)
	}

	s.logger.Info("Booking settings updated", "timezone", current.Timezone, "is24x7", current.Is24x7)
	s.broadcaster.Publish(ctx, broadcast.SettingsUpdated, current)

	return current, nil
}

func (s *settingsService) LeadCustomFields(ctx context.Context) ([]model.CustomField, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return settings.LeadCustomFields, nil
}

func (s *settingsService) SetLeadCustomFields(ctx context.Context, fields []model.CustomField) ([]model.CustomField, error) {
	normalized := normalizeFieldIDs(fields)
	updated, err := s.Update(ctx, &model.BookingSettingsUpdate{LeadCustomFields: &normalized})
	if err != nil {
		return nil, err
	}
	return updated.LeadCustomFields, nil
}

// normalizeFieldIDs assigns a stable id to any definition missing one.
func normalizeFieldIDs(fields []model.CustomField) []model.CustomField {
	normalized := make([]model.CustomField, len(fields))
	for i, field := range fields {
		if field.ID == "" {
			field.ID = uuid.NewString()
		}
		normalized[i] = field
	}
	return normalized
}
