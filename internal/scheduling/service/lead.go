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

type LeadService interface {
	Create(ctx context.Context, lead *model.Lead) (*model.Lead, error)
	GetByID(ctx context.Context, id string) (*model.Lead, error)
	List(ctx context.Context, filter repository.LeadFilter, limit int, offset int64) ([]*model.Lead, int64, error)
	Update(ctx context.Context, id string, update *model.LeadUpdate) (*model.Lead, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*model.LeadStats, error)
}

type leadService struct {
	repo        repository.LeadRepository
	settings    SettingsService
	validator   *validator.LeadValidator
	broadcaster broadcast.Broadcaster
	logger      *logger.Logger
}

func NewLeadService(
	repo repository.LeadRepository,
	settings SettingsService,
	v *validator.LeadValidator,
	b broadcast.Broadcaster,
	log *logger.Logger,
) LeadService {
	return &leadService{
		repo:        repo,
		settings:    settings,
		validator:   v,
		broadcaster: b,
		logger:      log,
	}
}

// Create persists a new lead. A non-terminal lead with the same email
// is a duplicate regardless of which surface the request came through.
func (s *leadService) Create(ctx context.Context, lead *model.Lead) (*model.Lead, error) {
	lead.Name = sanitizer.NormalizeName(lead.Name)
	lead.Email = sanitizer.NormalizeEmail(lead.Email)
	lead.Phone = sanitizer.NormalizePhone(lead.Phone)
	lead.Company = sanitizer.TrimAndNormalize(lead.Company)
	lead.Tags = sanitizer.SanitizeSlice(lead.Tags, sanitizer.TrimAndNormalize)
	if lead.Status == "" {
		lead.Status = model.LeadStatusNew
	}
	if lead.Priority == "" {
		lead.Priority = model.LeadPriorityMedium
	}
	if lead.Source == "" {
		lead.Source = model.LeadSourceOther
	}

	if err := s.validator.Validate(lead); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, apperrors.Validation("lead validation failed", map[string]any{"errors": validationErrs})
		}
		return nil, apperrors.Internal("lead validation failed", err)
	}

	fields, err := s.settings.LeadCustomFields(ctx)
	if err != nil {
		return nil, err
	}
	if err := validator.CheckCustomFields(fields, lead.CustomFields); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, apperrors.Validation("custom field validation failed", map[string]any{"errors": validationErrs})
		}
		return nil, apperrors.Internal("custom field validation failed", err)
	}

	existing, err := s.repo.FindActiveByEmail(ctx, lead.Email)
	if err != nil && !errors.Is(err, schederrors.ErrNotFound) {
		return nil, apperrors.Internal("failed to check for duplicate lead", err)
	}
	if existing != nil {
		return nil, apperrors.DuplicateLead(lead.Email).WithDetails(map[string]any{
			"email":          lead.Email,
			"existingLeadId": existing.ID,
		})
	}

	now := time.Now().UTC()
	lead.ID = uuid.NewString()
	lead.CreatedAt = now
	lead.UpdatedAt = now

	if err := s.repo.Create(ctx, lead); err != nil {
		return nil, apperrors.Internal("failed to create lead", err)
	}

	s.logger.Info("Lead created", "id", lead.ID, "source", lead.Source, "priority", lead.Priority)
	s.broadcaster.Publish(ctx, broadcast.LeadCreated, lead)

	return lead, nil
}

func (s *leadService) GetByID(ctx context.Context, id string) (*model.Lead, error) {
	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, schederrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("lead", id)
		}
		return nil, apperrors.Internal("failed to load lead", err)
	}
	return lead, nil
}

func (s *leadService) List(ctx context.Context, filter repository.LeadFilter, limit int, offset int64) ([]*model.Lead, int64, error) {
	leads, err := s.repo.FindAll(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list leads", err)
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to count leads", err)
	}
	return leads, total, nil
}

// Update merges partial fields. Status transitions are caller-driven;
// no state machine is enforced here.
func (s *leadService) Update(ctx context.Context, id string, update *model.LeadUpdate) (*model.Lead, error) {
	if err := s.validator.ValidateUpdate(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, apperrors.Validation("lead validation failed", map[string]any{"errors": validationErrs})
		}
		return nil, apperrors.Internal("lead validation failed", err)
	}

	lead, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != "" {
		lead.Name = sanitizer.NormalizeName(update.Name)
	}
	if update.Email != "" {
		lead.Email = sanitizer.NormalizeEmail(update.Email)
	}
	if update.Phone != nil {
		lead.Phone = sanitizer.NormalizePhone(*update.Phone)
	}
	if update.Company != nil {
		lead.Company = sanitizer.TrimAndNormalize(*update.Company)
	}
	if update.Source != "" {
		lead.Source = update.Source
	}
	if update.Status != "" {
		lead.Status = update.Status
	}
	if update.Priority != "" {
		lead.Priority = update.Priority
	}
	if update.Notes != nil {
		lead.Notes = *update.Notes
	}
	if update.Tags != nil {
		lead.Tags = sanitizer.SanitizeSlice(*update.Tags, sanitizer.TrimAndNormalize)
	}
	if update.InterestedIn != nil {
		lead.InterestedIn = *update.InterestedIn
	}
	if update.PreferredContactMethod != nil {
		lead.PreferredContactMethod = *update.PreferredContactMethod
	}
	if update.PreferredCallbackTime != nil {
		lead.PreferredCallbackTime = *update.PreferredCallbackTime
	}
	if update.CustomFields != nil {
		lead.CustomFields = update.CustomFields
	}
	lead.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, id, lead); err != nil {
		if errors.Is(err, schederrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("lead", id)
		}
		return nil, apperrors.Internal("failed to update lead", err)
	}

	s.logger.Info("Lead updated", "id", id, "status", lead.Status)
	s.broadcaster.Publish(ctx, broadcast.LeadUpdated, lead)

	return lead, nil
}

func (s *leadService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, schederrors.ErrNotFound) {
			return apperrors.NotFoundWithID("lead", id)
		}
		return apperrors.Internal("failed to delete lead", err)
	}

	s.logger.Info("Lead deleted", "id", id)
	return nil
}

// Stats is a pure projection over the store.
func (s *leadService) Stats(ctx context.Context) (*model.LeadStats, error) {
	total, err := s.repo.Count(ctx, repository.LeadFilter{})
	if err != nil {
		return nil, apperrors.Internal("failed to count leads", err)
	}

	byStatus, err := s.repo.CountByField(ctx, "status")
	if err != nil {
		return nil, apperrors.Internal("failed to aggregate leads by status", err)
	}
	byPriority, err := s.repo.CountByField(ctx, "priority")
	if err != nil {
		return nil, apperrors.Internal("failed to aggregate leads by priority", err)
	}
	bySource, err := s.repo.CountByField(ctx, "source")
	if err != nil {
		return nil, apperrors.Internal("failed to aggregate leads by source", err)
	}

	return &model.LeadStats{
		Total:      total,
		ByStatus:   byStatus,
		ByPriority: byPriority,
		BySource:   bySource,
	}, nil
}
