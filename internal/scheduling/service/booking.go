package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"slotwise/internal/availability"
	schederrors "slotwise/internal/scheduling/errors"
	"slotwise/internal/scheduling/repository"
	"slotwise/internal/scheduling/validator"
	"slotwise/pkg/broadcast"
	"slotwise/pkg/config"
	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/logger"
	"slotwise/pkg/model"
	"slotwise/pkg/sanitizer"
)

// bookingLockTTL bounds how long a crashed request can hold a slot
// lock before the TTL index reaps it.
const bookingLockTTL = 30 * time.Second

// BookingInput is the create/upsert request shape. EventTypeName and
// DurationMin only matter for open-event fallback; EndTime is derived
// from the resolved duration when absent.
type BookingInput struct {
	EventTypeID   string                   `json:"eventTypeId,omitempty"`
	EventTypeName string                   `json:"eventTypeName,omitempty"`
	DurationMin   int                      `json:"duration,omitempty"`
	StartTime     time.Time                `json:"startTime"`
	EndTime       *time.Time               `json:"endTime,omitempty"`
	GuestName     string                   `json:"guestName"`
	GuestEmail    string                   `json:"guestEmail"`
	GuestPhone    string                   `json:"guestPhone,omitempty"`
	GuestNotes    string                   `json:"guestNotes,omitempty"`
	Agenda        string                   `json:"agenda,omitempty"`
	MeetingURL    string                   `json:"meetingUrl,omitempty"`
	CustomFields  []model.CustomFieldValue `json:"customFields,omitempty"`
}

// DecodeBookingInput unmarshals a create/upsert payload. startTime and
// endTime accept an RFC 3339 instant or an offset-less local time; the
// latter is interpreted in loc, the calendar's configured timezone.
func DecodeBookingInput(data []byte, loc *time.Location) (*BookingInput, error) {
	var raw struct {
		BookingInput
		StartTime string `json:"startTime,omitempty"`
		EndTime   string `json:"endTime,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.InvalidInput("invalid booking payload: " + err.Error())
	}

	input := raw.BookingInput
	if raw.StartTime != "" {
		t, err := sanitizer.ParseTimestamp(raw.StartTime, loc)
		if err != nil {
			return nil, apperrors.InvalidInput("invalid startTime, expected RFC 3339 or YYYY-MM-DDTHH:MM:SS: " + raw.StartTime)
		}
		input.StartTime = t
	}
	if raw.EndTime != "" {
		t, err := sanitizer.ParseTimestamp(raw.EndTime, loc)
		if err != nil {
			return nil, apperrors.InvalidInput("invalid endTime, expected RFC 3339 or YYYY-MM-DDTHH:MM:SS: " + raw.EndTime)
		}
		input.EndTime = &t
	}
	return &input, nil
}

// FindResult pairs matched bookings with a hint telling an agent
// whether to prefer updating over creating.
type FindResult struct {
	Bookings []*model.Booking `json:"bookings"`
	Hint     string           `json:"hint"`
}

// resolvedEventType is the outcome of event type resolution: either a
// stored active record or the open-event fallback.
type resolvedEventType struct {
	ID          string
	Name        string
	DurationMin int
}

type BookingService interface {
	Create(ctx context.Context, input *BookingInput) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	List(ctx context.Context, filter repository.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	Find(ctx context.Context, search *model.BookingSearch) (*FindResult, error)
	// Upsert reports whether it created (true) or updated (false).
	Upsert(ctx context.Context, input *BookingInput) (*model.Booking, bool, error)
	Update(ctx context.Context, id string, update *model.BookingUpdate) (*model.Booking, error)
	Cancel(ctx context.Context, id, reason string) (*model.Booking, error)
	Delete(ctx context.Context, id string) error
	// Import bulk-restores bookings from a backup, reporting how many
	// records were written.
	Import(ctx context.Context, bookings []*model.Booking) (int, error)
	DaySlots(ctx context.Context, date time.Time, eventTypeID string) ([]availability.Slot, error)
}

type bookingService struct {
	bookingRepo   repository.BookingRepository
	lockRepo      repository.BookingLockRepository
	eventTypeRepo repository.EventTypeRepository
	settings      SettingsService
	validator     *validator.BookingValidator
	broadcaster   broadcast.Broadcaster
	cfg           *config.Config
	logger        *logger.Logger
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	eventTypeRepo repository.EventTypeRepository,
	settings SettingsService,
	v *validator.BookingValidator,
	b broadcast.Broadcaster,
	cfg *config.Config,
	log *logger.Logger,
) BookingService {
	return &bookingService{
		bookingRepo:   bookingRepo,
		lockRepo:      lockRepo,
		eventTypeRepo: eventTypeRepo,
		settings:      settings,
		validator:     v,
		broadcaster:   b,
		cfg:           cfg,
		logger:        log,
	}
}

// resolveEventType picks the booking's event type. A known active id
// wins; otherwise open events (when enabled) accept a free-text name.
// The failure message enumerates the active event types so an agent can
// relay real options to the user.
func (s *bookingService) resolveEventType(ctx context.Context, input *BookingInput, settings *model.BookingSettings) (*resolvedEventType, error) {
	if input.EventTypeID != "" && input.EventTypeID != model.OpenEventTypeID {
		eventType, err := s.eventTypeRepo.FindByID(ctx, input.EventTypeID)
		if err != nil && !errors.Is(err, schederrors.ErrNotFound) {
			return nil, apperrors.Internal("failed to resolve event type", err)
		}
		if err == nil && eventType.IsActive {
			return &resolvedEventType{
				ID:          eventType.ID,
				Name:        eventType.Name,
				DurationMin: eventType.DurationMin,
			}, nil
		}
	}

	if settings.AllowOpenEvents && input.EventTypeName != "" {
		duration := input.DurationMin
		if duration <= 0 {
			duration = s.cfg.DefaultSlotDurationMin
		}
		return &resolvedEventType{
			ID:          model.OpenEventTypeID,
			Name:        input.EventTypeName,
			DurationMin: duration,
		}, nil
	}

	active, err := s.eventTypeRepo.FindAll(ctx, true)
	if err != nil {
		return nil, apperrors.Internal("failed to list event types", err)
	}
	if len(active) == 0 {
		return nil, apperrors.Configuration("No event type could be resolved and no active event types are configured. Create an event type first.")
	}

	var names []string
	for _, et := range active {
		names = append(names, fmt.Sprintf("%s (id=%s, %d min)", et.Name, et.ID, et.DurationMin))
	}
	return nil, apperrors.Configuration(
		fmt.Sprintf("No event type could be resolved. Active event types: %s", strings.Join(names, ", ")))
}

// eventTypeFields returns the custom field definitions values must be
// checked against. Open events carry no definitions.
func (s *bookingService) eventTypeFields(ctx context.Context, eventTypeID string) ([]model.CustomField, error) {
	if eventTypeID == "" || eventTypeID == model.OpenEventTypeID {
		return nil, nil
	}
	eventType, err := s.eventTypeRepo.FindByID(ctx, eventTypeID)
	if err != nil {
		if errors.Is(err, schederrors.ErrNotFound) {
			return nil, nil
		}
		return nil, apperrors.Internal("failed to load event type fields", err)
	}
	return eventType.CustomFields, nil
}

// buildBooking runs the shared create/upsert pipeline up to (but not
// including) the conflict check: resolution, working hours, end time
// derivation and validation.
func (s *bookingService) buildBooking(ctx context.Context, input *BookingInput, settings *model.BookingSettings) (*model.Booking, error) {
	resolved, err := s.resolveEventType(ctx, input, settings)
	if err != nil {
		return nil, err
	}

	if err := availability.ValidateWorkingHours(input.StartTime, resolved.DurationMin, settings); err != nil {
		return nil, err
	}

	endTime := input.StartTime.Add(time.Duration(resolved.DurationMin) * time.Minute)
	if input.EndTime != nil {
		endTime = *input.EndTime
	}

	booking := &model.Booking{
		EventTypeID:   resolved.ID,
		EventTypeName: resolved.Name,
		StartTime:     input.StartTime,
		EndTime:       endTime,
		GuestName:     sanitizer.NormalizeName(input.GuestName),
		GuestEmail:    sanitizer.NormalizeEmail(input.GuestEmail),
		GuestPhone:    sanitizer.NormalizePhone(input.GuestPhone),
		GuestNotes:    sanitizer.TrimAndNormalize(input.GuestNotes),
		Agenda:        sanitizer.TrimAndNormalize(input.Agenda),
		MeetingURL:    sanitizer.SanitizeURL(input.MeetingURL),
		Status:        model.BookingStatusConfirmed,
		CustomFields:  input.CustomFields,
	}

	if err := s.validator.Validate(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, apperrors.Validation("booking validation failed", map[string]any{"errors": validationErrs})
		}
		return nil, apperrors.Internal("booking validation failed", err)
	}

	fields, err := s.eventTypeFields(ctx, resolved.ID)
	if err != nil {
		return nil, err
	}
	if err := validator.CheckCustomFields(fields, booking.CustomFields); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, apperrors.Validation("custom field validation failed", map[string]any{"errors": validationErrs})
		}
		return nil, apperrors.Internal("custom field validation failed", err)
	}

	return booking, nil
}

// persistChecked inserts (or updates, when updateID is set) the booking
// inside a transaction guarded by advisory day locks. Overlapping slots
// always share a calendar-day key, so two concurrent requests cannot
// both pass the conflict check against a stale snapshot, whatever their
// exact start times.
func (s *bookingService) persistChecked(ctx context.Context, booking *model.Booking, updateID string) error {
	lockIDs := repository.LockIDs(booking.StartTime, booking.EndTime)

	return s.bookingRepo.ExecuteTransaction(ctx, func(sc mongo.SessionContext) error {
		acquired := []string{}
		release := func() {
			for _, id := range acquired {
				_ = s.lockRepo.Delete(sc, id)
			}
		}

		for _, id := range lockIDs {
			lock := &model.BookingLock{ID: id, ExpiresAt: time.Now().Add(bookingLockTTL)}
			if err := s.lockRepo.Create(sc, lock); err != nil {
				release()
				if repository.IsDuplicateLock(err) {
					return apperrors.Conflict("Another booking for this slot is being processed. Try again shortly.")
				}
				return apperrors.Internal("failed to acquire slot lock", err)
			}
			acquired = append(acquired, id)
		}

		overlapping, err := s.bookingRepo.FindOverlapping(sc, booking.StartTime, booking.EndTime)
		if err != nil {
			release()
			return apperrors.Internal("failed to check for conflicts", err)
		}
		if availability.HasConflict(booking.StartTime, booking.EndTime, overlapping, updateID) {
			release()
			return apperrors.Conflict(fmt.Sprintf(
				"The slot %s to %s is already booked. Pick a different time.",
				booking.StartTime.Format(time.RFC3339), booking.EndTime.Format(time.RFC3339)))
		}

		if updateID == "" {
			if err := s.bookingRepo.Create(sc, booking); err != nil {
				release()
				return apperrors.Internal("failed to create booking", err)
			}
		} else {
			if err := s.bookingRepo.Update(sc, updateID, booking); err != nil {
				release()
				return apperrors.Internal("failed to update booking", err)
			}
		}

		release()
		return nil
	})
}

func (s *bookingService) Create(ctx context.Context, input *BookingInput) (*model.Booking, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	booking, err := s.buildBooking(ctx, input, settings)
	if err != nil {
		return nil, err
	}

	booking.ID = uuid.NewString()
	booking.CreatedAt = time.Now().UTC()

	if err := s.persistChecked(ctx, booking, ""); err != nil {
		return nil, err
	}

	s.logger.Info("Booking created",
		"id", booking.ID,
		"event_type", booking.EventTypeName,
		"start_time", booking.StartTime,
	)
	s.broadcaster.Publish(ctx, broadcast.BookingCreated, booking)

	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, schederrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("booking", id)
		}
		return nil, apperrors.Internal("failed to load booking", err)
	}
	return booking, nil
}

func (s *bookingService) List(ctx context.Context, filter repository.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	bookings, err := s.bookingRepo.FindAll(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list bookings", err)
	}
	total, err := s.bookingRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to count bookings", err)
	}
	return bookings, total, nil
}

// Find matches guests by email (exact), name (substring) or phone
// (digit substring), all case-insensitive.
func (s *bookingService) Find(ctx context.Context, search *model.BookingSearch) (*FindResult, error) {
	if err := s.validator.ValidateSearch(search); err != nil {
		return nil, apperrors.Validation(err.Error(), nil)
	}

	var candidates []*model.Booking
	var err error
	if search.IncludeCompleted {
		candidates, err = s.bookingRepo.FindAll(ctx, repository.BookingFilter{}, 0, 0)
	} else {
		candidates, err = s.bookingRepo.FindActive(ctx)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to search bookings", err)
	}

	email := sanitizer.NormalizeEmail(search.Email)
	name := strings.ToLower(sanitizer.TrimAndNormalize(search.Name))
	phone := sanitizer.PhoneDigits(search.Phone)

	var matches []*model.Booking
	for _, b := range candidates {
		if email != "" && sanitizer.NormalizeEmail(b.GuestEmail) != email {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(b.GuestName), name) {
			continue
		}
		if phone != "" && !strings.Contains(sanitizer.PhoneDigits(b.GuestPhone), phone) {
			continue
		}
		matches = append(matches, b)
	}

	hint := "No existing booking matched. Creating a new booking is safe."
	if len(matches) > 0 {
		hint = "An existing booking matched. Prefer updating it over creating a duplicate."
	}
	return &FindResult{Bookings: matches, Hint: hint}, nil
}

// Upsert dedups by guest email: an existing non-terminal booking for
// the email is moved in place, otherwise a new booking is created.
func (s *bookingService) Upsert(ctx context.Context, input *BookingInput) (*model.Booking, bool, error) {
	email := sanitizer.NormalizeEmail(input.GuestEmail)
	if email == "" {
		return nil, false, apperrors.Validation("guestEmail is required for upsert", nil)
	}

	existingByEmail, err := s.bookingRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, false, apperrors.Internal("failed to look up bookings by email", err)
	}

	var existing *model.Booking
	for _, b := range existingByEmail {
		if !b.IsTerminal() {
			existing = b
			break
		}
	}

	if existing == nil {
		booking, err := s.Create(ctx, input)
		return booking, true, err
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, false, err
	}

	booking, err := s.buildBooking(ctx, input, settings)
	if err != nil {
		return nil, false, err
	}

	booking.ID = existing.ID
	booking.Status = existing.Status
	booking.CreatedAt = existing.CreatedAt
	if input.GuestNotes == "" {
		booking.GuestNotes = existing.GuestNotes
	}
	if input.Agenda == "" {
		booking.Agenda = existing.Agenda
	}
	if input.GuestPhone == "" {
		booking.GuestPhone = existing.GuestPhone
	}
	if input.MeetingURL == "" {
		booking.MeetingURL = existing.MeetingURL
	}
	if input.CustomFields == nil {
		booking.CustomFields = existing.CustomFields
	}

	if err := s.persistChecked(ctx, booking, existing.ID); err != nil {
		return nil, false, err
	}

	s.logger.Info("Booking upserted in place",
		"id", booking.ID,
		"guest_email", booking.GuestEmail,
		"start_time", booking.StartTime,
	)
	s.broadcaster.Publish(ctx, broadcast.BookingUpdated, booking)

	return booking, false, nil
}

// Update merges partial fields without re-running working-hours or
// conflict checks; operators may need to override both. The broadcast
// event follows the status transition and carries the previous status.
func (s *bookingService) Update(ctx context.Context, id string, update *model.BookingUpdate) (*model.Booking, error) {
	if err := s.validator.ValidateUpdate(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, apperrors.Validation("booking validation failed", map[string]any{"errors": validationErrs})
		}
		return nil, apperrors.Internal("booking validation failed", err)
	}

	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previousStatus := booking.Status

	if update.EventTypeID != "" {
		booking.EventTypeID = update.EventTypeID
	}
	if update.StartTime != nil {
		booking.StartTime = *update.StartTime
	}
	if update.EndTime != nil {
		booking.EndTime = *update.EndTime
	}
	if update.GuestName != "" {
		booking.GuestName = sanitizer.NormalizeName(update.GuestName)
	}
	if update.GuestEmail != "" {
		booking.GuestEmail = sanitizer.NormalizeEmail(update.GuestEmail)
	}
	if update.GuestPhone != nil {
		booking.GuestPhone = sanitizer.NormalizePhone(*update.GuestPhone)
	}
	if update.GuestNotes != nil {
		booking.GuestNotes = sanitizer.TrimAndNormalize(*update.GuestNotes)
	}
	if update.Agenda != nil {
		booking.Agenda = sanitizer.TrimAndNormalize(*update.Agenda)
	}
	if update.MeetingURL != nil {
		booking.MeetingURL = sanitizer.SanitizeURL(*update.MeetingURL)
	}
	if update.Status != "" {
		booking.Status = update.Status
	}
	if update.CustomFields != nil {
		booking.CustomFields = update.CustomFields
	}

	if !booking.EndTime.After(booking.StartTime) {
		return nil, apperrors.Validation("endTime must be after startTime", nil)
	}

	if err := s.bookingRepo.Update(ctx, id, booking); err != nil {
		if errors.Is(err, schederrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("booking", id)
		}
		return nil, apperrors.Internal("failed to update booking", err)
	}

	event := broadcast.BookingUpdated
	if booking.Status != previousStatus {
		switch booking.Status {
		case model.BookingStatusCancelled:
			event = broadcast.BookingCancelled
		case model.BookingStatusConfirmed:
			event = broadcast.BookingConfirmed
		case model.BookingStatusCompleted:
			event = broadcast.BookingCompleted
		}
	}

	s.logger.Info("Booking updated", "id", id, "event", event, "previous_status", previousStatus)
	s.broadcaster.Publish(ctx, event, map[string]any{
		"booking":        booking,
		"previousStatus": previousStatus,
	})

	return booking, nil
}

func (s *bookingService) Cancel(ctx context.Context, id, reason string) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == model.BookingStatusCancelled {
		return booking, nil
	}

	previousStatus := booking.Status
	booking.Status = model.BookingStatusCancelled

	if err := s.bookingRepo.Update(ctx, id, booking); err != nil {
		return nil, apperrors.Internal("failed to cancel booking", err)
	}

	s.logger.Info("Booking cancelled", "id", id, "reason", reason)
	s.broadcaster.Publish(ctx, broadcast.BookingCancelled, map[string]any{
		"booking":            booking,
		"previousStatus":     previousStatus,
		"cancellationReason": reason,
	})

	return booking, nil
}

// Delete hard-deletes and broadcasts a snapshot of the removed record.
func (s *bookingService) Delete(ctx context.Context, id string) error {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, schederrors.ErrNotFound) {
			return apperrors.NotFoundWithID("booking", id)
		}
		return apperrors.Internal("failed to delete booking", err)
	}

	s.logger.Info("Booking deleted", "id", id)
	s.broadcaster.Publish(ctx, broadcast.BookingDeleted, map[string]any{
		"id":      id,
		"booking": booking,
	})

	return nil
}

// Import restores records from a backup export. Restored bookings keep
// their ids and timestamps and skip working-hours and conflict checks;
// a backup is trusted to be internally consistent.
func (s *bookingService) Import(ctx context.Context, bookings []*model.Booking) (int, error) {
	if len(bookings) == 0 {
		return 0, apperrors.InvalidInput("no bookings to import")
	}

	for _, booking := range bookings {
		if booking.ID == "" {
			booking.ID = uuid.NewString()
		}
		if booking.Status == "" {
			booking.Status = model.BookingStatusConfirmed
		}
		if booking.CreatedAt.IsZero() {
			booking.CreatedAt = time.Now().UTC()
		}
		if !booking.EndTime.After(booking.StartTime) {
			return 0, apperrors.Validation(
				fmt.Sprintf("booking %s has endTime before startTime", booking.ID), nil)
		}
	}

	if err := s.bookingRepo.Restore(ctx, bookings); err != nil {
		return 0, apperrors.Internal("failed to restore bookings", err)
	}

	s.logger.Info("Bookings imported", "count", len(bookings))
	return len(bookings), nil
}

// DaySlots generates the candidate slots of one calendar day for an
// event type (or the default duration when none is given).
func (s *bookingService) DaySlots(ctx context.Context, date time.Time, eventTypeID string) ([]availability.Slot, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	duration := s.cfg.DefaultSlotDurationMin
	if eventTypeID != "" && eventTypeID != model.OpenEventTypeID {
		eventType, err := s.eventTypeRepo.FindByID(ctx, eventTypeID)
		if err != nil {
			if errors.Is(err, schederrors.ErrNotFound) {
				return nil, apperrors.NotFoundWithID("event type", eventTypeID)
			}
			return nil, apperrors.Internal("failed to load event type", err)
		}
		if !eventType.IsActive {
			return nil, apperrors.Configuration(fmt.Sprintf("Event type %s is inactive.", eventType.Name))
		}
		duration = eventType.DurationMin
	}

	var dayStart, dayEnd string
	if settings.Is24x7 {
		dayStart, dayEnd = "00:00", "23:59"
	} else {
		window := settings.Window(date.Weekday().String())
		if window == nil {
			return []availability.Slot{}, nil
		}
		dayStart, dayEnd = window.Start, window.End
	}

	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	to := from.AddDate(0, 0, 1)
	existing, err := s.bookingRepo.FindAll(ctx, repository.BookingFilter{From: &from, To: &to}, 0, 0)
	if err != nil {
		return nil, apperrors.Internal("failed to load bookings for day", err)
	}

	return availability.GenerateSlots(dayStart, dayEnd, duration, date, existing, time.Now())
}
