package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"slotwise/internal/scheduling/repository"
	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/model"
)

func introCall() *model.EventType {
	return &model.EventType{
		ID:          "et-intro",
		Name:        "Intro Call",
		Slug:        "intro-call",
		DurationMin: 30,
		IsActive:    true,
	}
}

// nextWeekday returns the next occurrence of day, at least one day in
// the future, at the given wall-clock time in UTC.
func nextWeekday(day time.Weekday, hour, min int) time.Time {
	d := time.Now().UTC().AddDate(0, 0, 1)
	for d.Weekday() != day {
		d = d.AddDate(0, 0, 1)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, min, 0, 0, time.UTC)
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	return appErr.Code
}

func TestBookingCreate_Success(t *testing.T) {
	env := newTestEnv(introCall())
	start := nextWeekday(time.Monday, 9, 0)

	booking, err := env.bookings.Create(context.Background(), &BookingInput{
		EventTypeID: "et-intro",
		StartTime:   start,
		GuestName:   "  Dana Reyes ",
		GuestEmail:  "Dana@Example.COM",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if booking.ID == "" {
		t.Error("expected a generated id")
	}
	if booking.Status != model.BookingStatusConfirmed {
		t.Errorf("status = %q, want confirmed", booking.Status)
	}
	if !booking.EndTime.Equal(start.Add(30 * time.Minute)) {
		t.Errorf("end time = %v, want start + 30m", booking.EndTime)
	}
	if booking.GuestEmail != "dana@example.com" {
		t.Errorf("email not normalized: %q", booking.GuestEmail)
	}
	if booking.GuestName != "Dana Reyes" {
		t.Errorf("name not trimmed: %q", booking.GuestName)
	}
	if got := env.broadcast.published(); len(got) != 1 || got[0] != "booking.created" {
		t.Errorf("published events = %v, want [booking.created]", got)
	}
	if len(env.lockRepo.held) != 0 {
		t.Errorf("slot lock not released: %v", env.lockRepo.held)
	}
}

func TestBookingCreate_OverlapConflict(t *testing.T) {
	env := newTestEnv(introCall())
	start := nextWeekday(time.Monday, 9, 0)

	if _, err := env.bookings.Create(context.Background(), &BookingInput{
		EventTypeID: "et-intro",
		StartTime:   start,
		GuestName:   "First Guest",
		GuestEmail:  "first@example.com",
	}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	// 09:15 overlaps the 09:00-09:30 booking.
	_, err := env.bookings.Create(context.Background(), &BookingInput{
		EventTypeID: "et-intro",
		StartTime:   start.Add(15 * time.Minute),
		GuestName:   "Second Guest",
		GuestEmail:  "second@example.com",
	})
	if code := appCode(t, err); code != apperrors.CodeConflict {
		t.Errorf("code = %q, want CONFLICT", code)
	}
	if len(env.lockRepo.held) != 0 {
		t.Errorf("locks must be released after a conflict: %v", env.lockRepo.held)
	}
}

func TestBookingCreate_OverlappingStartsContendOnDayLock(t *testing.T) {
	env := newTestEnv(introCall())
	start := nextWeekday(time.Monday, 9, 0)

	// Another request for 09:00-09:30 is mid-flight and holds its locks.
	for _, id := range repository.LockIDs(start, start.Add(30*time.Minute)) {
		env.lockRepo.held[id] = true
	}

	// 09:15 has a different start time but must contend on the shared
	// day key instead of slipping past the in-flight request.
	_, err := env.bookings.Create(context.Background(), &BookingInput{
		EventTypeID: "et-intro",
		StartTime:   start.Add(15 * time.Minute),
		GuestName:   "Racing Guest",
		GuestEmail:  "race@example.com",
	})
	if code := appCode(t, err); code != apperrors.CodeConflict {
		t.Errorf("code = %q, want CONFLICT while an overlapping create is in flight", code)
	}
}

func TestBookingCreate_BackToBackSlotsDoNotConflict(t *testing.T) {
	env := newTestEnv(introCall())
	start := nextWeekday(time.Monday, 9, 0)

	if _, err := env.bookings.Create(context.Background(), &BookingInput{
		EventTypeID: "et-intro",
		StartTime:   start,
		GuestName:   "First Guest",
		GuestEmail:  "first@example.com",
	}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := env.bookings.Create(context.Background(), &BookingInput{
		EventTypeID: "et-intro",
		StartTime:   start.Add(30 * time.Minute),
		GuestName:   "Second Guest",
		GuestEmail:  "second@example.com",
	}); err != nil {
		t.Fatalf("adjacent booking rejected: %v", err)
	}
}

func TestBookingCreate_OutsideWorkingHours(t *testing.T) {
	env := newTestEnv(introCall())

	// Saturday is closed under the default availability.
	_, err := env.bookings.Create(context.Background(), &BookingInput{
		EventTypeID: "et-intro",
		StartTime:   nextWeekday(time.Saturday, 10, 0),
		GuestName:   "Weekend Guest",
		GuestEmail:  "weekend@example.com",
	})
	if code := appCode(t, err); code != apperrors.CodeUnavailable {
		t.Errorf("code = %q, want UNAVAILABLE", code)
	}

	// 08:45 starts before the day opens.
	_, err = env.bookings.Create(context.Background(), &BookingInput{
		EventTypeID: "et-intro",
		StartTime:   nextWeekday(time.Tuesday, 8, 45),
		GuestName:   "Early Guest",
		GuestEmail:  "early@example.com",
	})
	if code := appCode(t, err); code != apperrors.CodeUnavailable {
		t.Errorf("code = %q, want UNAVAILABLE", code)
	}
}

func TestBookingCreate_LockContention(t *testing.T) {
	env := newTestEnv(introCall())
	env.lockRepo.fail = true

	_, err := env.bookings.Create(context.Background(), &BookingInput{
		EventTypeID: "et-intro",
		StartTime:   nextWeekday(time.Monday, 10, 0),
		GuestName:   "Racing Guest",
		GuestEmail:  "race@example.com",
	})
	if code := appCode(t, err); code != apperrors.CodeConflict {
		t.Errorf("code = %q, want CONFLICT on lock contention", code)
	}
}

func TestBookingCreate_UnknownEventTypeEnumeratesActive(t *testing.T) {
	env := newTestEnv(introCall())

	_, err := env.bookings.Create(context.Background(), &BookingInput{
		EventTypeID: "et-missing",
		StartTime:   nextWeekday(time.Monday, 9, 0),
		GuestName:   "Lost Guest",
		GuestEmail:  "lost@example.com",
	})
	if code := appCode(t, err); code != apperrors.CodeConfiguration {
		t.Fatalf("code = %q, want CONFIGURATION_ERROR", code)
	}
	if !strings.Contains(err.Error(), "Intro Call") {
		t.Errorf("error should list active event types, got: %v", err)
	}
}

func TestBookingCreate_OpenEventFallback(t *testing.T) {
	env := newTestEnv()
	env.setRepo.stored = &model.BookingSettings{AllowOpenEvents: true}

	booking, err := env.bookings.Create(context.Background(), &BookingInput{
		EventTypeName: "Portfolio Review",
		DurationMin:   45,
		StartTime:     nextWeekday(time.Wednesday, 11, 0),
		GuestName:     "Open Guest",
		GuestEmail:    "open@example.com",
	})
	if err != nil {
		t.Fatalf("open-event create failed: %v", err)
	}
	if booking.EventTypeName != "Portfolio Review" {
		t.Errorf("event type name = %q", booking.EventTypeName)
	}
	if !booking.EndTime.Equal(booking.StartTime.Add(45 * time.Minute)) {
		t.Errorf("duration not honored: %v", booking.EndTime.Sub(booking.StartTime))
	}
}

func TestBookingCreate_OpenEventsDisabled(t *testing.T) {
	env := newTestEnv()

	_, err := env.bookings.Create(context.Background(), &BookingInput{
		EventTypeName: "Portfolio Review",
		StartTime:     nextWeekday(time.Wednesday, 11, 0),
		GuestName:     "Open Guest",
		GuestEmail:    "open@example.com",
	})
	if code := appCode(t, err); code != apperrors.CodeConfiguration {
		t.Errorf("code = %q, want CONFIGURATION_ERROR", code)
	}
}

func TestBookingUpsert_CreatesThenMoves(t *testing.T) {
	env := newTestEnv(introCall())
	ctx := context.Background()
	first := nextWeekday(time.Monday, 9, 0)
	second := nextWeekday(time.Tuesday, 14, 0)

	booking, created, err := env.bookings.Upsert(ctx, &BookingInput{
		EventTypeID: "et-intro",
		StartTime:   first,
		GuestName:   "Repeat Guest",
		GuestEmail:  "repeat@example.com",
		GuestNotes:  "prefers mornings",
	})
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if !created {
		t.Fatal("first upsert should create")
	}

	moved, created, err := env.bookings.Upsert(ctx, &BookingInput{
		EventTypeID: "et-intro",
		StartTime:   second,
		GuestName:   "Repeat Guest",
		GuestEmail:  "repeat@example.com",
	})
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if created {
		t.Fatal("second upsert should update the existing booking")
	}
	if moved.ID != booking.ID {
		t.Errorf("upsert changed identity: %s vs %s", moved.ID, booking.ID)
	}
	if !moved.StartTime.Equal(second) {
		t.Errorf("start = %v, want %v", moved.StartTime, second)
	}
	if moved.GuestNotes != "prefers mornings" {
		t.Errorf("notes lost on merge: %q", moved.GuestNotes)
	}

	count, _ := env.bookingRepo.Count(ctx, repository.BookingFilter{})
	if count != 1 {
		t.Errorf("booking count = %d, want 1", count)
	}

	events := env.broadcast.published()
	if len(events) != 2 || events[0] != "booking.created" || events[1] != "booking.updated" {
		t.Errorf("events = %v, want [booking.created booking.updated]", events)
	}
}

func TestBookingUpsert_KeepsCustomFieldsOnMerge(t *testing.T) {
	env := newTestEnv(introCall())
	ctx := context.Background()

	captured := []model.CustomFieldValue{
		{FieldID: "f-budget", FieldName: "budget", Value: "5000"},
	}
	if _, _, err := env.bookings.Upsert(ctx, &BookingInput{
		EventTypeID:  "et-intro",
		StartTime:    nextWeekday(time.Monday, 9, 0),
		GuestName:    "Repeat Guest",
		GuestEmail:   "repeat@example.com",
		CustomFields: captured,
	}); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	// Moving the booking without re-sending customFields must not drop
	// the previously captured values.
	moved, _, err := env.bookings.Upsert(ctx, &BookingInput{
		EventTypeID: "et-intro",
		StartTime:   nextWeekday(time.Tuesday, 14, 0),
		GuestName:   "Repeat Guest",
		GuestEmail:  "repeat@example.com",
	})
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if len(moved.CustomFields) != 1 || moved.CustomFields[0].FieldID != "f-budget" {
		t.Errorf("custom fields lost on merge: %v", moved.CustomFields)
	}

	// An explicit empty slice is a deliberate clear, not an omission.
	cleared, _, err := env.bookings.Upsert(ctx, &BookingInput{
		EventTypeID:  "et-intro",
		StartTime:    nextWeekday(time.Wednesday, 10, 0),
		GuestName:    "Repeat Guest",
		GuestEmail:   "repeat@example.com",
		CustomFields: []model.CustomFieldValue{},
	})
	if err != nil {
		t.Fatalf("third upsert failed: %v", err)
	}
	if len(cleared.CustomFields) != 0 {
		t.Errorf("explicit empty customFields should clear, got %v", cleared.CustomFields)
	}
}

func TestBookingUpsert_DoesNotConflictWithItself(t *testing.T) {
	env := newTestEnv(introCall())
	ctx := context.Background()
	start := nextWeekday(time.Monday, 9, 0)

	if _, _, err := env.bookings.Upsert(ctx, &BookingInput{
		EventTypeID: "et-intro",
		StartTime:   start,
		GuestName:   "Same Slot",
		GuestEmail:  "same@example.com",
	}); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	// Re-upserting the identical slot must exclude the caller's own
	// booking from conflict detection.
	if _, _, err := env.bookings.Upsert(ctx, &BookingInput{
		EventTypeID: "et-intro",
		StartTime:   start,
		GuestName:   "Same Slot",
		GuestEmail:  "same@example.com",
	}); err != nil {
		t.Fatalf("identical re-upsert rejected: %v", err)
	}
}

func TestBookingCancel_Idempotent(t *testing.T) {
	env := newTestEnv(introCall())
	ctx := context.Background()

	booking, err := env.bookings.Create(ctx, &BookingInput{
		EventTypeID: "et-intro",
		StartTime:   nextWeekday(time.Monday, 9, 0),
		GuestName:   "Cancel Me",
		GuestEmail:  "cancel@example.com",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	cancelled, err := env.bookings.Cancel(ctx, booking.ID, "guest request")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != model.BookingStatusCancelled {
		t.Errorf("status = %q", cancelled.Status)
	}

	again, err := env.bookings.Cancel(ctx, booking.ID, "guest request")
	if err != nil {
		t.Fatalf("repeat cancel must be a no-op, got: %v", err)
	}
	if again.Status != model.BookingStatusCancelled {
		t.Errorf("status = %q", again.Status)
	}

	events := env.broadcast.published()
	var cancels int
	for _, e := range events {
		if e == "booking.cancelled" {
			cancels++
		}
	}
	if cancels != 1 {
		t.Errorf("booking.cancelled published %d times, want 1", cancels)
	}
}

func TestBookingCancel_FreesSlot(t *testing.T) {
	env := newTestEnv(introCall())
	ctx := context.Background()
	start := nextWeekday(time.Monday, 9, 0)

	booking, err := env.bookings.Create(ctx, &BookingInput{
		EventTypeID: "et-intro",
		StartTime:   start,
		GuestName:   "First Guest",
		GuestEmail:  "first@example.com",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := env.bookings.Cancel(ctx, booking.ID, ""); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if _, err := env.bookings.Create(ctx, &BookingInput{
		EventTypeID: "et-intro",
		StartTime:   start,
		GuestName:   "Second Guest",
		GuestEmail:  "second@example.com",
	}); err != nil {
		t.Fatalf("cancelled slot should be reusable: %v", err)
	}
}

func TestBookingFind_MatchesAndHints(t *testing.T) {
	env := newTestEnv(introCall())
	ctx := context.Background()

	if _, err := env.bookings.Create(ctx, &BookingInput{
		EventTypeID: "et-intro",
		StartTime:   nextWeekday(time.Monday, 9, 0),
		GuestName:   "Maria Lindqvist",
		GuestEmail:  "maria@example.com",
		GuestPhone:  "+1 (555) 010-2030",
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	result, err := env.bookings.Find(ctx, &model.BookingSearch{Name: "lindqvist"})
	if err != nil {
		t.Fatalf("find by name failed: %v", err)
	}
	if len(result.Bookings) != 1 {
		t.Fatalf("matched %d bookings, want 1", len(result.Bookings))
	}
	if !strings.Contains(result.Hint, "updating") {
		t.Errorf("hint should suggest updating, got %q", result.Hint)
	}

	result, err = env.bookings.Find(ctx, &model.BookingSearch{Phone: "5550102030"})
	if err != nil {
		t.Fatalf("find by phone failed: %v", err)
	}
	if len(result.Bookings) != 1 {
		t.Errorf("phone digits should match regardless of formatting, got %d", len(result.Bookings))
	}

	result, err = env.bookings.Find(ctx, &model.BookingSearch{Email: "nobody@example.com"})
	if err != nil {
		t.Fatalf("find by email failed: %v", err)
	}
	if len(result.Bookings) != 0 {
		t.Errorf("matched %d bookings, want 0", len(result.Bookings))
	}
	if !strings.Contains(result.Hint, "No existing booking") {
		t.Errorf("hint = %q", result.Hint)
	}
}

func TestBookingDaySlots_CountsAndConflicts(t *testing.T) {
	env := newTestEnv(introCall())
	ctx := context.Background()
	monday := nextWeekday(time.Monday, 0, 0)

	if _, err := env.bookings.Create(ctx, &BookingInput{
		EventTypeID: "et-intro",
		StartTime:   nextWeekday(time.Monday, 9, 0),
		GuestName:   "Slot Taker",
		GuestEmail:  "taker@example.com",
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	slots, err := env.bookings.DaySlots(ctx, monday, "et-intro")
	if err != nil {
		t.Fatalf("day slots failed: %v", err)
	}
	if len(slots) != 16 {
		t.Fatalf("slot count = %d, want 16 for 09:00-17:00 at 30m", len(slots))
	}
	if slots[0].Available {
		t.Error("09:00 slot should be unavailable after booking")
	}
	if !slots[1].Available {
		t.Error("09:30 slot should stay available")
	}
}

func TestBookingImport_RestoresBackup(t *testing.T) {
	env := newTestEnv(introCall())
	ctx := context.Background()
	start := nextWeekday(time.Monday, 9, 0)

	count, err := env.bookings.Import(ctx, []*model.Booking{
		{
			ID:          "restored-1",
			EventTypeID: "et-intro",
			StartTime:   start,
			EndTime:     start.Add(30 * time.Minute),
			GuestName:   "Backup Guest",
			GuestEmail:  "backup@example.com",
			Status:      model.BookingStatusConfirmed,
		},
		{
			EventTypeID: "et-intro",
			StartTime:   start.Add(time.Hour),
			EndTime:     start.Add(90 * time.Minute),
			GuestName:   "Second Backup",
			GuestEmail:  "backup2@example.com",
		},
	})
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if count != 2 {
		t.Errorf("imported = %d, want 2", count)
	}

	restored, err := env.bookings.GetByID(ctx, "restored-1")
	if err != nil {
		t.Fatalf("restored booking not readable: %v", err)
	}
	if restored.GuestEmail != "backup@example.com" {
		t.Errorf("restored email = %q", restored.GuestEmail)
	}
	if len(env.broadcast.published()) != 0 {
		t.Error("import must not broadcast per-record events")
	}
}

func TestBookingImport_RejectsInvertedWindow(t *testing.T) {
	env := newTestEnv(introCall())
	start := nextWeekday(time.Monday, 9, 0)

	_, err := env.bookings.Import(context.Background(), []*model.Booking{
		{EventTypeID: "et-intro", StartTime: start, EndTime: start.Add(-time.Minute)},
	})
	if code := appCode(t, err); code != apperrors.CodeValidation {
		t.Errorf("code = %q, want VALIDATION_ERROR", code)
	}
}

func TestBookingDaySlots_ClosedDay(t *testing.T) {
	env := newTestEnv(introCall())

	slots, err := env.bookings.DaySlots(context.Background(), nextWeekday(time.Sunday, 0, 0), "et-intro")
	if err != nil {
		t.Fatalf("day slots failed: %v", err)
	}
	if len(slots) != 0 {
		t.Errorf("closed day produced %d slots", len(slots))
	}
}
