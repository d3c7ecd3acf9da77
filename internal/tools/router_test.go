package tools

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"slotwise/internal/scheduling/service"
	"slotwise/pkg/config"
	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/logger"
	"slotwise/pkg/model"
	"slotwise/pkg/sealer"
)

// Fakes embed the service interface so only the methods a test
// exercises need an implementation; calling anything else panics, which
// Execute converts to a negative result and the test then fails on.

type fakeBookings struct {
	service.BookingService
	createFn func(ctx context.Context, input *service.BookingInput) (*model.Booking, error)
}

func (f *fakeBookings) Create(ctx context.Context, input *service.BookingInput) (*model.Booking, error) {
	return f.createFn(ctx, input)
}

type fakeLeads struct {
	service.LeadService
	createFn func(ctx context.Context, lead *model.Lead) (*model.Lead, error)
}

func (f *fakeLeads) Create(ctx context.Context, lead *model.Lead) (*model.Lead, error) {
	return f.createFn(ctx, lead)
}

type fakeSettings struct {
	service.SettingsService
	getFn func(ctx context.Context) (*model.BookingSettings, error)
}

func (f *fakeSettings) Get(ctx context.Context) (*model.BookingSettings, error) {
	return f.getFn(ctx)
}

func testRouter(bookings service.BookingService, leads service.LeadService, settings service.SettingsService) *Router {
	log := logger.New(logger.Config{Level: "error", Format: "json", Output: io.Discard, Service: "test"})
	return NewRouter(bookings, leads, nil, settings, &config.Config{Log: log}, log)
}

func acceptingServices() (*fakeBookings, *fakeLeads) {
	bookings := &fakeBookings{
		createFn: func(ctx context.Context, input *service.BookingInput) (*model.Booking, error) {
			return &model.Booking{
				ID:          "b-1",
				EventTypeID: input.EventTypeID,
				StartTime:   input.StartTime,
				GuestEmail:  input.GuestEmail,
			}, nil
		},
	}
	leads := &fakeLeads{
		createFn: func(ctx context.Context, lead *model.Lead) (*model.Lead, error) {
			lead.ID = "l-1"
			return lead, nil
		},
	}
	return bookings, leads
}

func TestExecute_UnknownTool(t *testing.T) {
	router := testRouter(nil, nil, nil)

	result := router.Execute(context.Background(), "bookings_create", nil)
	if result.Success {
		t.Fatal("unknown tool must fail")
	}
	if !strings.Contains(result.Error, "booking_create") {
		t.Errorf("error should list available tools, got: %s", result.Error)
	}
}

func TestExecute_DomainErrorBecomesNegativeResult(t *testing.T) {
	bookings := &fakeBookings{
		createFn: func(ctx context.Context, input *service.BookingInput) (*model.Booking, error) {
			return nil, apperrors.Conflict("The slot is already booked. Pick a different time.")
		},
	}
	router := testRouter(bookings, nil, nil)

	result := router.Execute(context.Background(), "booking_create", map[string]any{
		"eventTypeId": "et-1",
		"startTime":   time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"guestName":   "Dana",
		"guestEmail":  "dana@example.com",
	})
	if result.Success {
		t.Fatal("conflict must produce a negative result")
	}
	if !strings.Contains(result.Error, "already booked") {
		t.Errorf("domain message should be relayed, got: %s", result.Error)
	}
}

func TestBookingCreate_AcceptsOffsetlessStartTime(t *testing.T) {
	var got *service.BookingInput
	bookings := &fakeBookings{
		createFn: func(ctx context.Context, input *service.BookingInput) (*model.Booking, error) {
			got = input
			return &model.Booking{ID: "b-1", StartTime: input.StartTime}, nil
		},
	}
	router := testRouter(bookings, nil, nil)

	result := router.Execute(context.Background(), "booking_create", map[string]any{
		"eventTypeId": "et-intro",
		"startTime":   "2025-01-06T09:00:00",
		"guestName":   "Jane Doe",
		"guestEmail":  "jane@acme.com",
	})
	if !result.Success {
		t.Fatalf("offset-less startTime must be accepted, got: %s", result.Error)
	}
	want := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	if !got.StartTime.Equal(want) {
		t.Errorf("startTime = %s, want %s", got.StartTime, want)
	}
}

func TestBookingCreate_OffsetlessTimeUsesConfiguredTimezone(t *testing.T) {
	var got *service.BookingInput
	bookings := &fakeBookings{
		createFn: func(ctx context.Context, input *service.BookingInput) (*model.Booking, error) {
			got = input
			return &model.Booking{ID: "b-1"}, nil
		},
	}
	log := logger.New(logger.Config{Level: "error", Format: "json", Output: io.Discard, Service: "test"})
	router := NewRouter(bookings, nil, nil, nil, &config.Config{Timezone: "America/New_York", Log: log}, log)

	result := router.Execute(context.Background(), "booking_create", map[string]any{
		"eventTypeId": "et-intro",
		"startTime":   "2025-01-06T09:00:00",
		"guestName":   "Jane Doe",
		"guestEmail":  "jane@acme.com",
	})
	if !result.Success {
		t.Fatalf("unexpected failure: %s", result.Error)
	}

	// 09:00 Eastern in January is 14:00 UTC.
	want := time.Date(2025, 1, 6, 14, 0, 0, 0, time.UTC)
	if !got.StartTime.Equal(want) {
		t.Errorf("startTime = %s, want %s", got.StartTime.UTC(), want)
	}
}

func TestExecute_InternalErrorIsMasked(t *testing.T) {
	bookings := &fakeBookings{
		createFn: func(ctx context.Context, input *service.BookingInput) (*model.Booking, error) {
			return nil, apperrors.Internal("mongo exploded: connection string leaked", nil)
		},
	}
	router := testRouter(bookings, nil, nil)

	result := router.Execute(context.Background(), "booking_create", map[string]any{
		"eventTypeId": "et-1",
	})
	if result.Success {
		t.Fatal("internal error must produce a negative result")
	}
	if strings.Contains(result.Error, "mongo") {
		t.Errorf("internal detail leaked to caller: %s", result.Error)
	}
}

func TestExecute_PanicRecovered(t *testing.T) {
	bookings := &fakeBookings{
		createFn: func(ctx context.Context, input *service.BookingInput) (*model.Booking, error) {
			panic("boom")
		},
	}
	router := testRouter(bookings, nil, nil)

	result := router.Execute(context.Background(), "booking_create", map[string]any{"eventTypeId": "et-1"})
	if result.Success {
		t.Fatal("panicking tool must produce a negative result")
	}
	if !strings.Contains(result.Error, "unexpected error") {
		t.Errorf("error = %s", result.Error)
	}
}

func TestCaptureContact_AutoRoutesToBooking(t *testing.T) {
	bookings, leads := acceptingServices()
	router := testRouter(bookings, leads, nil)

	result := router.Execute(context.Background(), "capture_contact", map[string]any{
		"eventTypeId": "et-1",
		"startTime":   time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"guestName":   "Dana",
		"guestEmail":  "dana@example.com",
	})
	if !result.Success {
		t.Fatalf("capture failed: %s", result.Error)
	}
	data := result.Data.(map[string]any)
	if data["type"] != "booking" {
		t.Errorf("type = %v, want booking", data["type"])
	}
}

func TestCaptureContact_AutoRoutesToLeadWithoutCoordinates(t *testing.T) {
	bookings, leads := acceptingServices()
	router := testRouter(bookings, leads, nil)

	// startTime alone is not enough to place a slot.
	result := router.Execute(context.Background(), "capture_contact", map[string]any{
		"startTime": time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"name":      "Dana",
		"email":     "dana@example.com",
	})
	if !result.Success {
		t.Fatalf("capture failed: %s", result.Error)
	}
	data := result.Data.(map[string]any)
	if data["type"] != "lead" {
		t.Errorf("type = %v, want lead", data["type"])
	}
}

func TestCaptureContact_SlotTokenAloneRoutesToBooking(t *testing.T) {
	bookings, leads := acceptingServices()
	router := testRouter(bookings, leads, nil)

	start := time.Now().Add(48 * time.Hour).Truncate(time.Second).UTC()
	token, err := sealer.CreateSlotToken("et-9", start)
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}

	var captured *service.BookingInput
	bookings.createFn = func(ctx context.Context, input *service.BookingInput) (*model.Booking, error) {
		captured = input
		return &model.Booking{ID: "b-1"}, nil
	}

	result := router.Execute(context.Background(), "capture_contact", map[string]any{
		"slotToken":  token,
		"guestName":  "Dana",
		"guestEmail": "dana@example.com",
	})
	if !result.Success {
		t.Fatalf("capture failed: %s", result.Error)
	}
	if captured == nil {
		t.Fatal("booking service not invoked")
	}
	if captured.EventTypeID != "et-9" || !captured.StartTime.Equal(start) {
		t.Errorf("token coordinates not applied: %s at %v", captured.EventTypeID, captured.StartTime)
	}
}

func TestCaptureContact_ExplicitBookingNeedsCoordinates(t *testing.T) {
	bookings, leads := acceptingServices()
	router := testRouter(bookings, leads, nil)

	result := router.Execute(context.Background(), "capture_contact", map[string]any{
		"requestType": "booking",
		"guestName":   "Dana",
		"guestEmail":  "dana@example.com",
	})
	if result.Success {
		t.Fatal("booking capture without coordinates must fail")
	}
	if !strings.Contains(result.Error, "startTime") {
		t.Errorf("error = %s", result.Error)
	}
}

func TestCaptureContact_TamperedSlotToken(t *testing.T) {
	bookings, leads := acceptingServices()
	router := testRouter(bookings, leads, nil)

	result := router.Execute(context.Background(), "capture_contact", map[string]any{
		"slotToken":  "bm90LWEtcmVhbC10b2tlbg",
		"guestName":  "Dana",
		"guestEmail": "dana@example.com",
	})
	if result.Success {
		t.Fatal("garbage slot token must fail")
	}
	if !strings.Contains(result.Error, "availability_check") {
		t.Errorf("error should point at availability_check, got: %s", result.Error)
	}
}

func TestGetCurrentDatetime(t *testing.T) {
	settings := &fakeSettings{
		getFn: func(ctx context.Context) (*model.BookingSettings, error) {
			return &model.BookingSettings{Timezone: "UTC"}, nil
		},
	}
	router := testRouter(nil, nil, settings)

	result := router.Execute(context.Background(), "get_current_datetime", nil)
	if !result.Success {
		t.Fatalf("tool failed: %s", result.Error)
	}
	data := result.Data.(map[string]any)
	if data["timezone"] != "UTC" {
		t.Errorf("timezone = %v", data["timezone"])
	}
	dates, ok := data["dates"].(map[string]string)
	if !ok {
		t.Fatalf("dates has unexpected shape: %T", data["dates"])
	}
	if dates["today"] == "" || dates["tomorrow"] == "" {
		t.Errorf("dates missing anchors: %v", dates)
	}
	for _, day := range []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"} {
		if dates[day] == "" {
			t.Errorf("dates missing %s", day)
		}
		if dates["next "+day] == "" {
			t.Errorf("dates missing next %s", day)
		}
	}
}

func TestCatalogMatchesHandlers(t *testing.T) {
	router := testRouter(nil, nil, nil)

	defs := Catalog()
	if len(defs) != len(router.handlers) {
		t.Fatalf("catalog has %d entries, router has %d handlers", len(defs), len(router.handlers))
	}
	for _, def := range defs {
		if _, ok := router.handlers[def.Name]; !ok {
			t.Errorf("catalog entry %q has no handler", def.Name)
		}
		if def.Description == "" {
			t.Errorf("catalog entry %q has no description", def.Name)
		}
	}
}
