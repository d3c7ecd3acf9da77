package validator

import (
	"testing"
	"time"

	"slotwise/pkg/model"
)

func validBooking() *model.Booking {
	start := time.Now().Add(48 * time.Hour).Truncate(time.Minute)
	return &model.Booking{
		EventTypeID: "et-1",
		StartTime:   start,
		EndTime:     start.Add(30 * time.Minute),
		GuestName:   "Dana Reyes",
		GuestEmail:  "dana@example.com",
		Status:      model.BookingStatusConfirmed,
	}
}

func TestBookingValidator_Valid(t *testing.T) {
	v := NewBookingValidator(newTestLogger())
	if err := v.Validate(validBooking()); err != nil {
		t.Fatalf("valid booking rejected: %v", err)
	}
}

func TestBookingValidator_RejectsPastStart(t *testing.T) {
	v := NewBookingValidator(newTestLogger())
	booking := validBooking()
	booking.StartTime = time.Now().Add(-time.Hour)
	booking.EndTime = booking.StartTime.Add(30 * time.Minute)

	if err := v.Validate(booking); err == nil {
		t.Error("past start time should be rejected")
	}
}

func TestBookingValidator_RejectsEndBeforeStart(t *testing.T) {
	v := NewBookingValidator(newTestLogger())
	booking := validBooking()
	booking.EndTime = booking.StartTime.Add(-30 * time.Minute)

	if err := v.Validate(booking); err == nil {
		t.Error("end before start should be rejected")
	}
}

func TestBookingValidator_RejectsBadEmail(t *testing.T) {
	v := NewBookingValidator(newTestLogger())
	booking := validBooking()
	booking.GuestEmail = "not-an-email"

	if err := v.Validate(booking); err == nil {
		t.Error("malformed email should be rejected")
	}
}

func TestBookingValidator_UpdateWindowOrdering(t *testing.T) {
	v := NewBookingValidator(newTestLogger())
	start := time.Now().Add(24 * time.Hour)
	end := start.Add(-time.Minute)

	err := v.ValidateUpdate(&model.BookingUpdate{StartTime: &start, EndTime: &end})
	if err == nil {
		t.Error("inverted window should be rejected")
	}

	end = start.Add(time.Hour)
	if err := v.ValidateUpdate(&model.BookingUpdate{StartTime: &start, EndTime: &end}); err != nil {
		t.Errorf("valid window rejected: %v", err)
	}
}

func TestBookingValidator_SearchNeedsCriterion(t *testing.T) {
	v := NewBookingValidator(newTestLogger())

	if err := v.ValidateSearch(&model.BookingSearch{}); err == nil {
		t.Error("empty search should be rejected")
	}
	if err := v.ValidateSearch(&model.BookingSearch{Phone: "555"}); err != nil {
		t.Errorf("phone-only search rejected: %v", err)
	}
}
