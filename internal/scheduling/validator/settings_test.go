package validator

import (
	"errors"
	"testing"

	"slotwise/pkg/model"
)

func TestSettingsValidator_AcceptsClosedDays(t *testing.T) {
	v := NewSettingsValidator(newTestLogger())
	availability := map[string]*model.DayWindow{
		"Monday":   {Start: "09:00", End: "17:00"},
		"Saturday": nil,
	}

	if err := v.ValidateUpdate(&model.BookingSettingsUpdate{Availability: &availability}); err != nil {
		t.Fatalf("valid availability rejected: %v", err)
	}
}

func TestSettingsValidator_RejectsUnknownWeekday(t *testing.T) {
	v := NewSettingsValidator(newTestLogger())
	availability := map[string]*model.DayWindow{
		"Funday": {Start: "09:00", End: "17:00"},
	}

	err := v.ValidateUpdate(&model.BookingSettingsUpdate{Availability: &availability})
	var errs ValidationErrors
	if !errors.As(err, &errs) {
		t.Fatalf("expected ValidationErrors, got %T: %v", err, err)
	}
	if errs[0].Field != "Funday" {
		t.Errorf("errors = %v", errs)
	}
}

func TestSettingsValidator_RejectsMalformedTimes(t *testing.T) {
	v := NewSettingsValidator(newTestLogger())

	for _, window := range []*model.DayWindow{
		{Start: "9:00", End: "17:00"},
		{Start: "09:00", End: "24:00"},
		{Start: "09:60", End: "17:00"},
		{Start: "17:00", End: "09:00"},
		{Start: "09:00", End: "09:00"},
	} {
		availability := map[string]*model.DayWindow{"Monday": window}
		if err := v.ValidateUpdate(&model.BookingSettingsUpdate{Availability: &availability}); err == nil {
			t.Errorf("window %q-%q should be rejected", window.Start, window.End)
		}
	}
}

func TestSettingsValidator_RejectsBadTimezone(t *testing.T) {
	v := NewSettingsValidator(newTestLogger())

	if err := v.ValidateUpdate(&model.BookingSettingsUpdate{Timezone: "Mars/Olympus"}); err == nil {
		t.Error("invalid timezone should be rejected")
	}
	if err := v.ValidateUpdate(&model.BookingSettingsUpdate{Timezone: "Europe/Stockholm"}); err != nil {
		t.Errorf("valid timezone rejected: %v", err)
	}
}
