// Package availability holds the pure scheduling arithmetic: candidate
// slot generation, interval conflict detection and working-hours
// validation. Nothing here touches a store; callers pass snapshots.
package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/model"
)

// Slot is one candidate fixed-duration interval within a day.
type Slot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}

// GenerateSlots walks date from dayStart to dayEnd (HH:MM wall clock)
// in durationMin steps. A trailing slot that would extend past dayEnd
// is dropped. Slots starting before now or overlapping an existing
// non-cancelled booking are marked unavailable. The result is computed
// fresh on every call.
func GenerateSlots(dayStart, dayEnd string, durationMin int, date time.Time, existing []*model.Booking, now time.Time) ([]Slot, error) {
	startMin, err := parseTimeOfDay(dayStart)
	if err != nil {
		return nil, err
	}
	endMin, err := parseTimeOfDay(dayEnd)
	if err != nil {
		return nil, err
	}
	if durationMin <= 0 {
		return nil, apperrors.InvalidInput("slot duration must be positive")
	}

	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	var slots []Slot
	for cursor := startMin; cursor+durationMin <= endMin; cursor += durationMin {
		slotStart := midnight.Add(time.Duration(cursor) * time.Minute)
		slotEnd := slotStart.Add(time.Duration(durationMin) * time.Minute)

		available := !slotStart.Before(now)
		if available {
			for _, b := range existing {
				if b.Status == model.BookingStatusCancelled {
					continue
				}
				if Overlaps(slotStart, slotEnd, b.StartTime, b.EndTime) {
					available = false
					break
				}
			}
		}

		slots = append(slots, Slot{Start: slotStart, End: slotEnd, Available: available})
	}
	return slots, nil
}

// Overlaps implements half-open interval overlap: touching endpoints do
// not overlap.
func Overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && end1.After(start2)
}

// HasConflict reports whether [startTime, endTime) overlaps any
// non-cancelled booking other than excludeID.
func HasConflict(startTime, endTime time.Time, existing []*model.Booking, excludeID string) bool {
	for _, b := range existing {
		if b.ID == excludeID {
			continue
		}
		if b.Status == model.BookingStatusCancelled {
			continue
		}
		if Overlaps(b.StartTime, b.EndTime, startTime, endTime) {
			return true
		}
	}
	return false
}

// ValidateWorkingHours checks that the requested interval lies fully
// inside the configured window of startTime's weekday. With is24x7 set
// the availability table is bypassed entirely. Errors carry the day's
// window (or the full weekly table when the day is closed) so an agent
// can relay something actionable.
func ValidateWorkingHours(startTime time.Time, durationMin int, settings *model.BookingSettings) error {
	if settings.Is24x7 {
		return nil
	}

	dayName := startTime.Weekday().String()
	window := settings.Window(dayName)
	if window == nil {
		return apperrors.Unavailable(
			fmt.Sprintf("No availability configured for %s. Weekly availability: %s", dayName, describeWeek(settings)),
			map[string]any{
				"dayOfWeek":    dayName,
				"availability": settings.Availability,
			},
		)
	}

	windowStart, err := parseTimeOfDay(window.Start)
	if err != nil {
		return apperrors.Internal(fmt.Sprintf("invalid configured start for %s", dayName), err)
	}
	windowEnd, err := parseTimeOfDay(window.End)
	if err != nil {
		return apperrors.Internal(fmt.Sprintf("invalid configured end for %s", dayName), err)
	}

	requestedStart := startTime.Hour()*60 + startTime.Minute()
	requestedEnd := requestedStart + durationMin

	if requestedStart < windowStart || requestedEnd > windowEnd {
		return apperrors.Unavailable(
			fmt.Sprintf("Requested time %s-%s falls outside %s working hours %s-%s",
				formatMinutes(requestedStart), formatMinutes(requestedEnd),
				dayName, window.Start, window.End),
			map[string]any{
				"dayOfWeek":       dayName,
				"availableWindow": window,
				"requestedStart":  formatMinutes(requestedStart),
				"requestedEnd":    formatMinutes(requestedEnd),
			},
		)
	}
	return nil
}

func parseTimeOfDay(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, apperrors.InvalidInput(fmt.Sprintf("invalid time of day %q, expected HH:MM", s))
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, apperrors.InvalidInput(fmt.Sprintf("invalid time of day %q, expected HH:MM", s))
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, apperrors.InvalidInput(fmt.Sprintf("invalid time of day %q, expected HH:MM", s))
	}
	return hours*60 + minutes, nil
}

func formatMinutes(total int) string {
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func describeWeek(settings *model.BookingSettings) string {
	var parts []string
	for _, day := range model.Weekdays {
		if w := settings.Window(day); w != nil {
			parts = append(parts, fmt.Sprintf("%s %s-%s", day, w.Start, w.End))
		} else {
			parts = append(parts, day+" closed")
		}
	}
	return strings.Join(parts, ", ")
}
