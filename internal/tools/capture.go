package tools

import (
	"context"

	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/model"
)

// captureContact routes a combined contact payload to either a booking
// or a lead. Agents frequently cannot tell which record to create;
// "auto" resolves to a booking iff both eventTypeId (or a slot token)
// and startTime are present, otherwise a lead.
func (r *Router) captureContact(ctx context.Context, input map[string]any) (any, error) {
	requestType := stringArg(input, "requestType")
	if requestType == "" {
		requestType = "auto"
	}

	switch requestType {
	case "booking":
		if !hasBookingCoordinates(input) {
			return nil, apperrors.Validation("booking capture requires eventTypeId and startTime (or a slotToken)", nil)
		}
	case "auto":
		if hasBookingCoordinates(input) {
			requestType = "booking"
		} else {
			requestType = "lead"
		}
	case "lead":
	default:
		return nil, apperrors.InvalidInput("requestType must be one of: booking, lead, auto")
	}

	if requestType == "booking" {
		req, err := r.parseBookingInput(input)
		if err != nil {
			return nil, err
		}
		booking, err := r.bookings.Create(ctx, req)
		if err != nil {
			return nil, err
		}
		return map[string]any{"type": "booking", "booking": booking}, nil
	}

	var lead model.Lead
	if err := decodeInput(input, &lead); err != nil {
		return nil, err
	}
	created, err := r.leads.Create(ctx, &lead)
	if err != nil {
		return nil, err
	}
	return map[string]any{"type": "lead", "lead": created}, nil
}

// hasBookingCoordinates reports whether the payload can place a slot on
// the calendar: a slot token alone is enough, otherwise both an event
// type id and a start time are required.
func hasBookingCoordinates(input map[string]any) bool {
	if stringArg(input, "slotToken") != "" {
		return true
	}
	return stringArg(input, "eventTypeId") != "" && stringArg(input, "startTime") != ""
}
