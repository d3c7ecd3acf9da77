package tools

import (
	"context"
	"encoding/json"
	"time"

	"slotwise/internal/scheduling/repository"
	"slotwise/internal/scheduling/service"
	"slotwise/pkg/config"
	apperrors "slotwise/pkg/errors"
	httputil "slotwise/pkg/http"
	"slotwise/pkg/model"
	"slotwise/pkg/sealer"
)

// parseBookingInput decodes a booking create/upsert payload. Offset-less
// startTime/endTime values are read in the configured timezone, and a
// sealed slot token from availability_check overrides eventTypeId and
// startTime so an agent cannot garble the coordinates between the two
// calls.
func (r *Router) parseBookingInput(input map[string]any) (*service.BookingInput, error) {
	data, err := json.Marshal(input)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid tool input: " + err.Error())
	}
	req, err := service.DecodeBookingInput(data, r.cfg.Location())
	if err != nil {
		return nil, err
	}

	if token := stringArg(input, "slotToken"); token != "" {
		eventTypeID, startTime, err := sealer.ParseSlotToken(token)
		if err != nil {
			return nil, apperrors.InvalidInput("invalid slot token; call availability_check again for fresh slots")
		}
		if eventTypeID != "" {
			req.EventTypeID = eventTypeID
		}
		req.StartTime = startTime
	}

	return req, nil
}

func (r *Router) bookingCreate(ctx context.Context, input map[string]any) (any, error) {
	req, err := r.parseBookingInput(input)
	if err != nil {
		return nil, err
	}
	return r.bookings.Create(ctx, req)
}

func (r *Router) bookingUpsert(ctx context.Context, input map[string]any) (any, error) {
	req, err := r.parseBookingInput(input)
	if err != nil {
		return nil, err
	}
	booking, created, err := r.bookings.Upsert(ctx, req)
	if err != nil {
		return nil, err
	}
	return map[string]any{"booking": booking, "created": created}, nil
}

func (r *Router) bookingGet(ctx context.Context, input map[string]any) (any, error) {
	id := stringArg(input, "id")
	if id == "" {
		return nil, apperrors.InvalidInput("id is required")
	}
	return r.bookings.GetByID(ctx, id)
}

func (r *Router) bookingList(ctx context.Context, input map[string]any) (any, error) {
	var req struct {
		Status      string `json:"status,omitempty"`
		EventTypeID string `json:"eventTypeId,omitempty"`
		From        string `json:"from,omitempty"`
		To          string `json:"to,omitempty"`
		Limit       int    `json:"limit,omitempty"`
		Offset      int64  `json:"offset,omitempty"`
	}
	if err := decodeInput(input, &req); err != nil {
		return nil, err
	}

	filter := repository.BookingFilter{
		Status:      req.Status,
		EventTypeID: req.EventTypeID,
	}
	if req.From != "" {
		t, err := time.Parse(time.RFC3339, req.From)
		if err != nil {
			return nil, apperrors.InvalidInput("invalid from, expected RFC 3339: " + req.From)
		}
		filter.From = &t
	}
	if req.To != "" {
		t, err := time.Parse(time.RFC3339, req.To)
		if err != nil {
			return nil, apperrors.InvalidInput("invalid to, expected RFC 3339: " + req.To)
		}
		filter.To = &t
	}

	limit := config.NormalizePaginationLimit(req.Limit)
	offset := config.NormalizeOffset(req.Offset)

	bookings, total, err := r.bookings.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	return httputil.PaginatedResponse{
		Data: bookings,
		Pagination: httputil.Pagination{
			Total:   total,
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+int64(limit) < total,
		},
	}, nil
}

func (r *Router) bookingFind(ctx context.Context, input map[string]any) (any, error) {
	var search model.BookingSearch
	if err := decodeInput(input, &search); err != nil {
		return nil, err
	}
	return r.bookings.Find(ctx, &search)
}

func (r *Router) bookingUpdate(ctx context.Context, input map[string]any) (any, error) {
	id := stringArg(input, "id")
	if id == "" {
		return nil, apperrors.InvalidInput("id is required")
	}
	var update model.BookingUpdate
	if err := decodeInput(input, &update); err != nil {
		return nil, err
	}
	return r.bookings.Update(ctx, id, &update)
}

func (r *Router) bookingCancel(ctx context.Context, input map[string]any) (any, error) {
	id := stringArg(input, "id")
	if id == "" {
		return nil, apperrors.InvalidInput("id is required")
	}
	return r.bookings.Cancel(ctx, id, stringArg(input, "reason"))
}

func (r *Router) bookingDelete(ctx context.Context, input map[string]any) (any, error) {
	id := stringArg(input, "id")
	if id == "" {
		return nil, apperrors.InvalidInput("id is required")
	}
	if err := r.bookings.Delete(ctx, id); err != nil {
		return nil, err
	}
	return map[string]any{"deleted": id}, nil
}

func (r *Router) availabilityCheck(ctx context.Context, input map[string]any) (any, error) {
	dateStr := stringArg(input, "date")
	if dateStr == "" {
		return nil, apperrors.InvalidInput("date is required (YYYY-MM-DD)")
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid date, expected YYYY-MM-DD: " + dateStr)
	}

	eventTypeID := stringArg(input, "eventTypeId")

	slots, err := r.bookings.DaySlots(ctx, date, eventTypeID)
	if err != nil {
		return nil, err
	}

	type tokenizedSlot struct {
		Start     time.Time `json:"start"`
		End       time.Time `json:"end"`
		Available bool      `json:"available"`
		SlotToken string    `json:"slotToken,omitempty"`
	}

	out := make([]tokenizedSlot, 0, len(slots))
	for _, slot := range slots {
		ts := tokenizedSlot{Start: slot.Start, End: slot.End, Available: slot.Available}
		if slot.Available {
			if token, err := sealer.CreateSlotToken(eventTypeID, slot.Start); err == nil {
				ts.SlotToken = token
			}
		}
		out = append(out, ts)
	}

	return map[string]any{
		"date":        dateStr,
		"eventTypeId": eventTypeID,
		"slots":       out,
	}, nil
}

func (r *Router) eventTypesList(ctx context.Context, input map[string]any) (any, error) {
	return r.eventTypes.List(ctx, boolArg(input, "activeOnly"))
}

func (r *Router) eventTypesCreate(ctx context.Context, input map[string]any) (any, error) {
	var eventType model.EventType
	if err := decodeInput(input, &eventType); err != nil {
		return nil, err
	}
	return r.eventTypes.Create(ctx, &eventType)
}
