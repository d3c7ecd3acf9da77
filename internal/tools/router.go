// Package tools is the agent-facing façade: a fixed catalog of named
// operations dispatched onto the domain services. Tool calls never
// propagate an error to the caller; every failure becomes a negative
// result whose message an agent can relay to an end user verbatim.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"slotwise/internal/scheduling/service"
	"slotwise/pkg/config"
	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/logger"
)

// Result is the uniform tool-call outcome.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

type toolFunc func(ctx context.Context, input map[string]any) (any, error)

type Router struct {
	bookings   service.BookingService
	leads      service.LeadService
	eventTypes service.EventTypeService
	settings   service.SettingsService
	cfg        *config.Config
	log        *logger.Logger
	handlers   map[string]toolFunc
}

func NewRouter(
	bookings service.BookingService,
	leads service.LeadService,
	eventTypes service.EventTypeService,
	settings service.SettingsService,
	cfg *config.Config,
	log *logger.Logger,
) *Router {
	r := &Router{
		bookings:   bookings,
		leads:      leads,
		eventTypes: eventTypes,
		settings:   settings,
		cfg:        cfg,
		log:        log,
	}

	r.handlers = map[string]toolFunc{
		"get_current_datetime":     r.getCurrentDatetime,
		"capture_contact":          r.captureContact,
		"get_capture_requirements": r.getCaptureRequirements,
		"custom_fields_get":        r.customFieldsGet,
		"custom_fields_set":        r.customFieldsSet,
		"booking_list":             r.bookingList,
		"booking_get":              r.bookingGet,
		"booking_create":           r.bookingCreate,
		"booking_find":             r.bookingFind,
		"booking_upsert":           r.bookingUpsert,
		"booking_update":           r.bookingUpdate,
		"booking_cancel":           r.bookingCancel,
		"booking_delete":           r.bookingDelete,
		"event_types_list":         r.eventTypesList,
		"event_types_create":       r.eventTypesCreate,
		"availability_check":       r.availabilityCheck,
		"lead_create":              r.leadCreate,
		"lead_list":                r.leadList,
		"lead_update":              r.leadUpdate,
		"lead_get":                 r.leadGet,
		"lead_stats":               r.leadStats,
	}

	return r
}

// Execute dispatches a tool call by name. It always returns a Result;
// unknown names, domain errors and panics all surface as negative
// results.
func (r *Router) Execute(ctx context.Context, name string, input map[string]any) (result Result) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("tool call panicked", "tool", name, "panic", rec)
			result = Result{Success: false, Error: "An unexpected error occurred. Try again."}
		}
	}()

	fn, ok := r.handlers[name]
	if ok {
		if input == nil {
			input = make(map[string]any)
		}

		r.log.Info("executing tool", "tool", name)

		data, err := fn(ctx, input)
		if err != nil {
			r.log.Warn("tool call failed", "tool", name, "error", err)
			return Result{Success: false, Error: relayableMessage(err)}
		}
		return Result{Success: true, Data: data}
	}

	names := make([]string, 0, len(r.handlers))
	for n := range r.handlers {
		names = append(names, n)
	}
	sort.Strings(names)
	return Result{
		Success: false,
		Error:   fmt.Sprintf("Unknown tool %q. Available tools: %v", name, names),
	}
}

// relayableMessage extracts a message safe to hand to an end user.
func relayableMessage(err error) string {
	if appErr := apperrors.AsAppError(err); appErr != nil {
		if appErr.Code == apperrors.CodeInternal {
			return "An internal error occurred. Try again."
		}
		return appErr.Message
	}
	return err.Error()
}

// decodeInput maps a loose JSON object onto a typed request struct.
func decodeInput(input map[string]any, target any) error {
	raw, err := json.Marshal(input)
	if err != nil {
		return apperrors.InvalidInput("invalid tool input")
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return apperrors.InvalidInput(fmt.Sprintf("invalid tool input: %v", err))
	}
	return nil
}

func stringArg(input map[string]any, key string) string {
	if v, ok := input[key].(string); ok {
		return v
	}
	return ""
}

func boolArg(input map[string]any, key string) bool {
	v, ok := input[key].(bool)
	return ok && v
}
