package handler

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"slotwise/internal/availability"
	"slotwise/internal/scheduling/service"
	apperrors "slotwise/pkg/errors"
	httputil "slotwise/pkg/http"
	"slotwise/pkg/logger"
	"slotwise/pkg/sealer"
)

type AvailabilityHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.BookingService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

// TokenizedSlot is a candidate slot plus an opaque token an agent can
// hand straight back to the booking create call.
type TokenizedSlot struct {
	availability.Slot
	Token string `json:"token,omitempty"`
}

func (h *AvailabilityHandler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	dateStr := query.Get("date")
	if dateStr == "" {
		httputil.WriteError(w, apperrors.InvalidInput("date parameter is required (YYYY-MM-DD)"))
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("invalid date parameter, expected YYYY-MM-DD: "+dateStr))
		return
	}

	eventTypeID := query.Get("eventTypeId")

	slots, err := h.service.DaySlots(r.Context(), date, eventTypeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	tokenized := make([]TokenizedSlot, 0, len(slots))
	for _, slot := range slots {
		ts := TokenizedSlot{Slot: slot}
		if slot.Available {
			token, err := sealer.CreateSlotToken(eventTypeID, slot.Start)
			if err != nil {
				h.log.Error("failed to seal slot token", "start", slot.Start, "error", err)
			} else {
				ts.Token = token
			}
		}
		tokenized = append(tokenized, ts)
	}

	httputil.WriteSuccess(w, map[string]any{
		"date":        dateStr,
		"eventTypeId": eventTypeID,
		"slots":       tokenized,
	})
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/availability", h.Get)
}
