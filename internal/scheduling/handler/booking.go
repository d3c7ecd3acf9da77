package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"slotwise/internal/scheduling/repository"
	"slotwise/internal/scheduling/service"
	"slotwise/pkg/config"
	apperrors "slotwise/pkg/errors"
	httputil "slotwise/pkg/http"
	"slotwise/pkg/logger"
	"slotwise/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	loc     *time.Location
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, cfg *config.Config, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		loc:     cfg.Location(),
		log:     log,
	}
}

// decodeBookingBody reads a create/upsert body; offset-less timestamps
// are interpreted in the configured calendar timezone.
func (h *BookingHandler) decodeBookingBody(r *http.Request) (*service.BookingInput, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid request body")
	}
	return service.DecodeBookingInput(body, h.loc)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	input, err := h.decodeBookingBody(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	booking, err := h.service.Create(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, booking)
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, booking)
}

// parseBookingFilter reads status, eventTypeId and the from/to RFC 3339
// range off the query string.
func parseBookingFilter(r *http.Request) (repository.BookingFilter, error) {
	query := r.URL.Query()
	filter := repository.BookingFilter{
		Status:      query.Get("status"),
		EventTypeID: query.Get("eventTypeId"),
	}

	if s := query.Get("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return filter, apperrors.InvalidInput("invalid from parameter, expected RFC 3339: " + s)
		}
		filter.From = &t
	}
	if s := query.Get("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return filter, apperrors.InvalidInput("invalid to parameter, expected RFC 3339: " + s)
		}
		filter.To = &t
	}
	return filter, nil
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter, err := parseBookingFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	bookings, total, err := h.service.List(r.Context(), filter, limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, bookings, total, limit, offset)
}

func (h *BookingHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	search := model.BookingSearch{
		Email:            query.Get("email"),
		Name:             query.Get("name"),
		Phone:            query.Get("phone"),
		IncludeCompleted: query.Get("includeCompleted") == "true",
	}

	result, err := h.service.Find(r.Context(), &search)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, result)
}

func (h *BookingHandler) Upsert(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	input, err := h.decodeBookingBody(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	booking, created, err := h.service.Upsert(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if created {
		httputil.WriteCreated(w, booking)
		return
	}
	httputil.WriteSuccess(w, booking)
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.BookingUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	booking, err := h.service.Update(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Reason string `json:"reason,omitempty"`
	}
	// An empty body is fine; the reason is optional.
	_ = json.NewDecoder(r.Body).Decode(&body)

	booking, err := h.service.Cancel(r.Context(), ps.ByName("id"), body.Reason)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

// Import accepts a backup export of bookings and bulk-restores it.
func (h *BookingHandler) Import(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var bookings []*model.Booking
	if err := json.NewDecoder(r.Body).Decode(&bookings); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("invalid request body, expected a booking array"))
		return
	}

	count, err := h.service.Import(r.Context(), bookings)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, map[string]any{"imported": count})
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.GetAll)
	router.GET("/api/v1/bookings/search", h.Search)
	router.POST("/api/v1/bookings/upsert", h.Upsert)
	router.POST("/api/v1/bookings/import", h.Import)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.PATCH("/api/v1/bookings/id/:id", h.Update)
	router.DELETE("/api/v1/bookings/id/:id", h.Delete)
	router.POST("/api/v1/bookings/id/:id/cancel", h.Cancel)
}
