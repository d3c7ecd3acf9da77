package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"slotwise/internal/scheduling/service"
	apperrors "slotwise/pkg/errors"
	httputil "slotwise/pkg/http"
	"slotwise/pkg/logger"
	"slotwise/pkg/model"
)

type EventTypeHandler struct {
	service service.EventTypeService
	log     *logger.Logger
}

func NewEventTypeHandler(service service.EventTypeService, log *logger.Logger) *EventTypeHandler {
	return &EventTypeHandler{
		service: service,
		log:     log,
	}
}

func (h *EventTypeHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var eventType model.EventType
	if err := json.NewDecoder(r.Body).Decode(&eventType); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	created, err := h.service.Create(r.Context(), &eventType)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, created)
}

func (h *EventTypeHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventType, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, eventType)
}

func (h *EventTypeHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	activeOnly := r.URL.Query().Get("activeOnly") == "true"

	eventTypes, err := h.service.List(r.Context(), activeOnly)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, eventTypes)
}

func (h *EventTypeHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.EventTypeUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	eventType, err := h.service.Update(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, eventType)
}

func (h *EventTypeHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *EventTypeHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/event-types", h.Create)
	router.GET("/api/v1/event-types", h.GetAll)
	router.GET("/api/v1/event-types/id/:id", h.GetByID)
	router.PATCH("/api/v1/event-types/id/:id", h.Update)
	router.DELETE("/api/v1/event-types/id/:id", h.Delete)
}
