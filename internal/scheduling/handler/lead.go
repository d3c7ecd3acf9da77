package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"slotwise/internal/scheduling/repository"
	"slotwise/internal/scheduling/service"
	apperrors "slotwise/pkg/errors"
	httputil "slotwise/pkg/http"
	"slotwise/pkg/logger"
	"slotwise/pkg/model"
)

type LeadHandler struct {
	service service.LeadService
	log     *logger.Logger
}

func NewLeadHandler(service service.LeadService, log *logger.Logger) *LeadHandler {
	return &LeadHandler{
		service: service,
		log:     log,
	}
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var lead model.Lead
	if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	created, err := h.service.Create(r.Context(), &lead)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, created)
}

func (h *LeadHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	lead, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, lead)
}

func (h *LeadHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	filter := repository.LeadFilter{
		Status:   query.Get("status"),
		Priority: query.Get("priority"),
		Source:   query.Get("source"),
		Email:    query.Get("email"),
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	leads, total, err := h.service.List(r.Context(), filter, limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, leads, total, limit, offset)
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.LeadUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	lead, err := h.service.Update(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, lead)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *LeadHandler) Stats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, stats)
}

func (h *LeadHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/leads", h.Create)
	router.GET("/api/v1/leads", h.GetAll)
	router.GET("/api/v1/leads/stats", h.Stats)
	router.GET("/api/v1/leads/id/:id", h.GetByID)
	router.PATCH("/api/v1/leads/id/:id", h.Update)
	router.DELETE("/api/v1/leads/id/:id", h.Delete)
}
