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

type SettingsHandler struct {
	service service.SettingsService
	log     *logger.Logger
}

func NewSettingsHandler(service service.SettingsService, log *logger.Logger) *SettingsHandler {
	return &SettingsHandler{
		service: service,
		log:     log,
	}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	settings, err := h.service.Get(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, settings)
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var update model.BookingSettingsUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	settings, err := h.service.Update(r.Context(), &update)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, settings)
}

func (h *SettingsHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/settings", h.Get)
	router.PUT("/api/v1/settings", h.Update)
}
