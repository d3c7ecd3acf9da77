package tools

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	httputil "slotwise/pkg/http"
	"slotwise/pkg/logger"
)

// Handler exposes the tool catalog and execution over HTTP, the shape
// agent gateways integrate against.
type Handler struct {
	router *Router
	log    *logger.Logger
}

func NewHandler(router *Router, log *logger.Logger) *Handler {
	return &Handler{
		router: router,
		log:    log,
	}
}

type executeRequest struct {
	Tool  string         `json:"tool"`
	Input map[string]any `json:"input,omitempty"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	httputil.WriteSuccess(w, map[string]any{"tools": Catalog()})
}

// Execute always answers 200 with a {success, data|error} body; a tool
// failure is a result, not an HTTP error.
func (h *Handler) Execute(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusOK, Result{Success: false, Error: "invalid request payload"})
		return
	}
	if req.Tool == "" {
		httputil.WriteJSON(w, http.StatusOK, Result{Success: false, Error: "tool name is required"})
		return
	}

	result := h.router.Execute(r.Context(), req.Tool, req.Input)
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/tools", h.List)
	router.POST("/api/v1/tools/execute", h.Execute)
}
