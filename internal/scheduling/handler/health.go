package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	httputil "slotwise/pkg/http"
	"slotwise/pkg/logger"
)

type HealthHandler struct {
	mongo *mongo.Client
	log   *logger.Logger
}

func NewHealthHandler(client *mongo.Client, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		mongo: client,
		log:   log,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	if err := h.mongo.Ping(ctx, readpref.Primary()); err != nil {
		h.log.Error("health check ping failed", "error", err)
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	httputil.WriteJSON(w, code, map[string]any{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready reports process liveness without touching Mongo.
func (h *HealthHandler) Ready(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}
