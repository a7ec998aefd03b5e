// internal/handler/health_handler.go
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/unclebandit/churn-predictor/internal/model"
)

// Version is set at build time via ldflags.
var Version = "dev"

// HealthHandler reports liveness and which model is loaded.
type HealthHandler struct {
	Model     model.ModelInfo
	StartedAt time.Time
}

func NewHealthHandler(info model.ModelInfo) *HealthHandler {
	return &HealthHandler{Model: info, StartedAt: time.Now()}
}

func (h *HealthHandler) Status(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"version": Version,
		"model":   h.Model,
		"uptime":  time.Since(h.StartedAt).Round(time.Second).String(),
	})
}
