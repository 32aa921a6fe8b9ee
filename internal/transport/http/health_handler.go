package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"praxiscli/pkg/contracts"
)

// HealthHandler answers liveness checks with version information.
type HealthHandler struct {
	startedAt time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{startedAt: time.Now()}
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status        string                `json:"status"`
	UptimeSeconds int64                 `json:"uptime_seconds"`
	Version       contracts.VersionInfo `json:"version"`
}

// Health handles GET /healthz
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		Version:       contracts.GetVersionInfo(),
	})
}
