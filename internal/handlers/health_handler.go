// File: internal/handlers/health_handler.go
package handlers

import (
	"net/http"
	"time"

	"github.com/iyunix/go-codementor/internal/dtos"
)

// Pinger reports whether the database is reachable.
type Pinger func() error

type HealthHandler struct {
	ping        Pinger
	environment string
	started     time.Time
}

func NewHealthHandler(ping Pinger, environment string) *HealthHandler {
	return &HealthHandler{ping: ping, environment: environment, started: time.Now()}
}

type healthResponse struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Uptime      int64  `json:"uptime"`
	Environment string `json:"environment"`
	Database    string `json:"database"`
}

// Health reports liveness plus database reachability; 503 when the
// database is down.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:      "OK",
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Uptime:      int64(time.Since(h.started).Seconds()),
		Environment: h.environment,
		Database:    "connected",
	}
	status := http.StatusOK
	if h.ping != nil {
		if err := h.ping(); err != nil {
			resp.Status = "ERROR"
			resp.Database = "disconnected"
			status = http.StatusServiceUnavailable
		}
	}
	dtos.WriteJSON(w, status, resp)
}
