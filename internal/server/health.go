package server

import (
	"database/sql"
	"net/http"

	"github.com/desertthunder/taskx/internal/services"
)

// HealthHandler reports whether the backing database answers.
type HealthHandler struct {
	db *sql.DB
}

// NewHealthHandler creates a [HealthHandler].
func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Routes returns the HTTP routes this handler serves.
func (h *HealthHandler) Routes() []string {
	return []string{"GET /health"}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, services.HealthStatus{Status: "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, services.HealthStatus{Status: "ok"})
}
