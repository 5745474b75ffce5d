// Package handler provides HTTP handlers for the StrideLab API.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/stridelab/stridelab/internal/api/models"
	"github.com/stridelab/stridelab/internal/api/response"
	"github.com/stridelab/stridelab/internal/store"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	store     store.Store
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, s store.Store) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		store:     s,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. The store
// is probed with a lookup of a key that is never written; ErrNotFound
// means the backend answered.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatusOK
	if _, err := h.store.Get(r.Context(), "ops:probe"); err != nil && !errors.Is(err, store.ErrNotFound) {
		status = models.HealthStatusFail
	}

	health := models.Health{
		Status: status,
		Time:   models.Timestamp(time.Now()),
	}
	code := http.StatusOK
	if status != models.HealthStatusOK {
		code = http.StatusServiceUnavailable
	}
	response.JSON(w, r, code, health)
}
