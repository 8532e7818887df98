package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/energy-advisor/pkg/database"
)

// HistoryChecker is satisfied by *database.DB.
type HistoryChecker interface {
	CheckHistory(ctx context.Context) error
}

type HealthHandler struct {
	db      HistoryChecker
	loadErr error
}

// NewHealthHandler accepts a nil db when history is kept in memory.
func NewHealthHandler(db HistoryChecker, loadErr error) *HealthHandler {
	return &HealthHandler{db: db, loadErr: loadErr}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

func (h *HealthHandler) checks(ctx context.Context) (map[string]string, bool) {
	checks := make(map[string]string)
	healthy := true

	if h.loadErr != nil {
		checks["artifacts"] = "unhealthy: " + h.loadErr.Error()
		healthy = false
	} else {
		checks["artifacts"] = "healthy"
	}

	if h.db == nil {
		checks["database"] = "disabled"
		return checks, healthy
	}

	// A missing schema leaves history writes failing behind the breaker but
	// recommendations still work, so it does not fail the check.
	switch err := h.db.CheckHistory(ctx); {
	case err == nil:
		checks["database"] = "healthy"
	case errors.Is(err, database.ErrSchemaMissing):
		checks["database"] = "degraded: " + err.Error()
	default:
		checks["database"] = "unhealthy"
		healthy = false
	}

	return checks, healthy
}

// Health godoc
// @Summary Service health
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks, healthy := h.checks(ctx)

	status, code := "healthy", http.StatusOK
	if !healthy {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	c.JSON(code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if _, healthy := h.checks(ctx); !healthy {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status:    "not ready",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ready",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "alive",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
