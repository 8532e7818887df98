package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/energy-advisor/internal/advisor"
	"github.com/OldStager01/energy-advisor/pkg/models"
)

// Advisor is the recommendation service the handlers call.
type Advisor interface {
	Recommend(ctx context.Context, req models.RecommendationRequest) (*models.Recommendation, error)
	Appliances() []string
	Tips(appliance string) ([]string, error)
}

// available writes 503 and returns false when the artifacts never loaded.
func available(c *gin.Context, svc Advisor, loadErr error) bool {
	if svc != nil && loadErr == nil {
		return true
	}
	msg := advisor.ErrUnavailable.Error()
	if loadErr != nil {
		msg = loadErr.Error()
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": msg})
	return false
}

func recommendStatus(err error) int {
	switch {
	case errors.Is(err, advisor.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, advisor.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// parseLimit reads ?limit= clamped to [1, max].
func parseLimit(c *gin.Context, def, max int) int {
	limit := def
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if max > 0 && limit > max {
		limit = max
	}
	return limit
}
