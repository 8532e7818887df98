package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/energy-advisor/internal/history"
	"github.com/OldStager01/energy-advisor/pkg/config"
	"github.com/OldStager01/energy-advisor/pkg/models"
)

const defaultQueryTimeout = 5 * time.Second

type RecommendationHandler struct {
	advisor      Advisor
	loadErr      error
	store        history.Store
	apiConfig    config.APIConfig
	queryTimeout time.Duration
}

func NewRecommendationHandler(svc Advisor, loadErr error, store history.Store, apiCfg config.APIConfig, queryTimeout time.Duration) *RecommendationHandler {
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &RecommendationHandler{
		advisor:      svc,
		loadErr:      loadErr,
		store:        store,
		apiConfig:    apiCfg,
		queryTimeout: queryTimeout,
	}
}

// Create godoc
// @Summary Get energy saving recommendations
// @Description Match the selected appliances against reference households and return tips, suggestions, a simulated bill and the usage split
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param request body models.RecommendationRequest true "Appliances and monthly consumption"
// @Success 201 {object} models.Recommendation
// @Failure 400 {object} map[string]string "Missing appliances or consumption"
// @Failure 500 {object} map[string]string "Model query failed"
// @Failure 503 {object} map[string]string "Model artifacts not loaded"
// @Router /api/v1/recommendations [post]
func (h *RecommendationHandler) Create(c *gin.Context) {
	if !available(c, h.advisor, h.loadErr) {
		return
	}

	var req models.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.queryTimeout)
	defer cancel()

	rec, err := h.advisor.Recommend(ctx, req)
	if err != nil {
		c.JSON(recommendStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, rec)
}

// Recent godoc
// @Summary List recent recommendations
// @Tags Recommendations
// @Produce json
// @Param limit query int false "Maximum number of entries"
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]string "History is unavailable"
// @Router /api/v1/recommendations/recent [get]
func (h *RecommendationHandler) Recent(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "recommendation history is not enabled"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	limit := parseLimit(c, h.apiConfig.DefaultLimit, h.apiConfig.MaxLimit)
	summaries, err := h.store.Recent(ctx, limit)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, history.ErrCircuitOpen) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"error": "failed to fetch recommendations"})
		return
	}

	if summaries == nil {
		summaries = []*models.RecommendationSummary{}
	}
	c.JSON(http.StatusOK, gin.H{
		"recommendations": summaries,
		"count":           len(summaries),
	})
}

// Get godoc
// @Summary Get a stored recommendation summary
// @Tags Recommendations
// @Produce json
// @Param id path string true "Recommendation ID"
// @Success 200 {object} models.RecommendationSummary
// @Failure 404 {object} map[string]string "Not found"
// @Router /api/v1/recommendations/{id} [get]
func (h *RecommendationHandler) Get(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "recommendation history is not enabled"})
		return
	}

	id := c.Param("id")
	if !models.IsUUID(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "recommendation not found"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	summary, err := h.store.Get(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, history.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "recommendation not found"})
		case errors.Is(err, history.ErrCircuitOpen):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "recommendation history is unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recommendation"})
		}
		return
	}

	c.JSON(http.StatusOK, summary)
}
