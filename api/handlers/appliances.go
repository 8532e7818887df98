package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/energy-advisor/internal/tips"
)

type ApplianceHandler struct {
	advisor Advisor
	loadErr error
}

func NewApplianceHandler(svc Advisor, loadErr error) *ApplianceHandler {
	return &ApplianceHandler{advisor: svc, loadErr: loadErr}
}

// List godoc
// @Summary List appliances
// @Description Appliances offered by the tip table, sorted by name
// @Tags Appliances
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]string "Model artifacts not loaded"
// @Router /api/v1/appliances [get]
func (h *ApplianceHandler) List(c *gin.Context) {
	if !available(c, h.advisor, h.loadErr) {
		return
	}

	appliances := h.advisor.Appliances()
	c.JSON(http.StatusOK, gin.H{
		"appliances": appliances,
		"count":      len(appliances),
	})
}

// Tips godoc
// @Summary Tips for one appliance
// @Tags Appliances
// @Produce json
// @Param appliance path string true "Appliance name"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Unknown appliance"
// @Router /api/v1/tips/{appliance} [get]
func (h *ApplianceHandler) Tips(c *gin.Context) {
	if !available(c, h.advisor, h.loadErr) {
		return
	}

	appliance := c.Param("appliance")
	texts, err := h.advisor.Tips(appliance)
	if err != nil {
		if errors.Is(err, tips.ErrUnknownAppliance) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to look up tips"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"appliance": appliance,
		"tips":      texts,
	})
}
