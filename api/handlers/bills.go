package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/energy-advisor/internal/bills"
	"github.com/OldStager01/energy-advisor/internal/events"
	"github.com/OldStager01/energy-advisor/internal/logger"
	"github.com/OldStager01/energy-advisor/internal/metrics"
)

const billsFormField = "file"

type BillsHandler struct {
	publisher *events.Publisher
}

func NewBillsHandler(publisher *events.Publisher) *BillsHandler {
	return &BillsHandler{publisher: publisher}
}

type BillsResponse struct {
	*bills.Series
	Average float64 `json:"average_units"`
	Max     float64 `json:"max_units"`
}

// Upload godoc
// @Summary Upload past monthly bills
// @Description CSV with 'Month' and 'Units' columns. Rows with non-numeric units are skipped.
// @Tags Bills
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Bill history CSV"
// @Success 200 {object} BillsResponse
// @Failure 400 {object} map[string]string "No file"
// @Failure 422 {object} map[string]string "Missing columns or malformed CSV"
// @Router /api/v1/bills/upload [post]
func (h *BillsHandler) Upload(c *gin.Context) {
	header, err := c.FormFile(billsFormField)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing bill file in form field '" + billsFormField + "'"})
		return
	}

	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}
	defer f.Close()

	series, err := bills.Parse(f)
	if err != nil {
		metrics.Get().IncBillUpload("rejected")
		logger.WithContext(c.Request.Context()).Warnf("Bill upload rejected: %v", err)
		msg := err.Error()
		if !errors.Is(err, bills.ErrMissingColumns) && !errors.Is(err, bills.ErrMalformed) {
			msg = "failed to parse bill file"
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": msg})
		return
	}

	metrics.Get().IncBillUpload("accepted")
	publisherFor(c, h.publisher).BillsUploaded(len(series.Points), series.Skipped)

	c.JSON(http.StatusOK, BillsResponse{
		Series:  series,
		Average: series.Average(),
		Max:     series.Max(),
	})
}

func publisherFor(c *gin.Context, p *events.Publisher) *events.Publisher {
	if p == nil {
		return nil
	}
	if traceID := logger.TraceIDFromContext(c.Request.Context()); traceID != "" {
		return p.WithTraceID(traceID)
	}
	return p
}
