package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/energy-advisor/internal/advisor"
	"github.com/OldStager01/energy-advisor/internal/bills"
	"github.com/OldStager01/energy-advisor/internal/events"
	"github.com/OldStager01/energy-advisor/internal/logger"
	"github.com/OldStager01/energy-advisor/internal/metrics"
	"github.com/OldStager01/energy-advisor/pkg/models"
	"github.com/OldStager01/energy-advisor/pkg/validation"
)

const (
	pageTitle    = "Electricity Saving Assistant"
	pageTemplate = "index.html"

	unitsMin     = 0
	unitsMax     = 2000
	unitsStep    = 100
	unitsDefault = 200
	hoursDefault = 1
)

type applianceOption struct {
	Name     string
	Selected bool
	Hours    float64
}

type pageData struct {
	Title      string
	LoadError  string
	Units      float64
	UnitsMin   int
	UnitsMax   int
	UnitsStep  int
	Appliances []applianceOption

	Warning       string
	QueryError    string
	UploadWarning string

	Bills  *billChart
	Result *models.Recommendation
	Usage  []usageBar
}

// WebHandler serves the interactive form.
type WebHandler struct {
	advisor      Advisor
	loadErr      error
	publisher    *events.Publisher
	queryTimeout time.Duration
}

func NewWebHandler(svc Advisor, loadErr error, publisher *events.Publisher, queryTimeout time.Duration) *WebHandler {
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &WebHandler{
		advisor:      svc,
		loadErr:      loadErr,
		publisher:    publisher,
		queryTimeout: queryTimeout,
	}
}

func (h *WebHandler) newPage() *pageData {
	return &pageData{
		Title:     pageTitle,
		Units:     unitsDefault,
		UnitsMin:  unitsMin,
		UnitsMax:  unitsMax,
		UnitsStep: unitsStep,
	}
}

// degraded renders the single load error and nothing else.
func (h *WebHandler) degraded(c *gin.Context) bool {
	if h.advisor != nil && h.loadErr == nil {
		return false
	}
	page := h.newPage()
	page.LoadError = advisor.ErrUnavailable.Error()
	if h.loadErr != nil {
		page.LoadError = h.loadErr.Error()
	}
	c.HTML(http.StatusServiceUnavailable, pageTemplate, page)
	return true
}

func (h *WebHandler) Index(c *gin.Context) {
	if h.degraded(c) {
		return
	}
	page := h.newPage()
	page.Appliances = h.options(nil, nil)
	c.HTML(http.StatusOK, pageTemplate, page)
}

func (h *WebHandler) Submit(c *gin.Context) {
	if h.degraded(c) {
		return
	}

	page := h.newPage()
	status := http.StatusOK

	units, err := parseUnits(c.PostForm("units"))
	if err != nil {
		page.Warning = capitalize(err.Error())
		status = http.StatusBadRequest
	} else {
		page.Units = units
	}

	selected := c.PostFormArray("appliances")
	hours := parseHours(c.PostFormMap("hours"), selected)
	page.Appliances = h.options(selected, hours)

	h.attachBills(c, page)

	if page.Warning == "" {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.queryTimeout)
		defer cancel()

		rec, err := h.advisor.Recommend(ctx, models.RecommendationRequest{
			Appliances:   selected,
			MonthlyUnits: units,
			UsageHours:   hours,
		})
		switch {
		case err == nil:
			page.Result = rec
			page.Usage = usageBars(rec.Usage)
		case errors.Is(err, advisor.ErrInvalidRequest):
			page.Warning = warningText(err)
			status = http.StatusBadRequest
		default:
			page.QueryError = capitalize(err.Error())
			status = recommendStatus(err)
		}
	}

	c.HTML(status, pageTemplate, page)
}

// attachBills parses the optional upload. Problems become a warning and
// never block the recommendation.
func (h *WebHandler) attachBills(c *gin.Context, page *pageData) {
	header, err := c.FormFile("bills")
	if err != nil || header.Size == 0 {
		return
	}

	f, err := header.Open()
	if err != nil {
		page.UploadWarning = "Could not read the uploaded file"
		return
	}
	defer f.Close()

	series, err := bills.Parse(f)
	if err != nil {
		metrics.Get().IncBillUpload("rejected")
		if errors.Is(err, bills.ErrMissingColumns) {
			page.UploadWarning = err.Error()
		} else {
			page.UploadWarning = "Could not parse the uploaded file as CSV"
		}
		logger.WithContext(c.Request.Context()).Warnf("Bill upload ignored: %v", err)
		return
	}

	metrics.Get().IncBillUpload("accepted")
	publisherFor(c, h.publisher).BillsUploaded(len(series.Points), series.Skipped)
	page.Bills = newBillChart(series)
}

func (h *WebHandler) options(selected []string, hours map[string]float64) []applianceOption {
	picked := make(map[string]bool, len(selected))
	for _, s := range selected {
		picked[validation.SanitizeString(s)] = true
	}

	names := h.advisor.Appliances()
	out := make([]applianceOption, 0, len(names))
	for _, name := range names {
		opt := applianceOption{Name: name, Selected: picked[name], Hours: hoursDefault}
		if v, ok := hours[name]; ok {
			opt.Hours = v
		}
		out = append(out, opt)
	}
	return out
}

func parseUnits(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	units, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New("monthly consumption must be a number")
	}
	return units, nil
}

// parseHours keeps the hours of selected appliances only. Unparseable
// values fall back to the default.
// parseHours keys hours by appliance name cleaned the same way the advisor
// cleans it, so both sides agree on the lookup key.
func parseHours(raw map[string]string, selected []string) map[string]float64 {
	clean := make(map[string]string, len(raw))
	for k, v := range raw {
		clean[validation.SanitizeString(k)] = v
	}

	hours := make(map[string]float64, len(selected))
	for _, name := range selected {
		name = validation.SanitizeString(name)
		v, ok := clean[name]
		if !ok {
			continue
		}
		h, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			h = hoursDefault
		}
		hours[name] = h
	}
	return hours
}

func warningText(err error) string {
	if errors.Is(err, advisor.ErrMissingInput) {
		return capitalize(advisor.ErrMissingInput.Error()) + "."
	}
	return capitalize(strings.TrimPrefix(err.Error(), advisor.ErrInvalidRequest.Error()+": "))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
