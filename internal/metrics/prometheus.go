package metrics

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// CacheStatsFunc reports hit and miss counts of the neighbor cache.
type CacheStatsFunc func() (entries, hits, misses int64)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	recommendationsTotal int64
	recommendationErrors map[string]int64 // reason -> count
	applianceSelections  map[string]int64
	unknownAppliances    map[string]int64
	billUploads          map[string]int64 // outcome -> count

	// Gauges
	lastSavingsScore float64
	artifactsLoaded  int

	// Histograms (simplified - just track last values)
	queryLatency time.Duration

	cacheStats    CacheStatsFunc
	eventsDropped func() int64
}

var (
	instance *Metrics
	once     sync.Once
)

func Get() *Metrics {
	once.Do(func() {
		instance = New()
	})
	return instance
}

func New() *Metrics {
	return &Metrics{
		recommendationErrors: make(map[string]int64),
		applianceSelections:  make(map[string]int64),
		unknownAppliances:    make(map[string]int64),
		billUploads:          make(map[string]int64),
	}
}

func (m *Metrics) IncRecommendations(appliances, unknown []string, savingsScore float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recommendationsTotal++
	for _, a := range appliances {
		m.applianceSelections[a]++
	}
	for _, a := range unknown {
		m.unknownAppliances[a]++
	}
	m.lastSavingsScore = savingsScore
}

func (m *Metrics) IncRecommendationError(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recommendationErrors[reason]++
}

func (m *Metrics) IncBillUpload(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.billUploads[outcome]++
}

func (m *Metrics) SetArtifactsLoaded(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ok {
		m.artifactsLoaded = 1
	} else {
		m.artifactsLoaded = 0
	}
}

func (m *Metrics) SetQueryLatency(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryLatency = d
}

func (m *Metrics) SetCacheStats(fn CacheStatsFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheStats = fn
}

// SetEventsDropped registers the event bus drop counter.
func (m *Metrics) SetEventsDropped(fn func() int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsDropped = fn
}

func (m *Metrics) RecommendationsTotal() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.recommendationsTotal
}

func (m *Metrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.RLock()
		defer m.mu.RUnlock()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		writeMetric(w, "advisor_recommendations_total", nil, float64(m.recommendationsTotal))

		for _, reason := range sortedKeys(m.recommendationErrors) {
			writeMetric(w, "advisor_recommendation_errors_total", map[string]string{"reason": reason}, float64(m.recommendationErrors[reason]))
		}

		for _, appliance := range sortedKeys(m.applianceSelections) {
			writeMetric(w, "advisor_appliance_selections_total", map[string]string{"appliance": appliance}, float64(m.applianceSelections[appliance]))
		}

		for _, appliance := range sortedKeys(m.unknownAppliances) {
			writeMetric(w, "advisor_unknown_appliances_total", map[string]string{"appliance": appliance}, float64(m.unknownAppliances[appliance]))
		}

		for _, outcome := range sortedKeys(m.billUploads) {
			writeMetric(w, "advisor_bill_uploads_total", map[string]string{"outcome": outcome}, float64(m.billUploads[outcome]))
		}

		writeMetric(w, "advisor_last_savings_score", nil, m.lastSavingsScore)
		writeMetric(w, "advisor_artifacts_loaded", nil, float64(m.artifactsLoaded))
		writeMetric(w, "advisor_query_latency_us", nil, float64(m.queryLatency.Microseconds()))

		if m.cacheStats != nil {
			entries, hits, misses := m.cacheStats()
			writeMetric(w, "advisor_neighbor_cache_entries", nil, float64(entries))
			writeMetric(w, "advisor_neighbor_cache_hits_total", nil, float64(hits))
			writeMetric(w, "advisor_neighbor_cache_misses_total", nil, float64(misses))
		}

		if m.eventsDropped != nil {
			writeMetric(w, "advisor_events_dropped_total", nil, float64(m.eventsDropped()))
		}
	})
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeMetric(w http.ResponseWriter, name string, labels map[string]string, value float64) {
	labelStr := ""
	if len(labels) > 0 {
		keys := make([]string, 0, len(labels))
		for k := range labels {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+`="`+escapeLabel(labels[k])+`"`)
		}
		labelStr = "{" + strings.Join(parts, ",") + "}"
	}
	w.Write([]byte(name + labelStr + " " + strconv.FormatFloat(value, 'f', -1, 64) + "\n"))
}

func escapeLabel(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	return strings.ReplaceAll(v, "\n", `\n`)
}
