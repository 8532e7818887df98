package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/OldStager01/energy-advisor/internal/artifacts"
	"github.com/OldStager01/energy-advisor/internal/events"
	"github.com/OldStager01/energy-advisor/internal/knn"
	"github.com/OldStager01/energy-advisor/internal/logger"
	"github.com/OldStager01/energy-advisor/internal/metrics"
	"github.com/OldStager01/energy-advisor/pkg/config"
	"github.com/OldStager01/energy-advisor/pkg/models"
	"github.com/OldStager01/energy-advisor/pkg/validation"
)

var (
	ErrInvalidRequest = errors.New("invalid recommendation request")
	ErrMissingInput   = errors.New("please provide both electricity usage and appliances")
	ErrQuery          = errors.New("error in model prediction")
	ErrUnavailable    = errors.New("advisor is unavailable")
)

const (
	defaultTariffPerUnit    = 8.0
	defaultMinSavingPercent = 10
	defaultMaxSavingPercent = 30
	defaultMaxSuggestions   = 3
)

// NeighborCache stores encoded neighbor query results keyed by query vector.
type NeighborCache interface {
	Get(key []byte) ([]byte, bool)
	Set(key, value []byte) error
}

type Service struct {
	bundle    *artifacts.Bundle
	cfg       config.AdvisorConfig
	cache     NeighborCache
	publisher *events.Publisher
	metrics   *metrics.Metrics
	now       func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand
}

type Option func(*Service)

func WithCache(c NeighborCache) Option {
	return func(s *Service) { s.cache = c }
}

func WithPublisher(p *events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithRand fixes the source used for the bill simulation.
func WithRand(r *rand.Rand) Option {
	return func(s *Service) { s.rng = r }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(bundle *artifacts.Bundle, cfg config.AdvisorConfig, opts ...Option) (*Service, error) {
	if bundle == nil || bundle.Index == nil || bundle.Encoder == nil || bundle.Tips == nil {
		return nil, fmt.Errorf("%w: artifacts are not loaded", ErrUnavailable)
	}

	if cfg.Neighbors <= 0 {
		cfg.Neighbors = bundle.Index.K
	}
	if cfg.TariffPerUnit <= 0 {
		cfg.TariffPerUnit = defaultTariffPerUnit
	}
	if cfg.MinSavingPercent <= 0 && cfg.MaxSavingPercent <= 0 {
		cfg.MinSavingPercent = defaultMinSavingPercent
		cfg.MaxSavingPercent = defaultMaxSavingPercent
	}
	if cfg.MaxSavingPercent < cfg.MinSavingPercent {
		cfg.MaxSavingPercent = cfg.MinSavingPercent
	}
	if cfg.MaxSuggestions <= 0 {
		cfg.MaxSuggestions = defaultMaxSuggestions
	}

	s := &Service{
		bundle:  bundle,
		cfg:     cfg,
		metrics: metrics.Get(),
		now:     time.Now,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) Bundle() *artifacts.Bundle {
	return s.bundle
}

func (s *Service) Config() config.AdvisorConfig {
	return s.cfg
}

// Appliances lists every appliance the form offers, sorted.
func (s *Service) Appliances() []string {
	return s.bundle.Tips.Appliances()
}

func (s *Service) Tips(appliance string) ([]string, error) {
	return s.bundle.Tips.Lookup(appliance)
}

// Recommend scores the selection against the reference households and
// assembles tips, suggestions, the simulated bill and the usage split.
func (s *Service) Recommend(ctx context.Context, req models.RecommendationRequest) (*models.Recommendation, error) {
	publisher := s.publisherFor(ctx)
	appliances := validation.NormalizeAppliances(req.Appliances)

	if err := s.validate(appliances, req); err != nil {
		s.metrics.IncRecommendationError("invalid_request")
		publisher.RecommendationFailed("invalid_request", err)
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		s.metrics.IncRecommendationError("canceled")
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}

	vector := s.bundle.Encoder.Transform(appliances)
	unknown := s.bundle.Encoder.Unknown(appliances)
	if len(unknown) > 0 {
		logger.WithContext(ctx).WithField("unknown", unknown).
			Debug("Selection contains appliances outside the encoder universe")
	}

	start := time.Now()
	found, err := s.neighbors(vector)
	s.metrics.SetQueryLatency(time.Since(start))
	if err != nil {
		s.metrics.IncRecommendationError("query")
		publisher.RecommendationFailed("query", err)
		logger.ErrorCtxf(ctx, "Neighbor query failed: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}

	avg := knn.AverageDistance(found)
	neighbors := s.describe(found)

	rec := &models.Recommendation{
		ID:                 models.NewUUID(),
		CreatedAt:          s.now().UTC(),
		ModelID:            s.bundle.Index.ID,
		Appliances:         appliances,
		UnknownAppliances:  unknown,
		MonthlyUnits:       req.MonthlyUnits,
		Neighbors:          neighbors,
		AverageDistance:    avg,
		SavingsScore:       knn.SavingsScore(avg),
		TypicalConsumption: typicalConsumption(neighbors),
		Tips:               s.collectTips(appliances, neighbors),
		Suggestions:        s.suggestions(req.MonthlyUnits),
		Bill:               s.simulateBill(req.MonthlyUnits, len(appliances)),
		Usage:              usageDistribution(appliances, req.UsageHours, req.MonthlyUnits),
	}

	s.metrics.IncRecommendations(appliances, unknown, rec.SavingsScore)
	publisher.RecommendationCreated(rec)

	logger.WithContext(ctx).WithFields(map[string]interface{}{
		"recommendation_id": rec.ID,
		"appliances":        len(appliances),
		"savings_score":     rec.SavingsScore,
	}).Info("Recommendation created")

	return rec, nil
}

func (s *Service) validate(appliances []string, req models.RecommendationRequest) error {
	if len(appliances) == 0 || req.MonthlyUnits == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, ErrMissingInput)
	}
	if err := validation.ValidateUnits(req.MonthlyUnits, s.cfg.MaxUnits); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	for _, appliance := range appliances {
		if err := validation.ValidateApplianceName(appliance); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}
	for appliance, hours := range req.UsageHours {
		if err := validation.ValidateHours(appliance, hours); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}
	return nil
}

func (s *Service) publisherFor(ctx context.Context) *events.Publisher {
	if s.publisher == nil {
		return nil
	}
	if traceID := logger.TraceIDFromContext(ctx); traceID != "" {
		return s.publisher.WithTraceID(traceID)
	}
	return s.publisher
}

func (s *Service) neighbors(vector []float64) ([]knn.Neighbor, error) {
	var key []byte
	if s.cache != nil {
		key = s.cacheKey(vector)
		if data, ok := s.cache.Get(key); ok {
			var cached []knn.Neighbor
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
		}
	}

	found, err := s.bundle.Index.KNeighbors(vector, s.cfg.Neighbors)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(found); err == nil {
			if err := s.cache.Set(key, data); err != nil {
				logger.Debugf("Neighbor cache set failed: %v", err)
			}
		}
	}
	return found, nil
}

// cacheKey is stable for a model and a query vector.
func (s *Service) cacheKey(vector []float64) []byte {
	var b strings.Builder
	b.WriteString(s.bundle.Index.ID)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(s.cfg.Neighbors))
	b.WriteByte(':')
	for _, v := range vector {
		if v != 0 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return []byte(b.String())
}

func (s *Service) describe(found []knn.Neighbor) []models.Neighbor {
	out := make([]models.Neighbor, 0, len(found))
	for _, n := range found {
		target, _ := s.bundle.Index.Target(n.Index)
		out = append(out, models.Neighbor{
			Index:          n.Index,
			Distance:       n.Distance,
			Appliances:     s.bundle.Index.Row(n.Index),
			ConsumptionKWh: target,
		})
	}
	return out
}

func typicalConsumption(neighbors []models.Neighbor) float64 {
	if len(neighbors) == 0 {
		return 0
	}
	var sum float64
	for _, n := range neighbors {
		sum += n.ConsumptionKWh
	}
	return sum / float64(len(neighbors))
}

// collectTips returns the tips of the selected appliances followed by
// those of appliances found in the matched households. Each appliance
// contributes once.
func (s *Service) collectTips(selected []string, neighbors []models.Neighbor) []models.Tip {
	var out []models.Tip
	shown := make(map[string]bool)

	add := func(appliance, source string) {
		if shown[appliance] {
			return
		}
		shown[appliance] = true
		texts, err := s.bundle.Tips.Lookup(appliance)
		if err != nil {
			return
		}
		for _, text := range texts {
			out = append(out, models.Tip{Appliance: appliance, Text: text, Source: source})
		}
	}

	for _, appliance := range selected {
		add(appliance, models.TipSourceSelected)
	}
	for _, n := range neighbors {
		for _, appliance := range n.Appliances {
			add(appliance, models.TipSourceNeighbor)
		}
	}
	return out
}
