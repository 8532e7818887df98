package history

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/OldStager01/energy-advisor/internal/logger"
	"github.com/OldStager01/energy-advisor/pkg/models"
)

var ErrCircuitOpen = errors.New("history store circuit is open")

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

type BreakerConfig struct {
	MaxFailures   int
	Timeout       time.Duration
	OnStateChange func(from, to State)
}

// GuardedStore stops hitting a failing backend after MaxFailures
// consecutive errors and probes it again once Timeout has passed. A single
// successful probe closes the circuit.
type GuardedStore struct {
	backend     Store
	maxFailures int
	timeout     time.Duration
	onChange    func(from, to State)

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
	now      func() time.Time
}

func NewGuardedStore(backend Store, cfg BreakerConfig) *GuardedStore {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &GuardedStore{
		backend:     backend,
		maxFailures: cfg.MaxFailures,
		timeout:     cfg.Timeout,
		onChange:    cfg.OnStateChange,
		now:         time.Now,
	}
}

func (g *GuardedStore) Save(ctx context.Context, summary *models.RecommendationSummary) error {
	return g.call(func() error { return g.backend.Save(ctx, summary) })
}

func (g *GuardedStore) Recent(ctx context.Context, limit int) ([]*models.RecommendationSummary, error) {
	var out []*models.RecommendationSummary
	err := g.call(func() error {
		var err error
		out, err = g.backend.Recent(ctx, limit)
		return err
	})
	return out, err
}

func (g *GuardedStore) Get(ctx context.Context, id string) (*models.RecommendationSummary, error) {
	var out *models.RecommendationSummary
	err := g.call(func() error {
		var err error
		out, err = g.backend.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			// a miss is an answer, not a backend failure
			return nil
		}
		return err
	})
	if err == nil && out == nil {
		return nil, ErrNotFound
	}
	return out, err
}

func (g *GuardedStore) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *GuardedStore) call(fn func() error) error {
	if !g.allow() {
		return ErrCircuitOpen
	}
	err := fn()
	g.record(err)
	return err
}

func (g *GuardedStore) allow() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == StateOpen {
		if g.now().Sub(g.openedAt) < g.timeout {
			return false
		}
		g.transition(StateHalfOpen)
	}
	return true
}

func (g *GuardedStore) record(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err == nil {
		g.failures = 0
		if g.state != StateClosed {
			g.transition(StateClosed)
		}
		return
	}

	g.failures++
	if g.state == StateHalfOpen || g.failures >= g.maxFailures {
		g.openedAt = g.now()
		g.transition(StateOpen)
	}
}

func (g *GuardedStore) transition(to State) {
	from := g.state
	if from == to {
		return
	}
	g.state = to
	g.failures = 0
	logger.Warnf("History store circuit %s -> %s", from, to)
	if g.onChange != nil {
		go g.onChange(from, to)
	}
}
