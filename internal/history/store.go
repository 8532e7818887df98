package history

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/OldStager01/energy-advisor/pkg/models"
)

var ErrNotFound = errors.New("recommendation not found")

// Store keeps summaries of past recommendations.
type Store interface {
	Save(ctx context.Context, summary *models.RecommendationSummary) error
	Recent(ctx context.Context, limit int) ([]*models.RecommendationSummary, error)
	Get(ctx context.Context, id string) (*models.RecommendationSummary, error)
}

// MemoryStore is a bounded ring of the most recent summaries, used when no
// database is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	items    []*models.RecommendationSummary
	capacity int
}

func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = 200
	}
	return &MemoryStore{capacity: capacity}
}

func (s *MemoryStore) Save(_ context.Context, summary *models.RecommendationSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(s.items, summary)
	if len(s.items) > s.capacity {
		s.items = s.items[len(s.items)-s.capacity:]
	}
	return nil
}

func (s *MemoryStore) Recent(_ context.Context, limit int) ([]*models.RecommendationSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.RecommendationSummary, len(s.items))
	copy(out, s.items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.RecommendationSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i].ID == id {
			return s.items[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
