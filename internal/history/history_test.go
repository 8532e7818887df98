package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/energy-advisor/pkg/models"
)

func summary(id string, at time.Time) *models.RecommendationSummary {
	return &models.RecommendationSummary{ID: id, CreatedAt: at, MonthlyUnits: 200}
}

func TestMemoryStore_RecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(10)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.Save(ctx, summary("a", base)))
	require.NoError(t, s.Save(ctx, summary("b", base.Add(time.Minute))))
	require.NoError(t, s.Save(ctx, summary("c", base.Add(2*time.Minute))))

	recent, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].ID)
	assert.Equal(t, "b", recent[1].ID)
}

func TestMemoryStore_Capacity(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(2)
	now := time.Now()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Save(ctx, summary(id, now)))
	}

	assert.Equal(t, 2, s.Len())
	_, err := s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := s.Get(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "c", got.ID)
}

type flakyStore struct {
	err   error
	calls int
}

func (f *flakyStore) Save(context.Context, *models.RecommendationSummary) error {
	f.calls++
	return f.err
}

func (f *flakyStore) Recent(context.Context, int) ([]*models.RecommendationSummary, error) {
	f.calls++
	return nil, f.err
}

func (f *flakyStore) Get(context.Context, string) (*models.RecommendationSummary, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return nil, ErrNotFound
}

func TestGuardedStore_OpensAfterFailures(t *testing.T) {
	ctx := context.Background()
	backend := &flakyStore{err: errors.New("connection refused")}
	g := NewGuardedStore(backend, BreakerConfig{MaxFailures: 3, Timeout: time.Minute})

	for i := 0; i < 3; i++ {
		assert.Error(t, g.Save(ctx, summary("x", time.Now())))
	}
	assert.Equal(t, StateOpen, g.State())

	err := g.Save(ctx, summary("y", time.Now()))
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 3, backend.calls, "open circuit must not reach the backend")
}

func TestGuardedStore_HalfOpenRecovery(t *testing.T) {
	ctx := context.Background()
	backend := &flakyStore{err: errors.New("timeout")}
	g := NewGuardedStore(backend, BreakerConfig{MaxFailures: 1, Timeout: time.Minute})
	clock := time.Now()
	g.now = func() time.Time { return clock }

	assert.Error(t, g.Save(ctx, summary("x", clock)))
	assert.Equal(t, StateOpen, g.State())

	clock = clock.Add(2 * time.Minute)
	backend.err = nil
	assert.NoError(t, g.Save(ctx, summary("x", clock)))
	assert.Equal(t, StateClosed, g.State())
}

func TestGuardedStore_HalfOpenFailureReopens(t *testing.T) {
	ctx := context.Background()
	backend := &flakyStore{err: errors.New("timeout")}
	g := NewGuardedStore(backend, BreakerConfig{MaxFailures: 2, Timeout: time.Minute})
	clock := time.Now()
	g.now = func() time.Time { return clock }

	g.Save(ctx, summary("x", clock))
	g.Save(ctx, summary("x", clock))
	require.Equal(t, StateOpen, g.State())

	clock = clock.Add(2 * time.Minute)
	assert.Error(t, g.Save(ctx, summary("x", clock)))
	assert.Equal(t, StateOpen, g.State())
}

func TestGuardedStore_NotFoundIsNotAFailure(t *testing.T) {
	ctx := context.Background()
	g := NewGuardedStore(&flakyStore{}, BreakerConfig{MaxFailures: 1})

	_, err := g.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, StateClosed, g.State())
}
