package knn

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Columns: Air Conditioner, Refrigerator, Washing Machine.
func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Fit(
		[][]float64{{1, 1, 0}, {0, 1, 1}, {1, 0, 1}},
		[]float64{500, 350, 450},
		[][]string{
			{"Air Conditioner", "Refrigerator"},
			{"Washing Machine", "Refrigerator"},
			{"Air Conditioner", "Washing Machine"},
		},
		3,
	)
	require.NoError(t, err)
	return idx
}

func TestFit_Errors(t *testing.T) {
	tests := []struct {
		name    string
		samples [][]float64
		targets []float64
		errIs   error
	}{
		{name: "no samples", samples: nil, errIs: ErrEmptyIndex},
		{name: "ragged samples", samples: [][]float64{{1, 0}, {1}}, errIs: ErrDimensionMismatch},
		{name: "target count mismatch", samples: [][]float64{{1}, {0}}, targets: []float64{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Fit(tt.samples, tt.targets, nil, 3)
			require.Error(t, err)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
			}
		})
	}
}

func TestIndex_KNeighbors(t *testing.T) {
	idx := newTestIndex(t)

	neighbors, err := idx.KNeighbors([]float64{1, 1, 0}, 0)
	require.NoError(t, err)
	require.Len(t, neighbors, 3)

	assert.Equal(t, 0, neighbors[0].Index)
	assert.Equal(t, 0.0, neighbors[0].Distance)
	assert.InDelta(t, math.Sqrt2, neighbors[1].Distance, 1e-9)
	assert.InDelta(t, math.Sqrt2, neighbors[2].Distance, 1e-9)
	assert.Equal(t, 1, neighbors[1].Index, "ties keep training order")
	assert.Equal(t, 2, neighbors[2].Index)
}

func TestIndex_KNeighbors_ZeroVector(t *testing.T) {
	idx := newTestIndex(t)

	neighbors, err := idx.KNeighbors([]float64{0, 0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, neighbors, 3)

	for i, n := range neighbors {
		assert.Equal(t, i, n.Index)
		assert.InDelta(t, math.Sqrt2, n.Distance, 1e-9)
	}
}

func TestIndex_KNeighbors_ClampsK(t *testing.T) {
	idx := newTestIndex(t)

	neighbors, err := idx.KNeighbors([]float64{0, 1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, neighbors, 3)

	neighbors, err = idx.KNeighbors([]float64{0, 1, 0}, 1)
	require.NoError(t, err)
	assert.Len(t, neighbors, 1)
}

func TestIndex_KNeighbors_DimensionMismatch(t *testing.T) {
	idx := newTestIndex(t)

	_, err := idx.KNeighbors([]float64{1, 0}, 3)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestIndex_Predict(t *testing.T) {
	idx := newTestIndex(t)

	nearest, err := idx.Predict([]float64{1, 1, 0}, 1)
	require.NoError(t, err)
	assert.Equal(t, 500.0, nearest)

	all, err := idx.Predict([]float64{1, 1, 0}, 3)
	require.NoError(t, err)
	assert.InDelta(t, 1300.0/3, all, 1e-9)
}

func TestSavingsScore_Monotonic(t *testing.T) {
	prev := SavingsScore(0)
	assert.Equal(t, 100.0, prev)

	for d := 0.05; d <= 3; d += 0.05 {
		score := SavingsScore(d)
		assert.LessOrEqual(t, score, prev, "distance %.2f", d)
		assert.GreaterOrEqual(t, score, 0.0)
		prev = score
	}
	assert.Equal(t, 0.0, SavingsScore(math.Sqrt2))
}

func TestAverageDistance(t *testing.T) {
	assert.Equal(t, 0.0, AverageDistance(nil))
	assert.InDelta(t, 1.0, AverageDistance([]Neighbor{{Distance: 0.5}, {Distance: 1.5}}), 1e-9)
}

func TestIndex_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	idx := newTestIndex(t)
	require.NoError(t, idx.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, idx.ID, loaded.ID)
	assert.Equal(t, 3, loaded.Len())
	assert.Equal(t, []string{"Washing Machine", "Refrigerator"}, loaded.Row(1))
	target, ok := loaded.Target(2)
	assert.True(t, ok)
	assert.Equal(t, 450.0, target)
}

func TestLoad_Corrupt(t *testing.T) {
	dir := t.TempDir()

	garbage := filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte("\x80\x04pickle"), 0o644))
	_, err := Load(garbage)
	assert.ErrorIs(t, err, ErrCorruptArtifact)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"samples":[]}`), 0o644))
	_, err = Load(empty)
	assert.ErrorIs(t, err, ErrCorruptArtifact)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
