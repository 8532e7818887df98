package knn

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyIndex        = errors.New("nearest-neighbor index has no samples")
	ErrDimensionMismatch = errors.New("vector width does not match index")
	ErrCorruptArtifact   = errors.New("corrupt model artifact")
)

const MetricEuclidean = "euclidean"

// Index is a brute-force nearest-neighbor index over the encoded training
// households. It is built once by the trainer and only read afterwards.
type Index struct {
	ID        string
	CreatedAt time.Time
	K         int

	samples [][]float64
	targets []float64
	rows    [][]string
}

type Neighbor struct {
	Index    int
	Distance float64
}

type indexFile struct {
	ID        string      `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	Metric    string      `json:"metric"`
	K         int         `json:"n_neighbors"`
	Samples   [][]float64 `json:"samples"`
	Targets   []float64   `json:"targets"`
	Rows      [][]string  `json:"rows"`
}

// Fit builds an index. targets and rows are optional but, when present, must
// line up with samples.
func Fit(samples [][]float64, targets []float64, rows [][]string, k int) (*Index, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyIndex
	}
	width := len(samples[0])
	for i, s := range samples {
		if len(s) != width {
			return nil, fmt.Errorf("%w: sample %d has width %d, want %d", ErrDimensionMismatch, i, len(s), width)
		}
	}
	if targets != nil && len(targets) != len(samples) {
		return nil, fmt.Errorf("got %d targets for %d samples", len(targets), len(samples))
	}
	if rows != nil && len(rows) != len(samples) {
		return nil, fmt.Errorf("got %d rows for %d samples", len(rows), len(samples))
	}
	if k <= 0 {
		k = len(samples)
	}

	return &Index{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		K:         k,
		samples:   samples,
		targets:   targets,
		rows:      rows,
	}, nil
}

func (idx *Index) Len() int {
	return len(idx.samples)
}

func (idx *Index) Width() int {
	return len(idx.samples[0])
}

// Row returns the appliance list stored for training sample i.
func (idx *Index) Row(i int) []string {
	if i < 0 || i >= len(idx.rows) {
		return nil
	}
	return idx.rows[i]
}

func (idx *Index) Target(i int) (float64, bool) {
	if i < 0 || i >= len(idx.targets) {
		return 0, false
	}
	return idx.targets[i], true
}

// KNeighbors returns the k closest samples, nearest first. Ties keep
// training order. k <= 0 uses the index default; k is clamped to Len().
func (idx *Index) KNeighbors(query []float64, k int) ([]Neighbor, error) {
	if len(query) != idx.Width() {
		return nil, fmt.Errorf("%w: query has width %d, index expects %d", ErrDimensionMismatch, len(query), idx.Width())
	}
	if k <= 0 {
		k = idx.K
	}
	if k > len(idx.samples) {
		k = len(idx.samples)
	}

	all := make([]Neighbor, len(idx.samples))
	for i, s := range idx.samples {
		all[i] = Neighbor{Index: i, Distance: euclidean(query, s)}
	}
	sort.SliceStable(all, func(a, b int) bool {
		return all[a].Distance < all[b].Distance
	})

	return all[:k], nil
}

// Predict averages the targets of the k nearest samples.
func (idx *Index) Predict(query []float64, k int) (float64, error) {
	if idx.targets == nil {
		return 0, errors.New("index was fitted without targets")
	}
	neighbors, err := idx.KNeighbors(query, k)
	if err != nil {
		return 0, err
	}

	var sum float64
	for _, n := range neighbors {
		sum += idx.targets[n.Index]
	}
	return sum / float64(len(neighbors)), nil
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func AverageDistance(neighbors []Neighbor) float64 {
	if len(neighbors) == 0 {
		return 0
	}
	var sum float64
	for _, n := range neighbors {
		sum += n.Distance
	}
	return sum / float64(len(neighbors))
}

// SavingsScore turns an average neighbor distance into a 0..100 figure.
// Closer households give higher scores; the mapping is not calibrated.
func SavingsScore(avgDistance float64) float64 {
	return math.Max(0, 100-avgDistance*100)
}

func (idx *Index) MarshalJSON() ([]byte, error) {
	return json.Marshal(indexFile{
		ID:        idx.ID,
		CreatedAt: idx.CreatedAt,
		Metric:    MetricEuclidean,
		K:         idx.K,
		Samples:   idx.samples,
		Targets:   idx.targets,
		Rows:      idx.rows,
	})
}

func (idx *Index) UnmarshalJSON(data []byte) error {
	var f indexFile
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if f.Metric != "" && f.Metric != MetricEuclidean {
		return fmt.Errorf("unsupported metric %q", f.Metric)
	}

	fitted, err := Fit(f.Samples, f.Targets, f.Rows, f.K)
	if err != nil {
		return err
	}
	fitted.ID = f.ID
	fitted.CreatedAt = f.CreatedAt
	*idx = *fitted
	return nil
}

func (idx *Index) Save(path string) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptArtifact, path, err)
	}
	return &idx, nil
}
