package training

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/OldStager01/energy-advisor/internal/encoder"
	"github.com/OldStager01/energy-advisor/internal/knn"
	"github.com/OldStager01/energy-advisor/internal/logger"
	"github.com/OldStager01/energy-advisor/internal/tips"
	"github.com/OldStager01/energy-advisor/pkg/models"
)

var ErrInvalidDataset = errors.New("invalid training dataset")

type Dataset struct {
	Examples []models.TrainingExample `yaml:"examples"`
}

func DefaultDataset() *Dataset {
	return &Dataset{Examples: models.DefaultTrainingSet()}
}

// LoadDataset reads a YAML file of the form
//
//	examples:
//	  - appliances: [Air Conditioner, Refrigerator]
//	    consumption_kwh: 500
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (d *Dataset) Validate() error {
	if len(d.Examples) == 0 {
		return fmt.Errorf("%w: no examples", ErrInvalidDataset)
	}
	for i, ex := range d.Examples {
		if len(ex.Appliances) == 0 {
			return fmt.Errorf("%w: example %d has no appliances", ErrInvalidDataset, i)
		}
		for _, a := range ex.Appliances {
			if strings.TrimSpace(a) == "" {
				return fmt.Errorf("%w: example %d has a blank appliance", ErrInvalidDataset, i)
			}
		}
		if ex.ConsumptionKWh < 0 {
			return fmt.Errorf("%w: example %d has negative consumption", ErrInvalidDataset, i)
		}
	}
	return nil
}

type Result struct {
	Index   *knn.Index
	Encoder *encoder.Binarizer
}

// Train fits the appliance encoder and a k-nearest-neighbor index over the
// encoded examples.
func Train(ds *Dataset, k int) (*Result, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	sets := make([][]string, len(ds.Examples))
	targets := make([]float64, len(ds.Examples))
	for i, ex := range ds.Examples {
		sets[i] = normalize(ex.Appliances)
		targets[i] = ex.ConsumptionKWh
	}

	enc := encoder.Fit(sets)
	samples := make([][]float64, len(sets))
	for i, set := range sets {
		samples[i] = enc.Transform(set)
	}

	idx, err := knn.Fit(samples, targets, sets, k)
	if err != nil {
		return nil, fmt.Errorf("failed to fit index: %w", err)
	}

	return &Result{Index: idx, Encoder: enc}, nil
}

func normalize(appliances []string) []string {
	out := make([]string, 0, len(appliances))
	for _, a := range appliances {
		out = append(out, strings.TrimSpace(a))
	}
	return out
}

// Save writes the model and encoder into dir. A default tip table is
// written next to them unless one already exists.
func (r *Result) Save(dir, modelFile, encoderFile, tipsFile string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	if err := r.Index.Save(filepath.Join(dir, modelFile)); err != nil {
		return err
	}
	if err := r.Encoder.Save(filepath.Join(dir, encoderFile)); err != nil {
		return err
	}

	tipsPath := filepath.Join(dir, tipsFile)
	if _, err := os.Stat(tipsPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(tipsPath, tips.DefaultJSON(), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", tipsPath, err)
		}
		logger.Infof("Wrote default tip table to %s", tipsPath)
	}

	logger.WithModel(r.Index.ID).Infof("Saved model with %d samples and %d features to %s",
		r.Index.Len(), r.Index.Width(), dir)
	return nil
}
