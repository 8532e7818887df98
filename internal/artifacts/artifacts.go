package artifacts

import (
	"errors"
	"fmt"

	"github.com/OldStager01/energy-advisor/internal/encoder"
	"github.com/OldStager01/energy-advisor/internal/knn"
	"github.com/OldStager01/energy-advisor/internal/tips"
	"github.com/OldStager01/energy-advisor/pkg/config"
)

// ErrArtifactLoad wraps every failure to bring up the serving artifacts.
// The caller shows it once and refuses to score until it is fixed.
var ErrArtifactLoad = errors.New("failed to load model artifacts")

// Bundle is everything the advisor needs at serving time.
type Bundle struct {
	Index   *knn.Index
	Encoder *encoder.Binarizer
	Tips    *tips.Table
}

func Load(cfg config.ArtifactsConfig) (*Bundle, error) {
	idx, err := knn.Load(cfg.ModelPath())
	if err != nil {
		return nil, fmt.Errorf("%w: model: %v", ErrArtifactLoad, err)
	}

	enc, err := encoder.Load(cfg.EncoderPath())
	if err != nil {
		return nil, fmt.Errorf("%w: encoder: %v", ErrArtifactLoad, err)
	}

	table, err := tips.Load(cfg.TipsPath())
	if err != nil {
		return nil, fmt.Errorf("%w: tips: %v", ErrArtifactLoad, err)
	}

	b := &Bundle{Index: idx, Encoder: enc, Tips: table}
	if err := b.check(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtifactLoad, err)
	}
	return b, nil
}

func (b *Bundle) check() error {
	if b.Encoder.Width() != b.Index.Width() {
		return fmt.Errorf("encoder has %d classes but model expects %d features",
			b.Encoder.Width(), b.Index.Width())
	}
	return nil
}

// Reconcile lists appliances offered by the tip table that the encoder has
// never seen. Selecting them contributes nothing to the neighbor query.
func (b *Bundle) Reconcile() []string {
	var missing []string
	for _, appliance := range b.Tips.Appliances() {
		if !b.Encoder.Knows(appliance) {
			missing = append(missing, appliance)
		}
	}
	return missing
}
