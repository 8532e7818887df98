package artifacts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/energy-advisor/internal/encoder"
	"github.com/OldStager01/energy-advisor/internal/training"
	"github.com/OldStager01/energy-advisor/pkg/config"
)

func writeArtifacts(t *testing.T) config.ArtifactsConfig {
	t.Helper()
	cfg := config.ArtifactsConfig{
		Dir:         t.TempDir(),
		ModelFile:   "model.json",
		EncoderFile: "appliance_encoder.json",
		TipsFile:    "tips.json",
	}
	res, err := training.Train(training.DefaultDataset(), 3)
	require.NoError(t, err)
	require.NoError(t, res.Save(cfg.Dir, cfg.ModelFile, cfg.EncoderFile, cfg.TipsFile))
	return cfg
}

func TestLoad_OK(t *testing.T) {
	cfg := writeArtifacts(t)

	b, err := Load(cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, b.Index.Len())
	assert.Equal(t, 3, b.Encoder.Width())
	assert.True(t, b.Tips.Has("Air Conditioner"))
}

func TestLoad_Failures(t *testing.T) {
	tests := []struct {
		name   string
		breaks func(t *testing.T, cfg config.ArtifactsConfig)
		errMsg string
	}{
		{
			name: "missing model",
			breaks: func(t *testing.T, cfg config.ArtifactsConfig) {
				require.NoError(t, os.Remove(cfg.ModelPath()))
			},
			errMsg: "model",
		},
		{
			name: "corrupt encoder",
			breaks: func(t *testing.T, cfg config.ArtifactsConfig) {
				require.NoError(t, os.WriteFile(cfg.EncoderPath(), []byte("garbage"), 0o644))
			},
			errMsg: "encoder",
		},
		{
			name: "corrupt tips",
			breaks: func(t *testing.T, cfg config.ArtifactsConfig) {
				require.NoError(t, os.WriteFile(cfg.TipsPath(), []byte(`{"Fan": 1}`), 0o644))
			},
			errMsg: "tips",
		},
		{
			name: "encoder width differs from model",
			breaks: func(t *testing.T, cfg config.ArtifactsConfig) {
				wide := encoder.Fit([][]string{{"A", "B", "C", "D"}})
				require.NoError(t, wide.Save(cfg.EncoderPath()))
			},
			errMsg: "features",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := writeArtifacts(t)
			tt.breaks(t, cfg)

			b, err := Load(cfg)
			assert.Nil(t, b)
			require.ErrorIs(t, err, ErrArtifactLoad)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestBundle_Reconcile(t *testing.T) {
	cfg := writeArtifacts(t)
	b, err := Load(cfg)
	require.NoError(t, err)

	missing := b.Reconcile()
	assert.NotContains(t, missing, "Refrigerator")
	assert.Contains(t, missing, "Television")

	require.NoError(t, os.WriteFile(filepath.Join(cfg.Dir, cfg.TipsFile),
		[]byte(`{"Refrigerator": "a", "Air Conditioner": "b"}`), 0o644))
	b, err = Load(cfg)
	require.NoError(t, err)
	assert.Empty(t, b.Reconcile())
}
