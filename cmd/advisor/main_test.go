package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/energy-advisor/internal/artifacts"
	"github.com/OldStager01/energy-advisor/internal/training"
	"github.com/OldStager01/energy-advisor/pkg/config"
)

func artifactsConfig(dir string) config.ArtifactsConfig {
	return config.ArtifactsConfig{
		Dir:         dir,
		ModelFile:   "model.json",
		EncoderFile: "appliance_encoder.json",
		TipsFile:    "tips.json",
	}
}

func TestTrainCommand_DefaultDataset(t *testing.T) {
	dir := t.TempDir()

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"train", "--out", dir})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "3 households, 3 appliances")

	bundle, err := artifacts.Load(artifactsConfig(dir))
	require.NoError(t, err)
	assert.Equal(t, 3, bundle.Index.K)
	assert.Equal(t, []string{"Air Conditioner", "Refrigerator", "Washing Machine"}, bundle.Encoder.Classes())
	assert.True(t, bundle.Tips.Has("Refrigerator"))
}

func TestTrainCommand_YAMLDataset(t *testing.T) {
	dir := t.TempDir()
	dataset := filepath.Join(t.TempDir(), "dataset.yaml")
	require.NoError(t, os.WriteFile(dataset, []byte(`examples:
  - appliances: [Geyser, Refrigerator]
    consumption_kwh: 300
  - appliances: [Geyser, Television]
    consumption_kwh: 250
`), 0o644))

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"train", "--out", dir, "--dataset", dataset, "--neighbors", "2"})
	require.NoError(t, cmd.Execute())

	bundle, err := artifacts.Load(artifactsConfig(dir))
	require.NoError(t, err)
	assert.Equal(t, 2, bundle.Index.K)
	assert.Equal(t, 2, bundle.Index.Len())
	assert.Equal(t, []string{"Geyser", "Refrigerator", "Television"}, bundle.Encoder.Classes())
}

func TestTrainCommand_KeepsExistingTips(t *testing.T) {
	dir := t.TempDir()
	custom := []byte(`{"Refrigerator": "Defrost regularly."}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tips.json"), custom, 0o644))

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"train", "--out", dir})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(filepath.Join(dir, "tips.json"))
	require.NoError(t, err)
	assert.Equal(t, custom, data)
}

func TestTrainCommand_BadDataset(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"train", "--out", t.TempDir(), "--dataset", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, cmd.Execute())
}

func TestRunTrain_InvalidDataset(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	_, _, err = runTrain(cfg, trainOptions{out: t.TempDir(), dataset: writeFile(t, "examples: []\n")})
	assert.ErrorIs(t, err, training.ErrInvalidDataset)
}

func TestNewHistoryStore_MemoryWithoutDatabase(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	store := newHistoryStore(cfg, nil)
	require.NotNil(t, store)
	assert.Equal(t, "closed", store.State().String())
}

func TestNewAdvisor_MissingArtifacts(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Artifacts.Dir = t.TempDir()

	svc, err := newAdvisor(cfg, nil, nil)
	assert.Nil(t, svc)
	assert.ErrorIs(t, err, artifacts.ErrArtifactLoad)
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
