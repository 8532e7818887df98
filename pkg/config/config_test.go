package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:     "test-app",
			Mode:     "development",
			LogLevel: "info",
		},
		Artifacts: ArtifactsConfig{
			Dir:         "artifacts",
			ModelFile:   "model.json",
			EncoderFile: "appliance_encoder.json",
			TipsFile:    "tips.json",
		},
		Advisor: AdvisorConfig{
			Neighbors:        3,
			TariffPerUnit:    8,
			MinSavingPercent: 10,
			MaxSavingPercent: 30,
			MaxUnits:         2000,
		},
		Cache: CacheConfig{Enabled: true, SizeInBytes: 1024 * 1024},
		API: APIConfig{
			Port:           8080,
			RateLimit:      100,
			MaxUploadBytes: 1 << 20,
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		modifyFunc  func(*Config)
		expectErr   bool
		errContains string
	}{
		{
			name:       "valid config",
			modifyFunc: func(c *Config) {},
			expectErr:  false,
		},
		{
			name: "database checked only when enabled",
			modifyFunc: func(c *Config) {
				c.Database.Host = ""
			},
			expectErr: false,
		},
		{
			name: "enabled database needs a host",
			modifyFunc: func(c *Config) {
				c.Database = DatabaseConfig{Enabled: true, Port: 5432, Name: "advisor", MaxConnections: 5}
			},
			expectErr:   true,
			errContains: "database.host is required",
		},
		{
			name: "inverted saving range",
			modifyFunc: func(c *Config) {
				c.Advisor.MinSavingPercent = 40
				c.Advisor.MaxSavingPercent = 20
			},
			expectErr:   true,
			errContains: "max_saving_percent must be >= min_saving_percent",
		},
		{
			name: "zero neighbors",
			modifyFunc: func(c *Config) {
				c.Advisor.Neighbors = 0
			},
			expectErr:   true,
			errContains: "advisor.neighbors must be positive",
		},
		{
			name: "tiny cache",
			modifyFunc: func(c *Config) {
				c.Cache.SizeInBytes = 1024
			},
			expectErr:   true,
			errContains: "cache.size_in_bytes",
		},
		{
			name: "bad log level",
			modifyFunc: func(c *Config) {
				c.App.LogLevel = "verbose"
			},
			expectErr:   true,
			errContains: "app.log_level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modifyFunc(cfg)

			err := cfg.Validate()

			if tt.expectErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	dbCfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		Name:     "advisor",
		User:     "admin",
		Password: "secret",
	}

	expected := "host=localhost port=5432 user=admin password=secret dbname=advisor sslmode=disable"
	assert.Equal(t, expected, dbCfg.DSN())
}

func TestArtifactsConfig_Paths(t *testing.T) {
	a := ArtifactsConfig{Dir: "data", ModelFile: "model.json", EncoderFile: "/abs/enc.json", TipsFile: "tips.json"}

	assert.Equal(t, filepath.Join("data", "model.json"), a.ModelPath())
	assert.Equal(t, "/abs/enc.json", a.EncoderPath())
	assert.Equal(t, filepath.Join("data", "tips.json"), a.TipsPath())
}

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("ADVISOR_API_PORT", "9191")
	t.Setenv("ADVISOR_ADVISOR_TARIFF_PER_UNIT", "6.5")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "energy-advisor", cfg.App.Name)
	assert.Equal(t, 9191, cfg.API.Port)
	assert.Equal(t, 6.5, cfg.Advisor.TariffPerUnit)
	assert.Equal(t, 3, cfg.Advisor.Neighbors)
	assert.Equal(t, 2*time.Second, cfg.Advisor.QueryTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
app:
  mode: production
  log_level: warn
advisor:
  tariff_per_unit: 7.25
  max_saving_percent: 25
artifacts:
  dir: /srv/advisor
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Mode)
	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Equal(t, 7.25, cfg.Advisor.TariffPerUnit)
	assert.Equal(t, 25, cfg.Advisor.MaxSavingPercent)
	assert.Equal(t, filepath.Join("/srv/advisor", "model.json"), cfg.Artifacts.ModelPath())
}
