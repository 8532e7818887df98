package config

import (
	"errors"
	"fmt"
)

func (c *Config) Validate() error {
	var errs []error

	// App validation
	if c.App.Name == "" {
		errs = append(errs, errors.New("app.name is required"))
	}

	validModes := map[string]bool{"development": true, "production": true, "test": true}
	if !validModes[c.App.Mode] {
		errs = append(errs, fmt.Errorf("app.mode must be one of: development, production, test"))
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.App.LogLevel] {
		errs = append(errs, fmt.Errorf("app.log_level must be one of: debug, info, warn, error"))
	}

	// Database validation, only when history goes to Postgres
	if c.Database.Enabled {
		if c.Database.Host == "" {
			errs = append(errs, errors.New("database.host is required"))
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, errors.New("database.port must be between 1 and 65535"))
		}
		if c.Database.Name == "" {
			errs = append(errs, errors.New("database.name is required"))
		}
		if c.Database.MaxConnections <= 0 {
			errs = append(errs, errors.New("database.max_connections must be positive"))
		}
	}

	// Artifact validation
	if c.Artifacts.ModelFile == "" {
		errs = append(errs, errors.New("artifacts.model_file is required"))
	}
	if c.Artifacts.EncoderFile == "" {
		errs = append(errs, errors.New("artifacts.encoder_file is required"))
	}
	if c.Artifacts.TipsFile == "" {
		errs = append(errs, errors.New("artifacts.tips_file is required"))
	}

	// Advisor validation
	if c.Advisor.Neighbors <= 0 {
		errs = append(errs, errors.New("advisor.neighbors must be positive"))
	}
	if c.Advisor.TariffPerUnit <= 0 {
		errs = append(errs, errors.New("advisor.tariff_per_unit must be positive"))
	}
	if c.Advisor.MinSavingPercent < 0 || c.Advisor.MaxSavingPercent > 100 {
		errs = append(errs, errors.New("advisor saving percents must be between 0 and 100"))
	}
	if c.Advisor.MaxSavingPercent < c.Advisor.MinSavingPercent {
		errs = append(errs, errors.New("advisor.max_saving_percent must be >= min_saving_percent"))
	}
	if c.Advisor.MaxUnits <= 0 {
		errs = append(errs, errors.New("advisor.max_units must be positive"))
	}

	// Cache validation
	if c.Cache.Enabled && c.Cache.SizeInBytes < 512*1024 {
		errs = append(errs, errors.New("cache.size_in_bytes must be at least 512KiB"))
	}

	// API validation
	if c.API.Port <= 0 || c.API.Port > 65535 {
		errs = append(errs, errors.New("api.port must be between 1 and 65535"))
	}
	if c.API.RateLimit <= 0 {
		errs = append(errs, errors.New("api.rate_limit must be positive"))
	}
	if c.API.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("api.max_upload_bytes must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
