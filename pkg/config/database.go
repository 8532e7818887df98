package config

import (
	"path/filepath"

	"github.com/OldStager01/energy-advisor/pkg/database"
)

func (d DatabaseConfig) ToDBConfig() database.Config {
	return database.Config{
		Host:            d.Host,
		Port:            d.Port,
		Name:            d.Name,
		User:            d.User,
		Password:        d.Password,
		MaxConnections:  d.MaxConnections,
		SSLMode:         d.SSLMode,
		ConnMaxLifetime: d.ConnMaxLifetime,
		ConnMaxIdleTime: d.ConnMaxIdleTime,
		PingTimeout:     d.PingTimeout,
	}
}

func (a ArtifactsConfig) ModelPath() string {
	return a.resolve(a.ModelFile)
}

func (a ArtifactsConfig) EncoderPath() string {
	return a.resolve(a.EncoderFile)
}

func (a ArtifactsConfig) TipsPath() string {
	return a.resolve(a.TipsFile)
}

func (a ArtifactsConfig) resolve(name string) string {
	if filepath.IsAbs(name) || a.Dir == "" {
		return name
	}
	return filepath.Join(a.Dir, name)
}
