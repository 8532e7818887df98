package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/energy-advisor")
	}

	v.SetEnvPrefix("ADVISOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "energy-advisor")
	v.SetDefault("app.mode", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.shutdown_timeout", "30s")

	// Database defaults
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "advisor")
	v.SetDefault("database.user", "admin")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.migration_timeout", "60s")

	// Artifact defaults
	v.SetDefault("artifacts.dir", "artifacts")
	v.SetDefault("artifacts.model_file", "model.json")
	v.SetDefault("artifacts.encoder_file", "appliance_encoder.json")
	v.SetDefault("artifacts.tips_file", "tips.json")

	// Advisor defaults
	v.SetDefault("advisor.neighbors", 3)
	v.SetDefault("advisor.tariff_per_unit", 8.0)
	v.SetDefault("advisor.min_saving_percent", 10)
	v.SetDefault("advisor.max_saving_percent", 30)
	v.SetDefault("advisor.max_suggestions", 3)
	v.SetDefault("advisor.max_units", 2000.0)
	v.SetDefault("advisor.query_timeout", "2s")

	// Cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.size_in_bytes", 1024*1024)
	v.SetDefault("cache.ttl_seconds", 600)

	// History defaults
	v.SetDefault("history.max_failures", 5)
	v.SetDefault("history.breaker_timeout", "30s")
	v.SetDefault("history.write_timeout", "3s")
	v.SetDefault("history.memory_capacity", 200)

	// API defaults
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.read_timeout", "15s")
	v.SetDefault("api.write_timeout", "15s")
	v.SetDefault("api.idle_timeout", "60s")
	v.SetDefault("api.rate_limit", 100)
	v.SetDefault("api.rate_burst", 20)
	v.SetDefault("api.max_upload_bytes", 1<<20)
	v.SetDefault("api.default_limit", 20)
	v.SetDefault("api.max_limit", 200)
	v.SetDefault("api.cors.allowed_origins", []string{"*"})
	v.SetDefault("api.cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("api.cors.allowed_headers", []string{"Origin", "Content-Type", "Accept", "X-Trace-ID"})
	v.SetDefault("api.cors.exposed_headers", []string{"X-Trace-ID"})

	// WebSocket defaults
	v.SetDefault("websocket.ping_interval", "54s")
	v.SetDefault("websocket.pong_timeout", "60s")
	v.SetDefault("websocket.write_timeout", "10s")

	// Prometheus defaults
	v.SetDefault("prometheus.enabled", true)

	v.SetDefault("events.buffer_size", 100)
}
