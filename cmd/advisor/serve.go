package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/OldStager01/energy-advisor/api"
	"github.com/OldStager01/energy-advisor/internal/advisor"
	"github.com/OldStager01/energy-advisor/internal/artifacts"
	"github.com/OldStager01/energy-advisor/internal/cache"
	"github.com/OldStager01/energy-advisor/internal/events"
	"github.com/OldStager01/energy-advisor/internal/history"
	"github.com/OldStager01/energy-advisor/internal/logger"
	"github.com/OldStager01/energy-advisor/internal/metrics"
	"github.com/OldStager01/energy-advisor/pkg/config"
	"github.com/OldStager01/energy-advisor/pkg/database"
	"github.com/OldStager01/energy-advisor/pkg/database/queries"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web form and JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*configPath)
		},
	}
}

func runServe(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Mode)

	var db *database.DB
	if cfg.Database.Enabled {
		db, err = database.Open(context.Background(), cfg.Database.ToDBConfig())
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		logger.Info("Database connection established")

		if err := db.CheckHistory(context.Background()); err != nil {
			logger.Warnf("History table not ready: %v", err)
		}
	}

	bus := events.NewEventBus(cfg.Events.BufferSize)
	publisher := events.NewPublisher(bus)
	m := metrics.Get()
	m.SetEventsDropped(bus.Dropped)

	store := newHistoryStore(cfg, db)
	eventLogger := events.NewEventLogger(store, bus.SubscribeAll(), cfg.History.WriteTimeout)
	eventLogger.Start()

	svc, loadErr := newAdvisor(cfg, publisher, m)
	if loadErr != nil {
		logger.Errorf("Serving without a model: %v", loadErr)
		publisher.Error("Artifact loading failed", loadErr)
	}
	m.SetArtifactsLoaded(loadErr == nil)

	server, err := api.NewServer(cfg, api.Dependencies{
		Advisor:   svc,
		LoadError: loadErr,
		DB:        db,
		History:   store,
		Bus:       bus,
		Metrics:   m,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Infof("API server listening on port %d", cfg.API.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	var runErr error
	select {
	case err := <-errChan:
		runErr = fmt.Errorf("server error: %w", err)
	case sig := <-shutdownChan:
		logger.Infof("Received signal %v, shutting down", sig)
	}

	shutdownTimeout := cfg.App.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("shutdown error: %w", err)
	}

	// Closing the bus ends the event logger once it has drained the queue.
	bus.Close()
	if !eventLogger.Drain(shutdownTimeout) {
		logger.Warn("Event logger did not drain before the shutdown timeout")
	}

	if runErr == nil {
		logger.Info("Server stopped gracefully")
	}
	return runErr
}

// newHistoryStore persists to Postgres when a database is configured and
// keeps a bounded in-memory history otherwise. Either way a breaker
// guards the backend.
func newHistoryStore(cfg *config.Config, db *database.DB) *history.GuardedStore {
	var backend history.Store
	if db != nil {
		backend = queries.NewRecommendationRepository(db.DB)
	} else {
		backend = history.NewMemoryStore(cfg.History.MemoryCapacity)
	}

	return history.NewGuardedStore(backend, history.BreakerConfig{
		MaxFailures: cfg.History.MaxFailures,
		Timeout:     cfg.History.BreakerTimeout,
		OnStateChange: func(from, to history.State) {
			logger.Warnf("History store circuit %s -> %s", from, to)
		},
	})
}

func newAdvisor(cfg *config.Config, publisher *events.Publisher, m *metrics.Metrics) (*advisor.Service, error) {
	bundle, err := artifacts.Load(cfg.Artifacts)
	if err != nil {
		return nil, err
	}

	if missing := bundle.Reconcile(); len(missing) > 0 {
		logger.WithField("appliances", missing).
			Warn("Tip table offers appliances the model was not trained on; they do not affect matching")
	}

	opts := []advisor.Option{
		advisor.WithPublisher(publisher),
		advisor.WithMetrics(m),
	}
	if cfg.Cache.Enabled {
		neighborCache := cache.New(cfg.Cache.SizeInBytes, cfg.Cache.TTLSeconds)
		opts = append(opts, advisor.WithCache(neighborCache))
		m.SetCacheStats(func() (int64, int64, int64) {
			stats := neighborCache.Stats()
			return stats.Entries, stats.Hits, stats.Misses
		})
	}

	svc, err := advisor.NewService(bundle, cfg.Advisor, opts...)
	if err != nil {
		return nil, err
	}

	logger.WithModel(bundle.Index.ID).Infof("Loaded model with %d reference households and %d appliances",
		bundle.Index.Len(), bundle.Encoder.Width())
	publisher.ArtifactsLoaded(bundle.Index.ID, bundle.Tips.Len())
	return svc, nil
}
