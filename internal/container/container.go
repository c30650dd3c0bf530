package container

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"statdemo/adapters/rng"
	"statdemo/app"
	"statdemo/internal/cache"
	"statdemo/internal/config"
	"statdemo/internal/hypothesis"
	"statdemo/internal/logging"
	"statdemo/internal/metrics"
	"statdemo/internal/simulation"
	"statdemo/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	// Infrastructure
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Cache    ports.SampleCache

	// Core components
	Simulator *simulation.Simulator
	Runner    *hypothesis.Runner
	Service   *app.DemoService
}

// New creates a new dependency injection container. A nil logger builds one
// from the logging section of cfg.
func New(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if logger == nil {
		var err error
		logger, err = logging.New(logging.Config{
			Level:       cfg.Logging.Level,
			Development: cfg.Logging.Development,
			OutputPaths: logging.DefaultConfig().OutputPaths,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build logger: %w", err)
		}
	}

	c := &Container{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
		Cache:    cache.NewMemory(),
	}
	c.Metrics = metrics.New(c.Registry)

	c.Simulator = simulation.New(c.Cache,
		simulation.WithRNG(rng.NewSeededAdapter()),
		simulation.WithLogger(logger.Named("simulation")),
		simulation.WithMetrics(c.Metrics))

	c.Runner = hypothesis.NewRunner(
		hypothesis.WithTTestVariant(cfg.Variant()),
		hypothesis.WithLogger(logger.Named("hypothesis")),
		hypothesis.WithMetrics(c.Metrics))

	c.Service = app.NewDemoService(c.Simulator, c.Runner, c.Metrics, logger.Named("demo"))

	logger.Debug("container initialized",
		zap.String("t_test_variant", string(cfg.Variant())),
		zap.Int64("default_seed", cfg.Simulation.Seed),
		zap.Int("default_sample_size", cfg.Simulation.SampleSize))

	return c, nil
}

// Shutdown releases cached samples and flushes the logger
func (c *Container) Shutdown(ctx context.Context) error {
	c.Cache.Reset()
	// stderr sync errors are expected on some platforms
	_ = c.Logger.Sync()
	return ctx.Err()
}
