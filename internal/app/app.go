// Package app initializes and holds the services shared by the CLI commands.
package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/JakeFAU/store-locations/internal/api"
	"github.com/JakeFAU/store-locations/internal/config"
	"github.com/JakeFAU/store-locations/internal/crawler"
	collyfetcher "github.com/JakeFAU/store-locations/internal/fetcher/colly"
	"github.com/JakeFAU/store-locations/internal/id/uuid"
	"github.com/JakeFAU/store-locations/internal/logging"
	"github.com/JakeFAU/store-locations/internal/metrics"
	"github.com/JakeFAU/store-locations/internal/policy/ratelimit"
)

// App holds the configuration, logger, metrics and page fetcher for one run.
type App struct {
	cfg     config.Config
	runID   string
	logger  *zap.Logger
	metrics *metrics.Metrics
	pages   *crawler.PageFetcher

	stopMetrics context.CancelFunc
	metricsDone sync.WaitGroup
}

// GetConfig returns the resolved configuration.
func (a *App) GetConfig() config.Config {
	return a.cfg
}

// GetLogger returns the run-scoped logger.
func (a *App) GetLogger() *zap.Logger {
	return a.logger
}

// GetMetrics returns the run's Prometheus collectors.
func (a *App) GetMetrics() *metrics.Metrics {
	return a.metrics
}

// GetPageFetcher returns the retrying page fetcher.
func (a *App) GetPageFetcher() *crawler.PageFetcher {
	return a.pages
}

// RunID identifies this process in log output.
func (a *App) RunID() string {
	return a.runID
}

// NewApp loads configuration from cfgPath and flags and builds every service.
// When metrics.listen_addr is set, the metrics server runs until Close.
func NewApp(ctx context.Context, cfgPath string, flags *pflag.FlagSet) (*App, error) {
	cfg, err := config.Load(cfgPath, flags)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return FromConfig(ctx, cfg)
}

// FromConfig builds the services for an already loaded configuration.
func FromConfig(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := logging.New(cfg.Logging.Development, cfg.Crawler.Verbose)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	runID := uuid.New().MustRunID()
	logger = logger.With(zap.String("run_id", runID))

	m := metrics.New()
	fetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent: cfg.HTTP.UserAgent,
		Timeout:   cfg.Timeout(),
	})
	policy := crawler.NewRateLimitRetryPolicy(cfg.HTTP.MaxAttempts, cfg.BackoffInitial(), cfg.BackoffJitter())
	opts := []crawler.PageFetcherOption{
		crawler.WithObserver(m),
		crawler.WithVerbose(cfg.Crawler.Verbose),
	}
	if limiter := ratelimit.New(ratelimit.Config{
		RPS:   cfg.HTTP.RateLimitRPS,
		Burst: cfg.HTTP.RateLimitBurst,
	}); limiter.Enabled() {
		opts = append(opts, crawler.WithLimiter(limiter))
	}
	pages := crawler.NewPageFetcher(fetcher, policy, logger.Named("fetch"), opts...)

	a := &App{
		cfg:         cfg,
		runID:       runID,
		logger:      logger,
		metrics:     m,
		pages:       pages,
		stopMetrics: func() {},
	}
	if cfg.Metrics.ListenAddr != "" {
		a.startMetricsServer(ctx, cfg.Metrics.ListenAddr)
	}
	return a, nil
}

func (a *App) startMetricsServer(ctx context.Context, addr string) {
	srvCtx, cancel := context.WithCancel(ctx)
	a.stopMetrics = cancel
	srv := api.NewServer(a.metrics.Handler(), a.logger.Named("api"))
	a.metricsDone.Add(1)
	go func() {
		defer a.metricsDone.Done()
		if err := srv.ListenAndServe(srvCtx, addr); err != nil {
			a.logger.Error("metrics server failed", zap.Error(err))
		}
	}()
}

// Close stops the metrics server and flushes the logger.
func (a *App) Close() {
	a.stopMetrics()
	a.metricsDone.Wait()
	// Syncing stderr can fail on some platforms; nothing useful can be done about it.
	_ = a.logger.Sync()
}
