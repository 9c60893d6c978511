// calsift is a daemon that fetches iCalendar feeds, filters their
// events, and publishes a merged calendar file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/calsift/calsift/internal/config"
	"github.com/calsift/calsift/internal/feed"
	"github.com/calsift/calsift/internal/metrics"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config file (default: ~/.config/calsift/config.yaml)")
		once       = flag.Bool("once", false, "sync once and exit")
		verbose    = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	logger, err := initLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load configuration
	var cfg *config.Config
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	app, err := newApp(cfg, logger)
	if err != nil {
		logger.Fatal("failed to start", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	if err := app.run(ctx, *once); err != nil {
		logger.Fatal("app failed", zap.Error(err))
	}
}

// App wires configuration, sources, metrics, and the feed service
// together.
type App struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *feed.Service
	sources []feed.Source
	metrics *metrics.Collector
}

func newApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sources, err := feed.SourcesFromConfig(cfg.Sources)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, errors.New("no calendar sources configured")
	}

	collector := metrics.NewCollector(prometheus.DefaultRegisterer)

	return &App{
		cfg:     cfg,
		logger:  logger,
		service: feed.NewService(logger, collector, cfg.Output),
		sources: sources,
		metrics: collector,
	}, nil
}

// run performs the initial sync and then blocks on the refresh loop
// until the context is cancelled.
func (a *App) run(ctx context.Context, once bool) error {
	if a.cfg.Metrics.Listen != "" {
		go a.serveMetrics(ctx)
	}

	a.logger.Info("starting calsift",
		zap.Int("sources", len(a.sources)),
		zap.Duration("interval", a.cfg.Sync.Interval),
		zap.String("refresh", a.cfg.Sync.Refresh),
	)

	if err := a.syncOnce(ctx); err != nil {
		if once {
			return err
		}
		a.logger.Warn("sync failed", zap.Error(err))
	}
	if once {
		return nil
	}

	if a.cfg.Sync.Refresh != "" {
		return a.runCron(ctx)
	}
	return a.runTicker(ctx)
}

// syncOnce builds the merged calendar and writes it to the output
// path.
func (a *App) syncOnce(ctx context.Context) error {
	start := time.Now()

	doc := a.service.BuildCalendar(ctx, a.sources)
	if err := feed.WriteFile(a.cfg.Sync.Output, doc); err != nil {
		a.metrics.IncSyncs("error")
		return fmt.Errorf("write calendar: %w", err)
	}

	a.metrics.IncSyncs("ok")
	a.logger.Info("sync complete",
		zap.String("output", a.cfg.Sync.Output),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// runTicker resyncs on a fixed interval.
func (a *App) runTicker(ctx context.Context) error {
	ticker := time.NewTicker(a.cfg.Sync.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := a.syncOnce(ctx); err != nil {
				a.logger.Warn("sync failed", zap.Error(err))
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// runCron resyncs on the configured cron schedule.
func (a *App) runCron(ctx context.Context) error {
	c := cron.New()
	_, err := c.AddFunc(a.cfg.Sync.Refresh, func() {
		if err := a.syncOnce(ctx); err != nil {
			a.logger.Warn("sync failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("parse refresh expression: %w", err)
	}

	c.Start()
	<-ctx.Done()

	// Wait for any running sync to finish
	stopCtx := c.Stop()
	<-stopCtx.Done()
	return nil
}

// serveMetrics exposes Prometheus metrics and a health endpoint until
// the context is cancelled.
func (a *App) serveMetrics(ctx context.Context) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	srv := &http.Server{Addr: a.cfg.Metrics.Listen, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	a.logger.Info("starting metrics server", zap.String("address", a.cfg.Metrics.Listen))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.logger.Error("metrics server failed", zap.Error(err))
	}
}

// initLogger initializes the zap logger.
func initLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopmentConfig().Build()
	}
	return zap.NewProductionConfig().Build()
}
