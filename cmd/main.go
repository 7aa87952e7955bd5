package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/teamlens/alignd/internal/adapters/gateway"
	"github.com/teamlens/alignd/internal/adapters/http/api"
	"github.com/teamlens/alignd/internal/adapters/http/swagger"
	"github.com/teamlens/alignd/internal/adapters/repository"
	app "github.com/teamlens/alignd/internal/app"
	"github.com/teamlens/alignd/internal/config"
	"github.com/teamlens/alignd/pkg/logger"
	"github.com/teamlens/alignd/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics.
	// We collect our own custom system metrics instead.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Select the store: sqlite when a db path is configured, otherwise
	// the in-memory store.
	var store repository.Store
	if cfg.DBPath != "" {
		sqliteStore, err := repository.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			log.Error(ctx, "failed to open database", logger.String("db_path", cfg.DBPath), logger.Error(err))
			return
		}
		defer func() { _ = sqliteStore.Close() }()
		store = sqliteStore
		log.Info(ctx, "using sqlite store", logger.String("db_path", cfg.DBPath))
	} else {
		store = repository.NewMemStore()
		log.Warn(ctx, "no db_path configured; using in-memory store")
	}

	// Build the service. Without an API key the gateway stays absent and
	// every submission is scored by the heuristic.
	svcOpts := []app.Option{
		app.WithLogger(log),
		app.WithStore(store),
		app.WithReportWindow(cfg.ReportWindow),
	}
	if cfg.APIKey != "" {
		gw, err := gateway.NewOpenAI(cfg.Model, cfg.ModelBaseURL, cfg.APIKey,
			gateway.WithTimeout(time.Duration(cfg.GatewayTimeoutMS)*time.Millisecond),
			gateway.WithTemperature(cfg.Temperature),
			gateway.WithMaxTokens(cfg.MaxTokens),
		)
		if err != nil {
			log.Error(ctx, "failed to build completion gateway", logger.Error(err))
			return
		}
		svcOpts = append(svcOpts, app.WithGateway(gw))
		log.Info(ctx, "completion gateway enabled", logger.String("model", cfg.Model))
	} else {
		log.Warn(ctx, "no api_key configured; scoring runs on the heuristic alone")
	}
	svc := app.New(svcOpts...)

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Register API docs under /api-docs
	swagger.Register(ctx, mux)

	// Register business API routes with the service dependency.
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that refreshes
// the goal/analysis gauges from the store.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// GetStats updates the gauges as a side effect.
			svc.GetStats()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		// Average GC pause over the process lifetime
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
