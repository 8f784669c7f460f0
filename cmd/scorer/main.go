// Package main provides the entrypoint for the OrchardScore suitability
// scorer: it loads the station catalog, scores every station over the
// configured year range and writes one CSV per criterion.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/orchardscore/orchardscore/internal/climate"
	"github.com/orchardscore/orchardscore/internal/config"
	"github.com/orchardscore/orchardscore/internal/database"
	"github.com/orchardscore/orchardscore/internal/ops"
	"github.com/orchardscore/orchardscore/internal/provider/envcanada"
	"github.com/orchardscore/orchardscore/internal/rawcache"
	"github.com/orchardscore/orchardscore/internal/results"
	"github.com/orchardscore/orchardscore/internal/runner"
	"github.com/orchardscore/orchardscore/internal/station"
	"github.com/orchardscore/orchardscore/internal/suitability"
	"github.com/orchardscore/orchardscore/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "orchardscore-scorer"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting OrchardScore scorer")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Env,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	metrics, err := telemetry.NewPipelineMetrics(telemetry.Meter(serviceName))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize pipeline metrics")
	}

	// Result persistence: PostgreSQL when enabled, in-memory otherwise.
	var (
		repository results.Repository = results.NewInMemoryRepository()
		ready      func() error
	)
	if cfg.DatabaseEnabled {
		dbConfig, err := database.ConfigFromEnv()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to read database configuration")
		}
		pool, err := database.Connect(ctx, dbConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		repository = results.NewPostgresRepository(pool)
		ready = func() error { return pool.Ping(context.Background()) }
		log.Info().
			Str("host", dbConfig.Host).
			Str("database", dbConfig.Database).
			Msg("database connected")
	}

	stations, err := station.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.CatalogPath).Msg("failed to load station catalog")
	}
	log.Info().Int("stations", len(stations)).Msg("station catalog loaded")

	// Acquisition pipeline: resilient provider client -> raw-record cache ->
	// reconciler with a persisted series cache.
	client := envcanada.NewClient(envcanada.ClientConfig{BaseURL: cfg.ProviderBaseURL})
	cache := rawcache.New(rawcache.Config{
		Dir:     cfg.CacheDir,
		Logger:  log,
		Metrics: metrics,
	}, client)
	reconciler := climate.NewReconciler(cache, climate.NewSeriesCache(cfg.CacheDir), log)
	aggregator := suitability.NewAggregator(reconciler, log)

	tracker := ops.NewStatusTracker()
	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: ops.NewRouter(ops.RouterConfig{
			Version:   Version,
			BuildTime: BuildTime,
			Logger:    log,
			Tracker:   tracker,
			Ready:     ready,
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	go func() {
		log.Info().Str("addr", server.Addr).Msg("ops server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("ops server error")
		}
	}()

	job := runner.NewScoreJob(runner.JobConfig{
		Config: runner.Config{
			StartYear:   cfg.StartYear,
			EndYear:     cfg.EndYear,
			Concurrency: cfg.Concurrency,
		},
		Logger:     log,
		Aggregator: aggregator,
		Lookup:     station.NewCatalogLookup(stations),
		Repository: repository,
		Metrics:    metrics,
		Progress:   tracker.Update,
	})

	tracker.StartRun("")
	result, err := job.Run(ctx, stations)
	tracker.FinishRun(err != nil)
	if err != nil {
		log.Fatal().Err(err).Msg("scoring run aborted")
	}

	if err := writeOutputs(cfg.OutputDir, result); err != nil {
		log.Fatal().Err(err).Msg("failed to write output files")
	}

	log.Info().
		Str("run_id", result.RunID.String()).
		Int("scored", result.Scored).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Dur("duration", result.Duration).
		Str("output_dir", cfg.OutputDir).
		Msg("scoring run finished")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("ops server forced to shutdown")
	}
}

// writeOutputs writes one CSV per criterion under dir.
func writeOutputs(dir string, result *runner.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	byCriterion := make(map[string][]suitability.CriteriaRow)
	var order []string
	for _, row := range result.Rows {
		if _, seen := byCriterion[row.Criterion]; !seen {
			order = append(order, row.Criterion)
		}
		byCriterion[row.Criterion] = append(byCriterion[row.Criterion], row)
	}

	for _, criterion := range order {
		path := filepath.Join(dir, criterion+".csv")
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if err := results.WriteCSV(f, byCriterion[criterion]); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", path, err)
		}
	}
	return nil
}
