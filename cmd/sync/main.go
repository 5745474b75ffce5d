// Package main provides the StrideLab batch sync entrypoint. It reads a
// tracker-exported activities JSON file, runs effort recognition and
// split analysis over it against the configured store, and exits.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/stridelab/stridelab/internal/activity"
	"github.com/stridelab/stridelab/internal/api/middleware"
	"github.com/stridelab/stridelab/internal/effort"
	"github.com/stridelab/stridelab/internal/route"
	"github.com/stridelab/stridelab/internal/splits"
	"github.com/stridelab/stridelab/internal/store"
	"github.com/stridelab/stridelab/internal/telemetry"
	"github.com/stridelab/stridelab/internal/units"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "stridelab-sync"

	var (
		inputPath = flag.String("input", "activities.json", "path to the exported activities JSON file")
		timeout   = flag.Duration("timeout", 5*time.Minute, "overall processing timeout")
	)
	flag.Parse()

	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Str("input", *inputPath).
		Msg("starting StrideLab sync")

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"
	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    envOr("APP_ENV", "development"),
		OTLPEndpoint:   envOr("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	syncMetrics, err := middleware.NewSyncMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	activities, err := loadActivities(*inputPath)
	if err != nil {
		log.Fatal().Err(err).Str("input", *inputPath).Msg("failed to load activities")
	}
	log.Info().Int("activities", len(activities)).Msg("activities loaded")

	st, err := store.FromEnv(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize store")
	}
	defer func() {
		switch c := st.(type) {
		case interface{ Close() error }:
			_ = c.Close()
		case interface{ Close() }:
			c.Close()
		}
	}()

	unit := units.Kilometers
	if os.Getenv("DISTANCE_UNIT") == "mi" {
		unit = units.Miles
	}

	effortService := effort.NewService(effort.ServiceConfig{
		Store:  st,
		Logger: log,
		Unit:   unit,
	})
	splitsService := splits.NewService(splits.ServiceConfig{
		Store:  st,
		Logger: log,
		Unit:   unit,
	})
	routeService := route.NewService(route.ServiceConfig{
		Store:  st,
		Logger: log,
	})

	start := time.Now()

	if err := effortService.ProcessAll(ctx, activities); err != nil {
		log.Fatal().Err(err).Msg("effort processing failed")
	}

	recognized := 0
	analyses := 0
	for i := range activities {
		a := &activities[i]
		if !a.IsRun() {
			continue
		}

		rec, err := effortService.Recognition(ctx, a.ID)
		if err != nil {
			log.Fatal().Err(err).Int64("activity_id", a.ID).Msg("loading recognition failed")
		}
		if rec != nil {
			recognized++
		}

		if splitsService.HasSplitData(a) {
			if _, err := splitsService.Analyze(ctx, a); err != nil {
				log.Fatal().Err(err).Int64("activity_id", a.ID).Msg("split analysis failed")
			}
			analyses++
		}

		if encoded := a.Polyline(); encoded != "" {
			if err := routeService.CacheRoute(ctx, a.ID, encoded); err != nil {
				log.Warn().Err(err).Int64("activity_id", a.ID).Msg("route cache update failed")
			}
		}
	}

	elapsed := time.Since(start)
	syncMetrics.RecordBatch(elapsed, len(activities), recognized, analyses)

	log.Info().
		Int("activities", len(activities)).
		Int("recognized", recognized).
		Int("split_analyses", analyses).
		Dur("elapsed", elapsed).
		Msg("sync complete")
}

// loadActivities reads an exported activities file: either a bare JSON
// array or an object with an "activities" key.
func loadActivities(path string) ([]activity.Activity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var list []activity.Activity
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Activities []activity.Activity `json:"activities"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Activities, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
