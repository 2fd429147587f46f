package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/currypot/recommender/internal/api"
	"github.com/currypot/recommender/internal/catalog"
	"github.com/currypot/recommender/internal/config"
	"github.com/currypot/recommender/internal/hermes"
	"github.com/currypot/recommender/internal/recommend"
	"github.com/currypot/recommender/internal/scoring"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Hermes (optional)
	var hermesClient hermes.Client
	if cfg.Hermes.URL != "" {
		hc, err := hermes.NewNATSClient(ctx, cfg.Hermes.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			hermesClient = hc
			defer hc.Close()
			logger.Info("connected to hermes")
		}
	}

	// Catalog
	var catalogClient catalog.Client = catalog.NewHTTPClient(
		cfg.Catalog.URL, cfg.CatalogTimeout(), cfg.Catalog.RadiusKm, cfg.Catalog.Oversample, logger)
	if cfg.Catalog.Breaker.Enabled {
		catalogClient = catalog.NewBreakerClient(catalogClient, catalog.BreakerSettings{
			Name:         "catalog",
			MaxRequests:  cfg.Catalog.Breaker.MaxRequests,
			Interval:     cfg.BreakerInterval(),
			OpenTimeout:  cfg.BreakerOpenTimeout(),
			MinRequests:  cfg.Catalog.Breaker.MinRequests,
			FailureRatio: cfg.Catalog.Breaker.FailureRatio,
		}, logger)
	}
	logger.Info("catalog configured", "url", cfg.Catalog.URL, "breaker", cfg.Catalog.Breaker.Enabled)

	// Scorer
	points := pointsFromConfig(cfg.Scoring.Points)
	if err := points.Validate(); err != nil {
		logger.Error("invalid scoring points", "error", err)
		os.Exit(1)
	}
	scorer := scoring.NewScorer(points, logger)

	svc := recommend.NewService(catalogClient, scorer, hermesClient, logger)

	// API server
	router := api.NewRouter(svc, scorer, cfg, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: api.NewMetricsRouter(),
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}

func newLogger(lc config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(lc.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(lc.Format) == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func pointsFromConfig(p config.ScoringPoints) scoring.PointSet {
	return scoring.PointSet{
		RatingMultiplier: p.RatingMultiplier,
		OrderMultiplier:  p.OrderMultiplier,
		OrderCap:         p.OrderCap,
		ViewMultiplier:   p.ViewMultiplier,
		ViewCap:          p.ViewCap,
		DietaryMatch:     p.DietaryMatch,
		SpiceMatch:       p.SpiceMatch,
		CuisineMatch:     p.CuisineMatch,
		CuisineMismatch:  p.CuisineMismatch,
		AllergenConflict: p.AllergenConflict,
	}
}
