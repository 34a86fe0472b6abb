package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/saralopezbz/iris-predictor/internal/adapter/http/router"
	"github.com/saralopezbz/iris-predictor/internal/infrastructure/config"
	"github.com/saralopezbz/iris-predictor/internal/infrastructure/logger"
	"github.com/saralopezbz/iris-predictor/internal/infrastructure/metrics"
	"github.com/saralopezbz/iris-predictor/internal/infrastructure/model"
	"github.com/saralopezbz/iris-predictor/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Load the model before anything listens
	handle, err := model.Load(cfg.Model.Path)
	if err != nil {
		log.Error("Failed to load model", zap.String("path", cfg.Model.Path), zap.Error(err))
		return fmt.Errorf("failed to load model: %w", err)
	}
	log.Info("Model loaded",
		zap.String("path", cfg.Model.Path),
		zap.String("model_type", handle.ModelType()),
		zap.Strings("classes", handle.ClassLabels()),
		zap.Int("feature_count", handle.FeatureCount()),
	)

	opts := []usecase.Option{usecase.WithCache(cfg.Predictor.CacheSize)}

	// Prometheus metrics (optional)
	var gatherer prometheus.Gatherer
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m, err := metrics.New(reg)
		if err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		opts = append(opts, usecase.WithRecorder(m))
		gatherer = reg
	}

	predictUC, err := usecase.NewPredictUsecase(handle, opts...)
	if err != nil {
		return fmt.Errorf("failed to create predictor: %w", err)
	}

	// Setup router
	r := router.Setup(handle, predictUC, gatherer, log)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or a listener failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		log.Error("Server failed", zap.Error(err))
		return fmt.Errorf("server failed: %w", err)
	}

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
	return nil
}
