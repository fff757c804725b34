package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"marketpulse/internal/app"
	"marketpulse/internal/config"
	hhttp "marketpulse/internal/handler/http"
	"marketpulse/internal/handler/http/requestid"
	"marketpulse/internal/observability/logging"
	"marketpulse/internal/observability/tracing"
)

func main() {
	loadDotEnv()
	logger := initLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	if cfg.TracingEnabled {
		_, shutdown := tracing.InstallProvider("marketpulse-api", cfg.Version)
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Error("tracer shutdown failed", slog.Any("error", err))
			}
		}()
	}

	components, err := app.Build(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to build components", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := components.Close(); err != nil {
			logger.Error("failed to release components", slog.Any("error", err))
		}
	}()

	handler := setupServer(logger, cfg, components)
	runServer(logger, cfg, handler)
}

// loadDotEnv reads .env when present. Variables already set win.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", slog.Any("error", err))
	}
}

// initLogger installs the JSON logger as the process default.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// setupServer registers the routes and wraps them in the middleware chain.
func setupServer(logger *slog.Logger, cfg *config.AppConfig, components *app.Components) http.Handler {
	health := &hhttp.HealthHandler{Version: cfg.Version, Feed: components.Fetcher}
	ready := &hhttp.ReadyHandler{}
	if components.Cache != nil {
		health.Cache = components.Cache
		ready.Cache = components.Cache
	}

	mux := http.NewServeMux()
	hhttp.Register(mux, hhttp.Routes{
		API: &hhttp.APIHandler{
			Dashboard: components.Dashboard,
			Presets:   components.Presets,
		},
		Health: health,
		Ready:  ready,
	})

	// Order, outermost first:
	// 1. Request ID (every log record and response carries it)
	// 2. Context logger
	// 3. Tracing
	// 4. Metrics
	// 5. Logging
	// 6. Recovery
	// 7. Rate limit (before any upstream work)
	// 8. Input validation
	// 9. Request timeout
	middlewares := []func(http.Handler) http.Handler{
		requestid.Middleware,
		hhttp.ContextLogger(logger),
		tracing.Middleware,
		hhttp.MetricsMiddleware,
		hhttp.Logging(logger),
		hhttp.Recover(logger),
	}
	if cfg.RateLimit.Enabled {
		limiter := hhttp.NewRateLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Window)
		middlewares = append(middlewares, limiter.Limit)
		logger.Info("rate limiting enabled",
			slog.Int("limit", cfg.RateLimit.Limit),
			slog.Duration("window", cfg.RateLimit.Window))
	} else {
		logger.Warn("rate limiting is DISABLED - not recommended for production")
	}
	middlewares = append(middlewares, hhttp.SecurityHeaders(), hhttp.InputValidation(), hhttp.Timeout(cfg.RequestTimeout))

	return hhttp.Chain(mux, middlewares...)
}

// runServer serves until SIGINT or SIGTERM, then drains in-flight requests.
func runServer(logger *slog.Logger, cfg *config.AppConfig, handler http.Handler) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// Dashboard builds wait on the feed and the AI providers.
		WriteTimeout: cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:  2 * time.Minute,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	cancel()
	logger.Info("server stopped")
}
