package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/JonMunkholm/labnorm/internal/config"
	"github.com/JonMunkholm/labnorm/internal/core"
	"github.com/JonMunkholm/labnorm/internal/core/labs"
	"github.com/JonMunkholm/labnorm/internal/logging"
	"github.com/JonMunkholm/labnorm/internal/metrics"
	"github.com/JonMunkholm/labnorm/internal/store"
	"github.com/JonMunkholm/labnorm/internal/units"
	"github.com/JonMunkholm/labnorm/internal/web"
)

func main() {
	// Overload lets a local .env win over the shell environment.
	envErr := godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	if envErr != nil {
		slog.Info("no .env file found, using environment variables")
	}
	slog.Info("configuration loaded", "config", cfg.String())

	registry, err := buildRegistry(cfg.Convert.LabConfigPath)
	if err != nil {
		slog.Error("failed to load lab configs", "path", cfg.Convert.LabConfigPath, "error", err)
		os.Exit(1)
	}
	slog.Info("lab configs registered", "count", registry.Len())

	unitOpts := []units.Option{units.WithLogger(logger)}
	if cfg.Convert.FillTestIDs {
		unitOpts = append(unitOpts, units.WithDefaultTestIDs())
	}
	converter := core.NewConverter(registry,
		core.WithUnits(units.New(unitOpts...)),
		core.WithLimiter(core.NewLimiter(cfg.Convert.MaxConcurrent, cfg.Convert.MaxWaitTime)),
		core.WithLogger(logger),
	)

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	convMetrics, err := metrics.NewConversionMetrics(promRegistry)
	if err != nil {
		slog.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}

	deps := web.Deps{
		Converter: converter,
		Metrics:   convMetrics,
		Gatherer:  promRegistry,
	}

	ctx := context.Background()
	if cfg.Database.Enabled() {
		pool, err := connect(ctx, &cfg.Database)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		events := store.NewEventStore(pool)
		if err := events.Migrate(ctx); err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
		deps.Store = events
	} else {
		slog.Info("DATABASE_URL not set, results are kept in memory only")
	}

	server := web.NewServer(cfg, deps)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...", "active_conversions", converter.Limiter().Active())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// buildRegistry returns the built-in labs, extended from a YAML file when
// path is set.
func buildRegistry(path string) (*core.Registry, error) {
	if path == "" {
		return labs.Default(), nil
	}
	extra, err := labs.Load(path)
	if err != nil {
		return nil, err
	}
	slog.Info("loaded lab configs from file", "path", path, "count", len(extra))
	return labs.NewRegistry(extra...), nil
}

func connect(ctx context.Context, cfg *config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	}
	return pool, nil
}
