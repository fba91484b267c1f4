// Package main is the entry point for the account service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/text/language"

	"github.com/bytestream/account-service/internal/adapters/http"
	"github.com/bytestream/account-service/internal/adapters/http/handlers"
	"github.com/bytestream/account-service/internal/adapters/memory"
	"github.com/bytestream/account-service/internal/adapters/postgres"
	"github.com/bytestream/account-service/internal/app"
	"github.com/bytestream/account-service/internal/platform/clock"
	"github.com/bytestream/account-service/internal/platform/config"
	"github.com/bytestream/account-service/internal/platform/i18n"
	"github.com/bytestream/account-service/internal/platform/logging"
	"github.com/bytestream/account-service/internal/platform/telemetry"
	"github.com/bytestream/account-service/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	healthRegistry := ports.NewHealthRegistry()

	repo, closeRepo, err := newAccountRepository(ctx, &cfg.Database, healthRegistry, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	fallback, supported, err := locales(&cfg.I18n)
	if err != nil {
		return err
	}

	messages, err := i18n.Load(i18n.Bundles(), i18n.BundleMessages, fallback)
	if err != nil {
		return fmt.Errorf("loading message catalog: %w", err)
	}

	validation, err := i18n.Load(i18n.Bundles(), i18n.BundleValidation, fallback)
	if err != nil {
		return fmt.Errorf("loading validation catalog: %w", err)
	}

	accountService := app.NewAccountService(app.AccountServiceConfig{
		Repository: repo,
		Clock:      clock.System{},
		Messages:   messages,
		Logger:     logger,
	})

	translator := http.NewErrorTranslator(messages, validation)

	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo)
	accountHandler := handlers.NewAccountHandler(accountService, translator)

	server := http.New(&cfg.Server, logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:         logger,
		AppConfig:      &cfg.App,
		HealthHandler:  healthHandler,
		AccountHandler: accountHandler,
		Translator:     translator,
		Resolver:       i18n.NewResolver(fallback, supported...),
		Timeout:        cfg.Server.RequestTimeout,
	})

	serverErr := server.Start()

	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// newAccountRepository opens the configured account store. With the
// database enabled the schema is migrated first and the pool is registered
// as a readiness check. The returned func releases the store.
func newAccountRepository(
	ctx context.Context,
	cfg *config.DatabaseConfig,
	registry ports.HealthRegistry,
	logger *slog.Logger,
) (ports.AccountRepository, func(), error) {
	if !cfg.Enabled {
		logger.Warn("database disabled, accounts are kept in memory")
		return memory.NewAccountRepository(), func() {}, nil
	}

	if cfg.Migrate {
		if err := postgres.Migrate(cfg.DSN); err != nil {
			return nil, nil, fmt.Errorf("migrating database: %w", err)
		}

		logger.Info("database schema up to date")
	}

	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		DSN:             cfg.DSN,
		MaxConns:        cfg.MaxConns,
		MinConns:        cfg.MinConns,
		MaxConnLifetime: cfg.MaxConnLifetime,
		MaxConnIdleTime: cfg.MaxConnIdleTime,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}

	repo := postgres.NewAccountRepository(pool, logger)

	if err := registry.Register(repo); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("registering database health check: %w", err)
	}

	return repo, pool.Close, nil
}

// locales parses the configured default and supported locales.
func locales(cfg *config.I18nConfig) (language.Tag, []language.Tag, error) {
	tags, err := i18n.ParseLocales(append([]string{cfg.DefaultLocale}, cfg.SupportedLocales...))
	if err != nil {
		return language.Und, nil, fmt.Errorf("parsing locales: %w", err)
	}

	return tags[0], tags[1:], nil
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then performs graceful shutdown of the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	// Stop accepting new requests, drain in-flight
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
