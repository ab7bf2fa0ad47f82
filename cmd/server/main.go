// Package main runs the roster server: one shared roster behind
// GET/PUT /api/v1/roster, persisted in the configured storage backend.
// Graders on other machines point the "remote" backend at it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/peterbourgon/ff/v3"

	"github.com/alem-hub/assessment-hub/config"
	"github.com/alem-hub/assessment-hub/internal/application/roster"
	"github.com/alem-hub/assessment-hub/internal/infrastructure/persistence"
	httpapi "github.com/alem-hub/assessment-hub/internal/interface/http"
	"github.com/alem-hub/assessment-hub/internal/interface/http/handlers"
	"github.com/alem-hub/assessment-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return err
	}
	if cfg.Storage.Backend == config.BackendRemote {
		return errors.New("the roster server cannot use the remote backend itself")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting roster server",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.Backend(cfg.Storage.Backend),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. STORAGE
	// ─────────────────────────────────────────────────────────────────────────
	backend, err := persistence.Open(ctx, cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		log.Info("closing storage backend")
		_ = backend.Close()
	}()

	store := roster.NewStore(backend.Slot, roster.WithLogger(log))
	if err := store.Init(ctx); err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}
	log.Info("roster loaded", logger.RosterSize(store.Len()))

	// ─────────────────────────────────────────────────────────────────────────
	// 4. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	checker := handlers.NewCompositeHealthChecker(cfg.App.Version)
	checker.SetTimeout(cfg.HTTP.HealthCheckTimeout)
	checker.AddCheck("storage", handlers.NewPingCheck(backend))

	httpCfg := httpapi.DefaultConfig()
	httpCfg.Host = cfg.HTTP.Host
	httpCfg.Port = cfg.HTTP.Port
	httpCfg.MaxBodyBytes = cfg.HTTP.MaxBodyBytes
	httpCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpCfg.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute
	httpCfg.TrustedProxies = cfg.HTTP.TrustedProxies
	httpCfg.WriteToken = cfg.HTTP.WriteToken
	httpCfg.Version = cfg.App.Version

	server := httpapi.NewServer(httpCfg, httpapi.Dependencies{
		Store:         store,
		Logger:        log,
		HealthChecker: checker,
	})
	errCh := server.StartAsync()

	// ─────────────────────────────────────────────────────────────────────────
	// 5. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
		return nil
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("roster server stopped")
	return nil
}

// parseFlags lets command-line flags (or ASSESSMENT_SERVER_* variables)
// override the loaded configuration.
func parseFlags(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("assessment-server", flag.ContinueOnError)
	fs.StringVar(&cfg.HTTP.Host, "host", cfg.HTTP.Host, "address to bind")
	fs.IntVar(&cfg.HTTP.Port, "port", cfg.HTTP.Port, "port to listen on")
	fs.StringVar(&cfg.Storage.Backend, "store", cfg.Storage.Backend, "storage backend: sqlite, postgres, redis or memory")
	fs.StringVar(&cfg.Storage.SQLitePath, "sqlite", cfg.Storage.SQLitePath, "SQLite database file")
	fs.StringVar(&cfg.Observability.LogLevel, "log-level", cfg.Observability.LogLevel, "debug, info, warn or error")
	_ = fs.String("config", "", "config file (optional)")

	if err := ff.Parse(fs, args,
		ff.WithEnvVarPrefix("ASSESSMENT_SERVER"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	); err != nil {
		return err
	}
	return cfg.Validate()
}

// setupLogger builds the process logger: text in development, JSON otherwise.
func setupLogger(cfg *config.Config) *logger.Logger {
	format := logger.ParseFormat(cfg.Observability.LogFormat)
	if cfg.IsProduction() {
		format = logger.FormatJSON
	}
	return logger.New(logger.Options{
		Output: os.Stdout,
		Level:  logger.ParseLevel(cfg.Observability.LogLevel),
		Format: format,
	}).With(logger.String("service", cfg.App.Name))
}
