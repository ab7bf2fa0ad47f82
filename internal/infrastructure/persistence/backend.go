// Package persistence opens the roster slot selected by configuration.
package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/alem-hub/assessment-hub/config"
	"github.com/alem-hub/assessment-hub/internal/domain/student"
	"github.com/alem-hub/assessment-hub/internal/infrastructure/persistence/memory"
	"github.com/alem-hub/assessment-hub/internal/infrastructure/persistence/postgres"
	"github.com/alem-hub/assessment-hub/internal/infrastructure/persistence/redis"
	"github.com/alem-hub/assessment-hub/internal/infrastructure/persistence/remote"
	"github.com/alem-hub/assessment-hub/internal/infrastructure/persistence/sqlite"
	"github.com/alem-hub/assessment-hub/pkg/logger"
	"github.com/alem-hub/assessment-hub/pkg/retry"
)

// Backend is an opened slot together with the resources behind it.
type Backend struct {
	Name string
	Slot student.Slot

	ping  func(ctx context.Context) error
	close func() error
}

// Ping checks that the backend is reachable.
func (b *Backend) Ping(ctx context.Context) error {
	if b.ping == nil {
		return nil
	}
	return b.ping(ctx)
}

// Close releases connections and file handles.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open connects to the configured backend and binds the slot key.
func Open(ctx context.Context, cfg config.StorageConfig, log *logger.Logger) (*Backend, error) {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With(logger.Backend(cfg.Backend), logger.SlotKey(cfg.Key))

	var (
		b   *Backend
		err error
	)
	switch cfg.Backend {
	case config.BackendSQLite:
		b, err = openSQLite(cfg)
	case config.BackendPostgres:
		b, err = openPostgres(ctx, cfg, log)
	case config.BackendRedis:
		b, err = openRedis(cfg)
	case config.BackendRemote:
		b, err = openRemote(cfg, log)
	case config.BackendMemory:
		b = &Backend{Slot: memory.NewSlot()}
	default:
		err = fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
	if err != nil {
		log.Error("storage backend unavailable", logger.Err(err))
		return nil, err
	}

	b.Name = cfg.Backend
	log.Debug("storage backend opened")
	return b, nil
}

func openSQLite(cfg config.StorageConfig) (*Backend, error) {
	store, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	return &Backend{
		Slot:  sqlite.NewSlot(store, cfg.Key),
		ping:  store.Ping,
		close: store.Close,
	}, nil
}

func openPostgres(ctx context.Context, cfg config.StorageConfig, log *logger.Logger) (*Backend, error) {
	settings := postgres.DefaultPoolSettings()
	if cfg.DBMaxConns > 0 {
		settings.MaxConns = cfg.DBMaxConns
	}

	conn, err := postgres.NewConnectionFromURL(ctx, cfg.DatabaseURL, settings)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	if cfg.DBRunMigrate {
		if err := postgres.NewMigrator(conn).Migrate(ctx); err != nil {
			conn.Close()
			return nil, fmt.Errorf("postgres: %w", err)
		}
		log.Debug("postgres migrations applied")
	}
	return &Backend{
		Slot: postgres.NewSlot(conn, cfg.Key),
		ping: conn.Ping,
		close: func() error {
			conn.Close()
			return nil
		},
	}, nil
}

func openRedis(cfg config.StorageConfig) (*Backend, error) {
	rc := redis.DefaultConfig()
	rc.Addr = cfg.RedisAddr
	rc.Password = cfg.RedisPassword
	rc.DB = cfg.RedisDB

	cache, err := redis.NewCache(rc)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	return &Backend{
		Slot:  redis.NewSlot(cache, cfg.Key),
		ping:  cache.Ping,
		close: cache.Close,
	}, nil
}

func openRemote(cfg config.StorageConfig, log *logger.Logger) (*Backend, error) {
	if cfg.RemoteURL == "" {
		return nil, fmt.Errorf("remote: base URL is required")
	}
	retrier := retry.HTTPRetrier(retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
		log.Warn("roster server request failed, retrying",
			logger.Int("attempt", attempt),
			logger.Duration("delay", delay),
			logger.Err(err),
		)
	}))
	slot := remote.NewSlot(cfg.RemoteURL,
		remote.WithTimeout(cfg.RemoteTimeout),
		remote.WithToken("", cfg.RemoteToken),
		remote.WithRetrier(retrier),
	)
	return &Backend{Slot: slot, ping: slot.Ping}, nil
}
