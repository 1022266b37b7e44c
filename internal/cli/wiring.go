package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"mathquest/internal/app"
	"mathquest/internal/config"
	"mathquest/internal/infra/file"
	"mathquest/internal/infra/memory"
	pgstore "mathquest/internal/infra/postgres"
	redisstore "mathquest/internal/infra/redis"
)

// backends holds the clients opened for a command so they can be closed together.
type backends struct {
	storage app.Storage
	redis   *redis.Client
	pool    *pgxpool.Pool
}

func (b *backends) Close() {
	if b.redis != nil {
		_ = b.redis.Close()
	}
	if b.pool != nil {
		b.pool.Close()
	}
}

// loadConfig reads the YAML file. A missing file at the default location means defaults.
func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("config file not found, using defaults", "path", path)
		return config.Config{}, nil
	}
	return cfg, err
}

var newRedisClient = redis.NewClient

// openBackends connects the configured storage. Anything opened before a failure is closed
// again, so callers only own the result on success.
func openBackends(ctx context.Context, cfg config.Config) (*backends, error) {
	b := &backends{}
	if cfg.Redis.Addr != "" {
		b.redis = newRedisClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	if err := b.openStorage(ctx, cfg); err != nil {
		b.Close()
		return nil, err
	}
	slog.Info("storage ready", "backend", cfg.StorageBackend())
	return b, nil
}

func (b *backends) openStorage(ctx context.Context, cfg config.Config) error {
	switch backend := cfg.StorageBackend(); backend {
	case "memory":
		b.storage = memory.NewStorage()
	case "file":
		dir := cfg.Storage.Dir
		if dir == "" {
			dir = "data"
		}
		store, err := file.NewStorage(dir)
		if err != nil {
			return err
		}
		b.storage = store
	case "redis":
		if b.redis == nil {
			return fmt.Errorf("storage backend redis needs redis.addr")
		}
		b.storage = redisstore.NewStorage(b.redis, "")
	case "postgres":
		if cfg.Postgres.URL == "" {
			return fmt.Errorf("storage backend postgres needs postgres.url")
		}
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		b.pool = pool
		b.storage = pgstore.NewStorage(pool)
	default:
		return fmt.Errorf("unknown storage backend %q", backend)
	}
	return nil
}

func storeOptions(cfg config.Config) (app.Options, error) {
	policy, err := app.ParseCorruptPolicy(cfg.Storage.OnCorrupt)
	if err != nil {
		return app.Options{}, err
	}
	return app.Options{Logger: slog.Default(), OnCorrupt: policy, Now: time.Now}, nil
}

var errScoringUnavailable = errors.New("quiz scoring is not configured (set quiz.api_url)")
