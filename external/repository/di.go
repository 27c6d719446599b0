package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/foxseedlab/sprachpartner/internal/config"
	"github.com/foxseedlab/sprachpartner/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do/v2"
)

const databaseInitTimeout = 15 * time.Second

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (repository.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		ctx, cancel := context.WithTimeout(context.Background(), databaseInitTimeout)
		defer cancel()

		switch cfg.StoreDriver {
		case config.StoreDriverPostgres:
			return newPostgres(ctx, cfg.DatabaseURL)
		case config.StoreDriverSQLite:
			return NewSQLiteRepository(ctx, cfg.SQLitePath)
		case config.StoreDriverRedis:
			retention := time.Duration(cfg.StatsRetentionDays) * 24 * time.Hour
			return newRedis(ctx, cfg.RedisURL, retention)
		default:
			return NewMemoryRepository(), nil
		}
	})
}

func newPostgres(ctx context.Context, url string) (repository.Repository, error) {
	p, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := RunMigration(ctx, p); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to run migration: %w", err)
	}
	return NewPostgresRepository(p), nil
}

func newRedis(ctx context.Context, url string, retention time.Duration) (repository.Repository, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return NewRedisRepository(rdb, retention), nil
}
