package main

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/healthconnect_bot/internal/app"
	"github.com/Freeeeeet/healthconnect_bot/internal/config"
	"github.com/Freeeeeet/healthconnect_bot/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// openStorage открывает бэкенд истории по конфигурации.
// Возвращаемая функция закрывает соединения.
func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Storage, func(), error) {
	noop := func() {}

	switch cfg.HistoryBackend {
	case config.BackendMemory:
		logger.Warn("History is kept in memory and will be lost on restart")
		return repository.NewMemoryStorage(), noop, nil

	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DBDSN)
		if err != nil {
			return nil, noop, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("ping postgres: %w", err)
		}

		migrator, err := app.NewMigrator(pool, cfg.MigrationsDir, logger)
		if err != nil {
			pool.Close()
			return nil, noop, err
		}
		defer migrator.Close()

		if err := migrator.Run(ctx); err != nil {
			pool.Close()
			return nil, noop, err
		}

		logger.Info("History storage: postgres")
		return repository.NewPostgresStorage(pool), pool.Close, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("ping redis: %w", err)
		}

		logger.Info("History storage: redis", zap.String("addr", cfg.RedisAddr))
		return repository.NewRedisStorage(client, ""), func() { _ = client.Close() }, nil

	default:
		storage, err := repository.NewFileStorage(cfg.HistoryDir)
		if err != nil {
			return nil, noop, fmt.Errorf("open file storage: %w", err)
		}
		logger.Info("History storage: files", zap.String("dir", cfg.HistoryDir))
		return storage, noop, nil
	}
}
