package app

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Connect открывает пул соединений к PostgreSQL. Пока база не поднялась,
// подключение повторяется с экспоненциальной задержкой.
func Connect(ctx context.Context, dsn string, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DB_DSN: %w", err)
	}

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = 2 * time.Minute
	retryPolicy.MaxInterval = 15 * time.Second

	logger.Info("Connecting to PostgreSQL...")

	var pool *pgxpool.Pool
	err = backoff.RetryNotify(
		func() error {
			pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}

			if err = pool.Ping(ctx); err != nil {
				pool.Close()
				return fmt.Errorf("ping: %w", err)
			}
			return nil
		},
		backoff.WithContext(retryPolicy, ctx),
		func(err error, duration time.Duration) {
			logger.Warn("PostgreSQL connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", duration))
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect after retries: %w", err)
	}

	logger.Info("Successfully connected to PostgreSQL")
	return pool, nil
}
