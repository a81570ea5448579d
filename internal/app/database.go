package app

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ConnectDB создаёт пул соединений и ждёт, пока база ответит на ping.
// Повторяет попытки с экспоненциальной задержкой не дольше timeout.
func ConnectDB(ctx context.Context, dsn string, timeout time.Duration, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse db dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}

	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = 500 * time.Millisecond
	retry.MaxElapsedTime = timeout

	ping := func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return pool.Ping(pingCtx)
	}
	notify := func(err error, wait time.Duration) {
		logger.Warn("Database is not ready, retrying", zap.Error(err), zap.Duration("wait", wait))
	}

	if err := backoff.RetryNotify(ping, backoff.WithContext(retry, ctx), notify); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	logger.Info("✅ Connected to database",
		zap.String("host", poolCfg.ConnConfig.Host),
		zap.String("database", poolCfg.ConnConfig.Database),
	)
	return pool, nil
}
