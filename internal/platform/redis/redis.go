package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Connect builds a client for addr and pings it.
func Connect(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, fmt.Errorf("redis address is empty")
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// ConnectAddr mirrors postgres.ConnectDSN: a nil client and no-op cleanup when Redis is absent.
func ConnectAddr(ctx context.Context, addr, password string, db int, logger *slog.Logger) (*goredis.Client, func()) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(addr) == "" {
		logger.Info("REDIS_ADDR not set, instrument cache disabled")
		return nil, func() {}
	}
	client, err := Connect(ctx, addr, password, db)
	if err != nil {
		logger.Warn("failed to connect to redis, instrument cache disabled", slog.String("addr", addr), slog.String("error", err.Error()))
		return nil, func() {}
	}
	logger.Info("redis connection established", slog.String("addr", addr))
	return client, func() { _ = client.Close() }
}
