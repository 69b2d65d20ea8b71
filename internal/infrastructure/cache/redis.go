package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"go-care-scheduling/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// NewRedisClient connects and pings Redis. The client backs the caregiver reservation
// lock and the token revocation list.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}
	if cfg.Timeout > 0 {
		opts.DialTimeout = cfg.Timeout
		opts.ReadTimeout = cfg.Timeout
		opts.WriteTimeout = cfg.Timeout
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout(cfg))
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis at %s: %w", opts.Addr, err)
	}

	logrus.WithFields(logrus.Fields{"addr": opts.Addr, "db": cfg.DB}).Info("Successfully connected to Redis")

	return client, nil
}

func pingTimeout(cfg config.RedisConfig) time.Duration {
	if cfg.Timeout > 0 {
		return 2 * cfg.Timeout
	}
	return 5 * time.Second
}
