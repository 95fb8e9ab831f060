package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/genrejinn/genrejinn/internal/logger"
	"github.com/redis/go-redis/v9"
)

// ConnectOptions defines how the redis client is built and verified.
type ConnectOptions struct {
	Addr         string        // ex: "localhost:6379"
	User         string        // optional username
	Password     string        // optional password
	DB           int           // redis DB number
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	PingTimeout  time.Duration // timeout for the startup ping
}

// New builds a redis client and verifies the connection with one ping.
func New(opts ConnectOptions, log logger.Logger) (*redis.Client, error) {
	if opts.PingTimeout <= 0 {
		opts.PingTimeout = 5 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Username:     opts.User,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		PoolSize:     opts.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), opts.PingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	log.Info("connected to redis", logger.String("addr", opts.Addr))
	return client, nil
}
