package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client

// InitRedis connects the shared redis client used for login rate limiting
// and API usage counters. Callers may treat a failure as non-fatal.
func InitRedis(cfg Config) error {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return err
	}

	Redis = client
	return nil
}
