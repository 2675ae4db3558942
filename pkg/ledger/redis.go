package ledger

import (
	"fmt"

	"github.com/go-redis/redis"

	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/config"
)

// RedisKV persists ledger state in Redis
type RedisKV struct {
	client *redis.Client
}

// NewRedisKV connects to Redis and verifies the connection
func NewRedisKV(cfg *config.RedisConfig) (*RedisKV, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping().Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisKV{client: client}, nil
}

func (r *RedisKV) Get(key string) (string, error) {
	value, err := r.client.Get(key).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return value, nil
}

func (r *RedisKV) Set(key, value string) error {
	if err := r.client.Set(key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisKV) Remove(key string) error {
	if err := r.client.Del(key).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (r *RedisKV) Close() error {
	return r.client.Close()
}
