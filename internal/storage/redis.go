package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "myquest:session:"

// RedisStorage keeps sessions in Redis, expiring them with the key TTL.
type RedisStorage struct {
	client *redis.Client
}

// RedisOptions holds the connection settings for NewRedisClient.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewRedisStorage creates a new RedisStorage.
func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client}
}

// Get retrieves the encoded session for a given session ID.
func (s *RedisStorage) Get(ctx context.Context, id string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get session: %w", err)
	}
	return data, true, nil
}

// Save stores the encoded session for a given session ID until ttl elapses.
func (s *RedisStorage) Save(ctx context.Context, id string, data []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, sessionKeyPrefix+id, data, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete removes the session for a given session ID.
func (s *RedisStorage) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
