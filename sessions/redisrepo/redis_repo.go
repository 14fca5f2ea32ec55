package redisrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jrsteele09/clinic-console/sessions"
	"github.com/redis/go-redis/v9"
)

var _ sessions.Repo = (*RedisRepo)(nil)

// RedisRepo stores each session key as a Redis string under a shared prefix.
type RedisRepo struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// New wraps an existing client. A zero ttl keeps keys until they are removed.
func New(client redis.Cmdable, prefix string, ttl time.Duration) *RedisRepo {
	return &RedisRepo{client: client, prefix: prefix, ttl: ttl}
}

// Dial connects to the Redis server at url (redis://host:port/db) and checks it responds.
func Dial(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis not available: %w", err)
	}
	return client, nil
}

func (r *RedisRepo) key(k string) string {
	if r.prefix == "" {
		return "session:" + k
	}
	return r.prefix + ":session:" + k
}

func (r *RedisRepo) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (r *RedisRepo) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisRepo) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, r.key(k))
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
