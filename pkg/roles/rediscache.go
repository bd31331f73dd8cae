package roles

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// DefaultSnapshotTTL is the lifetime of the shared Redis role snapshot.
const DefaultSnapshotTTL = 5 * time.Minute

const snapshotKey = "authz:roles:snapshot"

// RedisProvider decorates a Provider with a Redis-backed snapshot shared
// across application instances: one instance's fetch fills the snapshot for
// all of them, cutting backing-store load to one full fetch per TTL window
// fleet-wide. Redis trouble degrades to the underlying provider.
type RedisProvider struct {
	next  Provider
	redis *redis.Client
	ttl   time.Duration
	log   *logrus.Logger
}

// RedisProviderConfig configures a RedisProvider.
type RedisProviderConfig struct {
	Addr     string
	Password string
	DB       int

	// TTL is the snapshot lifetime. Zero means DefaultSnapshotTTL.
	TTL time.Duration

	Logger *logrus.Logger
}

// NewRedisProvider connects to Redis and wraps next with the shared snapshot.
func NewRedisProvider(next Provider, cfg RedisProviderConfig) (*RedisProvider, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if cfg.TTL <= 0 {
		cfg.TTL = DefaultSnapshotTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	return &RedisProvider{
		next:  next,
		redis: client,
		ttl:   cfg.TTL,
		log:   cfg.Logger,
	}, nil
}

// Close closes the Redis connection.
func (p *RedisProvider) Close() error {
	return p.redis.Close()
}

// FetchAllRoles serves the shared snapshot when present, otherwise fetches
// from the underlying provider and stores the result.
func (p *RedisProvider) FetchAllRoles(ctx context.Context) ([]Role, error) {
	cached, err := p.redis.Get(ctx, snapshotKey).Result()
	if err == nil {
		var result []Role
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			return result, nil
		}
		// A corrupt snapshot is replaced by the next successful fetch.
		p.log.Warn("Discarding undecodable role snapshot from Redis")
	} else if err != redis.Nil {
		p.log.WithError(err).Warn("Redis role snapshot read failed, falling through to backing store")
	}

	fetched, err := p.next.FetchAllRoles(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(fetched); err == nil {
		if err := p.redis.Set(ctx, snapshotKey, data, p.ttl).Err(); err != nil {
			p.log.WithError(err).Warn("Failed to store role snapshot in Redis")
		}
	}

	return fetched, nil
}

// Invalidate deletes the shared snapshot so every instance refetches. Call it
// alongside Catalog.Invalidate after any role mutation.
func (p *RedisProvider) Invalidate(ctx context.Context) error {
	if err := p.redis.Del(ctx, snapshotKey).Err(); err != nil {
		return fmt.Errorf("failed to delete role snapshot: %w", err)
	}
	return nil
}
