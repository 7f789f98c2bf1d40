package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AGC-Technical-Team/CultureBot/internal/metrics"
)

// KeyPrefix namespaces answer entries so they cannot collide with unrelated
// data in a shared Redis instance.
const KeyPrefix = "culturebot:qa:"

// Redis is an answer cache backed by a Redis server. Entries are written with
// a TTL and every operation fails soft: when Redis is unreachable Get reports
// a miss and Set silently discards the write.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedis creates a Redis-backed cache. Entries expire after ttl.
func NewRedis(addr, password string, db int, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Redis{rdb: rdb, ttl: ttl}
}

// Get returns the cached answer for question. Misses, expired entries, and
// connection failures all report (_, false); each operation is bounded by its
// own short timeout.
func (r *Redis) Get(ctx context.Context, question string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	val, err := r.rdb.Get(ctx, KeyPrefix+question).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheOperations.WithLabelValues("redis", "get", "miss").Inc()
		} else {
			metrics.CacheOperations.WithLabelValues("redis", "get", "error").Inc()
		}
		return "", false
	}
	metrics.CacheOperations.WithLabelValues("redis", "get", "hit").Inc()
	return val, true
}

// Set stores the answer for question with the configured TTL. A repeated Set
// refreshes the TTL. Errors are discarded; a cache write failure must never
// fail the user-visible request.
func (r *Redis) Set(ctx context.Context, question, answer string) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := r.rdb.Set(ctx, KeyPrefix+question, answer, r.ttl).Err(); err != nil {
		metrics.CacheOperations.WithLabelValues("redis", "set", "error").Inc()
		return
	}
	metrics.CacheOperations.WithLabelValues("redis", "set", "ok").Inc()
}

// Ping checks the Redis connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

// Close closes the underlying Redis client.
func (r *Redis) Close() error {
	return r.rdb.Close()
}
