// Package cache provides the answer cache used by the ask flow: a uniform
// get/set contract over two interchangeable backends, an in-process bounded
// LRU (Memory) and a Redis store with per-entry TTL (Redis).
//
// The cache is a pure optimization. Neither backend ever surfaces an error to
// the caller: a backend failure degrades to a miss on Get and a no-op on Set.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/AGC-Technical-Team/CultureBot/internal/metrics"
)

// Cache maps a question verbatim to a previously generated answer. Keys are
// not normalized; "Foo" and "foo" are distinct entries.
type Cache interface {
	// Get returns the cached answer for question. The boolean reports a hit.
	Get(ctx context.Context, question string) (string, bool)

	// Set stores the answer for question, best effort. A repeated Set for the
	// same question refreshes its recency (Memory) or TTL (Redis).
	Set(ctx context.Context, question, answer string)
}

// Defaults for the two backends.
const (
	DefaultCapacity = 100
	DefaultTTL      = 24 * time.Hour

	// opTimeout bounds each Redis round-trip so a slow or down store never
	// stalls request handling.
	opTimeout = 2 * time.Second
)

// Options selects and configures the backend. The zero value yields an
// in-process cache with default capacity.
type Options struct {
	// UseRedis selects the Redis backend. The choice is made once at startup
	// and is not switchable at runtime.
	UseRedis bool

	// RedisAddr is the host:port of the Redis server.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Capacity is the maximum entry count for the in-process backend.
	Capacity int

	// TTL is the per-entry time-to-live for the Redis backend.
	TTL time.Duration
}

// New constructs the configured backend. If Redis is selected but cannot be
// reached at startup, New logs a warning and falls back to the in-process
// backend; it never fails.
func New(opts Options, log *slog.Logger) Cache {
	if log == nil {
		log = slog.Default()
	}
	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	if !opts.UseRedis {
		log.Info("answer cache: in-process LRU backend", "capacity", capacity)
		return NewMemory(capacity)
	}

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	r := NewRedis(opts.RedisAddr, opts.RedisPassword, opts.RedisDB, ttl)

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := r.Ping(ctx); err != nil {
		_ = r.Close()
		metrics.CacheFallbacks.Inc()
		log.Warn("answer cache: redis unreachable at startup, falling back to in-process LRU",
			"addr", opts.RedisAddr, "error", err)
		return NewMemory(capacity)
	}

	log.Info("answer cache: redis backend", "addr", opts.RedisAddr, "ttl", ttl)
	return r
}
