// Package cache stores canonical analysis records keyed by id so a
// session can fetch recommendations without re-running the analyzer.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/domain"
)

// Redis is an AnalysisCache backed by a redis instance. Records expire
// after the configured TTL.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis builds a Redis cache from a redis URL (redis://host:port/db).
func NewRedis(url string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("op=cache.redis: parse url: %w", err)
	}
	return &Redis{client: redis.NewClient(opts), ttl: ttl}, nil
}

func analysisKey(id string) string { return "analysis:" + id }

// Put stores the analysis as JSON under analysis:<id>.
func (r *Redis) Put(ctx domain.Context, a domain.Analysis) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("op=cache.put: marshal: %w", err)
	}
	if err := r.client.Set(ctx, analysisKey(a.ID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("op=cache.put: %w", err)
	}
	return nil
}

// Get loads an analysis by id. A missing or expired record yields
// domain.ErrNotFound.
func (r *Redis) Get(ctx domain.Context, id string) (domain.Analysis, error) {
	raw, err := r.client.Get(ctx, analysisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Analysis{}, fmt.Errorf("%w: analysis %q", domain.ErrNotFound, id)
	}
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("op=cache.get: %w", err)
	}
	var a domain.Analysis
	if err := json.Unmarshal(raw, &a); err != nil {
		return domain.Analysis{}, fmt.Errorf("op=cache.get: unmarshal: %w", err)
	}
	return a, nil
}

// Ping checks redis connectivity for readiness probes.
func (r *Redis) Ping(ctx domain.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("op=cache.ping: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (r *Redis) Close() error { return r.client.Close() }
