// Package cache provides the shared counter store used for rate limiting.
// Redis backs it in multi-instance deployments; the primary database is the fallback.
package cache

import (
	"context"
	"time"
)

// Store represents a shared cache interface used across the application.
type Store interface {
	// IncrementWithTTL bumps a fixed-window counter. The window starts on the
	// first increment; the remaining TTL is returned with the count.
	IncrementWithTTL(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Delete(ctx context.Context, keys ...string) error
}
