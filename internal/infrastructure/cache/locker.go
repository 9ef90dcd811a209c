package cache

import (
	"context"
	"time"
)

// Locker provides best-effort mutual exclusion for processing jobs.
// Acquire returns false when the key is already held.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}
