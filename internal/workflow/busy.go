// internal/workflow/busy.go
package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// BusyTracker serializes transitions per application. Acquire wins the
// lease or reports the application busy; Release frees it. The lease
// carries a TTL so a crashed holder cannot wedge an application forever.
type BusyTracker interface {
	Acquire(ctx context.Context, appID string) (bool, error)
	Release(ctx context.Context, appID string)
}

// RedisBusyTracker implements the lease with SETNX so the flag holds
// across service instances.
type RedisBusyTracker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisBusyTracker creates a tracker with the given lease TTL.
func NewRedisBusyTracker(client *redis.Client, ttl time.Duration) *RedisBusyTracker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisBusyTracker{client: client, ttl: ttl}
}

func busyKey(appID string) string {
	return fmt.Sprintf("workflow:busy:%s", appID)
}

func (t *RedisBusyTracker) Acquire(ctx context.Context, appID string) (bool, error) {
	ok, err := t.client.SetNX(ctx, busyKey(appID), "1", t.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire busy lease for %s: %w", appID, err)
	}
	return ok, nil
}

func (t *RedisBusyTracker) Release(ctx context.Context, appID string) {
	t.client.Del(ctx, busyKey(appID))
}

// MemoryBusyTracker is the single-node implementation used by tests and
// local development.
type MemoryBusyTracker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewMemoryBusyTracker creates an empty in-process tracker.
func NewMemoryBusyTracker() *MemoryBusyTracker {
	return &MemoryBusyTracker{held: make(map[string]struct{})}
}

func (t *MemoryBusyTracker) Acquire(ctx context.Context, appID string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, busy := t.held[appID]; busy {
		return false, nil
	}
	t.held[appID] = struct{}{}
	return true, nil
}

func (t *MemoryBusyTracker) Release(ctx context.Context, appID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.held, appID)
}
