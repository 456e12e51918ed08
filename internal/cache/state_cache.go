package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"doc-checker-be/internal/dto"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// StateCache is a read-through cache for the per-user state snapshot served
// by the reconciliation endpoint. It only ever holds full snapshots, never
// deltas, so a stale hit is corrected by the next invalidation. All methods
// are nil-safe: without Redis every call degrades to a miss.
type StateCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStateCache(rdb *redis.Client) *StateCache {
	return &StateCache{
		rdb: rdb,
		ttl: 30 * time.Second,
	}
}

func stateKey(userId uuid.UUID) string {
	return fmt.Sprintf("state:%s", userId)
}

func (c *StateCache) Get(ctx context.Context, userId uuid.UUID) (*dto.StateResponse, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, stateKey(userId)).Bytes()
	if err != nil {
		return nil, false
	}
	var state dto.StateResponse
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, false
	}
	return &state, true
}

func (c *StateCache) Set(ctx context.Context, userId uuid.UUID, state *dto.StateResponse) {
	if c == nil || c.rdb == nil || state == nil {
		return
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, stateKey(userId), raw, c.ttl)
}

// Invalidate drops the snapshot after any write that changes what the next
// reconciliation should see (upload, analysis completion, conflict
// resolution, document deletion).
func (c *StateCache) Invalidate(ctx context.Context, userId uuid.UUID) {
	if c == nil || c.rdb == nil {
		return
	}
	c.rdb.Del(ctx, stateKey(userId))
}
