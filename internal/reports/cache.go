package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores rendered reports in Redis under a per-owner version. Busting
// bumps the version instead of scanning keys, so stale entries simply expire
// with their TTL. A nil *Cache is a no-op so callers need no guards.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) Get(ctx context.Context, ownerID int64, key string) (Report, bool) {
	if c == nil || c.client == nil {
		return Report{}, false
	}
	data, err := c.client.Get(ctx, c.entryKey(ctx, ownerID, key)).Bytes()
	if err != nil {
		return Report{}, false
	}
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return Report{}, false
	}
	return report, true
}

func (c *Cache) Set(ctx context.Context, ownerID int64, key string, report Report) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		return
	}
	c.client.Set(ctx, c.entryKey(ctx, ownerID, key), data, c.ttl)
}

// Bust invalidates every cached report for the owner.
func (c *Cache) Bust(ctx context.Context, ownerID int64) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Incr(ctx, versionKey(ownerID))
}

func (c *Cache) entryKey(ctx context.Context, ownerID int64, key string) string {
	version, err := c.client.Get(ctx, versionKey(ownerID)).Int64()
	if err != nil {
		version = 0
	}
	return fmt.Sprintf("reports:%d:v%d:%s", ownerID, version, key)
}

func versionKey(ownerID int64) string {
	return fmt.Sprintf("reports:ver:%d", ownerID)
}
