// Package redis caches computed inventory snapshots with a TTL.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"lifeline/internal/inventory/models"
	platformredis "lifeline/internal/platform/redis"
)

// Cache implements ports.SnapshotCache over Redis. Snapshots are stored as
// JSON under the caller's key.
type Cache struct {
	client *platformredis.Client
}

// New constructs a Redis-backed snapshot cache.
func New(client *platformredis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Get(ctx context.Context, key string) (*models.Snapshot, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		// A corrupt entry is a miss; the next Set overwrites it.
		return nil, nil
	}
	return &snapshot, nil
}

func (c *Cache) Set(ctx context.Context, key string, snapshot *models.Snapshot, ttl time.Duration) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}
