package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"docbase/internal/app"
)

// ProgressCache stores per-job batch progress snapshots so the API can report
// a monotonically increasing percentage while the worker runs the batch.
type ProgressCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewProgressCache(client *redisv9.Client, ttl time.Duration) *ProgressCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ProgressCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *ProgressCache) Set(ctx context.Context, jobID string, progress app.BatchProgress) error {
	payload, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("marshal batch progress failed: %w", err)
	}
	if err := c.client.Set(ctx, c.key(jobID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set batch progress failed: %w", err)
	}
	return nil
}

func (c *ProgressCache) Get(ctx context.Context, jobID string) (*app.BatchProgress, bool, error) {
	raw, err := c.client.Get(ctx, c.key(jobID)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get batch progress failed: %w", err)
	}

	var progress app.BatchProgress
	if err := json.Unmarshal([]byte(raw), &progress); err != nil {
		return nil, false, fmt.Errorf("unmarshal batch progress failed: %w", err)
	}
	return &progress, true, nil
}

func (c *ProgressCache) key(jobID string) string {
	return "batch:progress:" + jobID
}
