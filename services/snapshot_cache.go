package services

import (
	"EmotionTrackerGo/models"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/goccy/go-json"
)

const snapshotKeyPrefix = "dashboard_summary:"

// SnapshotCache holds the latest dashboard summary per user for the report.
type SnapshotCache interface {
	SetLatest(ctx context.Context, userID string, entries []models.SummaryEntry) error
	Latest(ctx context.Context, userID string) ([]models.SummaryEntry, bool, error)
}

// RedisSnapshotCache stores the latest summary as JSON under dashboard_summary:<uid>.
type RedisSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSnapshotCache(client *redis.Client, ttl time.Duration) *RedisSnapshotCache {
	return &RedisSnapshotCache{client: client, ttl: ttl}
}

func (c *RedisSnapshotCache) SetLatest(ctx context.Context, userID string, entries []models.SummaryEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := c.client.Set(ctx, snapshotKeyPrefix+userID, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache summary: %w", err)
	}
	return nil
}

// Latest reports found=false when nothing was cached for the user.
func (c *RedisSnapshotCache) Latest(ctx context.Context, userID string) ([]models.SummaryEntry, bool, error) {
	data, err := c.client.Get(ctx, snapshotKeyPrefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cached summary: %w", err)
	}
	var entries []models.SummaryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false, fmt.Errorf("decode cached summary: %w", err)
	}
	return entries, true, nil
}
