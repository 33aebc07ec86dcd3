package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shelfwise/backend-go/internal/config"
	"github.com/shelfwise/backend-go/internal/domain"
)

const (
	cleanupReportKeyPrefix = "cleanup:report"
	reportScanBatchSize    = 100
)

// CleanupReportCache caches the per-user cleanup report between scans. A
// resolve or rescan invalidates the entry, so a report is never served
// after the issues it summarizes have changed.
type CleanupReportCache interface {
	GetReport(ctx context.Context, userID string) (*domain.CleanupReport, bool, error)
	SetReport(ctx context.Context, userID string, report *domain.CleanupReport) error
	InvalidateReport(ctx context.Context, userID string) error
	InvalidateAll(ctx context.Context) error
}

type redisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopReportCache struct{}

func NewCleanupReportCache(cfg config.CacheConfig) (CleanupReportCache, error) {
	if !cfg.Enabled {
		return &noopReportCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisReportCache{client: client, ttl: ttl}, nil
}

func NewNoopCleanupReportCache() CleanupReportCache {
	return &noopReportCache{}
}

func (c *redisReportCache) GetReport(ctx context.Context, userID string) (*domain.CleanupReport, bool, error) {
	payload, err := c.client.Get(ctx, buildReportKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var report domain.CleanupReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, false, fmt.Errorf("decode cleanup report cache: %w", err)
	}
	return &report, true, nil
}

func (c *redisReportCache) SetReport(ctx context.Context, userID string, report *domain.CleanupReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode cleanup report cache: %w", err)
	}

	if err := c.client.Set(ctx, buildReportKey(userID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisReportCache) InvalidateReport(ctx context.Context, userID string) error {
	return c.client.Del(ctx, buildReportKey(userID)).Err()
}

func (c *redisReportCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, cleanupReportKeyPrefix, reportScanBatchSize)
}

func (n *noopReportCache) GetReport(ctx context.Context, userID string) (*domain.CleanupReport, bool, error) {
	return nil, false, nil
}

func (n *noopReportCache) SetReport(ctx context.Context, userID string, report *domain.CleanupReport) error {
	return nil
}

func (n *noopReportCache) InvalidateReport(ctx context.Context, userID string) error {
	return nil
}

func (n *noopReportCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildReportKey(userID string) string {
	return fmt.Sprintf("%s:%s", cleanupReportKeyPrefix, userID)
}
