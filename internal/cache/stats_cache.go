package cache

import (
	"context"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"

	"lungscreen/internal/model"
)

// StatsCache aggregates completed screenings by risk bucket
type StatsCache interface {
	IncrementRiskLevel(ctx context.Context, level model.RiskLevel) error
	RiskDistribution(ctx context.Context) (map[string]int64, error)
}

type redisStatsCache struct {
	client *redis.Client
}

// NewStatsCache creates a Redis-backed stats cache
func NewStatsCache(client *redis.Client) StatsCache {
	return &redisStatsCache{client: client}
}

const statsKey = "screening:stats:risk_levels"

func (c *redisStatsCache) IncrementRiskLevel(ctx context.Context, level model.RiskLevel) error {
	return c.client.HIncrBy(ctx, statsKey, string(level), 1).Err()
}

func (c *redisStatsCache) RiskDistribution(ctx context.Context) (map[string]int64, error) {
	raw, err := c.client.HGetAll(ctx, statsKey).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(raw))
	for level, count := range raw {
		n, err := strconv.ParseInt(count, 10, 64)
		if err != nil {
			continue
		}
		out[level] = n
	}
	return out, nil
}

type memoryStatsCache struct {
	mu     sync.Mutex
	counts map[string]int64
}

// NewMemoryStatsCache creates an in-process stats cache
func NewMemoryStatsCache() StatsCache {
	return &memoryStatsCache{counts: make(map[string]int64)}
}

func (c *memoryStatsCache) IncrementRiskLevel(_ context.Context, level model.RiskLevel) error {
	c.mu.Lock()
	c.counts[string(level)]++
	c.mu.Unlock()
	return nil
}

func (c *memoryStatsCache) RiskDistribution(_ context.Context) (map[string]int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int64, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out, nil
}
