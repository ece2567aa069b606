package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nurpe/dealership-contracts/internal/model"
)

// DashboardCache stores dashboard snapshots in redis with a fixed
// TTL. Set replaces the entry; concurrent writers race and the last
// one wins, which is fine because snapshots are recomputable.
type DashboardCache struct {
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger
}

// New connects to redis. An empty addr disables caching (nil cache).
func New(addr string, ttl time.Duration, log zerolog.Logger) (*DashboardCache, error) {
	if addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &DashboardCache{rdb: rdb, ttl: ttl, log: log}, nil
}

func (c *DashboardCache) Get(ctx context.Context, companyID uuid.UUID) (*model.Dashboard, bool) {
	raw, err := c.rdb.Get(ctx, cacheKey(companyID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Msg("dashboard cache read failed")
		}
		return nil, false
	}

	var dashboard model.Dashboard
	if err := json.Unmarshal(raw, &dashboard); err != nil {
		c.log.Warn().Err(err).Msg("dashboard cache entry corrupt")
		return nil, false
	}
	return &dashboard, true
}

func (c *DashboardCache) Set(ctx context.Context, companyID uuid.UUID, dashboard *model.Dashboard) {
	raw, err := json.Marshal(dashboard)
	if err != nil {
		c.log.Warn().Err(err).Msg("dashboard cache marshal failed")
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(companyID), raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("dashboard cache write failed")
	}
}

func cacheKey(companyID uuid.UUID) string {
	return "dashboard:" + companyID.String()
}
