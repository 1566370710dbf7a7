package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/mini-threads/pkg/logger"
)

// RelationCache caches each user's followee-ID list for feed assembly.
// Cache-aside: reads fall through to the DB on miss, follow/unfollow
// invalidates the key. A nil *RelationCache disables caching entirely.
type RelationCache struct {
	cache *redis.Client
	ttl   time.Duration
}

// New returns nil when no redis client is configured, callers treat
// nil as cache-off.
func New(cache *redis.Client, ttl time.Duration) *RelationCache {
	if cache == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RelationCache{cache: cache, ttl: ttl}
}

func followeesKey(userID string) string { return fmt.Sprintf("followees:%s", userID) }

// FolloweeIDs returns the cached list; ok=false on miss or any redis error.
func (c *RelationCache) FolloweeIDs(ctx context.Context, userID string) ([]string, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.cache.Get(ctx, followeesKey(userID)).Bytes()
	if err != nil {
		return nil, false
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, false
	}
	return ids, true
}

// SetFolloweeIDs stores the list; failures only degrade to DB reads.
func (c *RelationCache) SetFolloweeIDs(ctx context.Context, userID string, ids []string) {
	if c == nil {
		return
	}
	payload, err := json.Marshal(ids)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, followeesKey(userID), payload, c.ttl).Err(); err != nil {
		logger.Debug("relation cache set failed", zap.String("user", userID), zap.Error(err))
	}
}

// Invalidate drops the follower's cached list after an edge change.
func (c *RelationCache) Invalidate(ctx context.Context, followerID string) {
	if c == nil {
		return
	}
	if err := c.cache.Del(ctx, followeesKey(followerID)).Err(); err != nil {
		logger.Debug("relation cache invalidate failed", zap.String("user", followerID), zap.Error(err))
	}
}
