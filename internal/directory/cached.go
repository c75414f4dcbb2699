package directory

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/gratia-app/backend/internal/cache"
	"github.com/gratia-app/backend/internal/logger"
)

const (
	validityKeyPrefix = "gratia:directory:valid:"
	defaultValidTTL   = 5 * time.Minute
)

// Cached decorates a Directory with a Redis validity cache. Only the
// yes/no validity lookups are cached; prefix search always goes to the
// underlying directory, since suggestion staleness is user-visible.
//
// Cache failures are logged and fall through to the inner directory:
// rendering must keep working when Redis is down.
type Cached struct {
	inner Directory
	redis *cache.Client
	ttl   time.Duration
}

// NewCached wraps inner with a validity cache. A zero ttl selects the
// default.
func NewCached(inner Directory, redis *cache.Client, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = defaultValidTTL
	}
	return &Cached{inner: inner, redis: redis, ttl: ttl}
}

func (c *Cached) IsValid(ctx context.Context, username string) (bool, error) {
	key := validityKeyPrefix + username
	if val, err := c.redis.Get(ctx, key); err == nil {
		return val == "1", nil
	} else if !cache.IsMiss(err) {
		logger.Log.Warn("directory cache read failed", zap.Error(err))
	}

	valid, err := c.inner.IsValid(ctx, username)
	if err != nil {
		return false, err
	}
	c.store(ctx, key, valid)
	return valid, nil
}

func (c *Cached) ValidSet(ctx context.Context, usernames []string) (map[string]bool, error) {
	valid := make(map[string]bool)
	if len(usernames) == 0 {
		return valid, nil
	}

	keys := make([]string, len(usernames))
	for i, u := range usernames {
		keys[i] = validityKeyPrefix + u
	}

	var misses []string
	vals, err := c.redis.MGet(ctx, keys...)
	if err != nil {
		logger.Log.Warn("directory cache read failed", zap.Error(err))
		misses = usernames
	} else {
		for i, v := range vals {
			switch v {
			case "1":
				valid[usernames[i]] = true
			case "0":
				// known invalid, skip
			default:
				misses = append(misses, usernames[i])
			}
		}
	}

	if len(misses) > 0 {
		fresh, err := c.inner.ValidSet(ctx, misses)
		if err != nil {
			return nil, err
		}
		for _, u := range misses {
			c.store(ctx, validityKeyPrefix+u, fresh[u])
			if fresh[u] {
				valid[u] = true
			}
		}
	}
	return valid, nil
}

func (c *Cached) Search(ctx context.Context, prefix string, limit int) ([]string, error) {
	return c.inner.Search(ctx, prefix, limit)
}

// Invalidate drops cached validity for a username, for account deletion
// and rename paths.
func (c *Cached) Invalidate(ctx context.Context, username string) {
	if err := c.redis.Del(ctx, validityKeyPrefix+username); err != nil {
		logger.Log.Warn("directory cache invalidation failed",
			zap.String("username", username), zap.Error(err))
	}
}

func (c *Cached) store(ctx context.Context, key string, valid bool) {
	val := "0"
	if valid {
		val = "1"
	}
	if err := c.redis.SetEx(ctx, key, val, c.ttl); err != nil {
		logger.Log.Warn("directory cache write failed", zap.Error(err))
	}
}
