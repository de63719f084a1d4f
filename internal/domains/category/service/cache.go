package service

import (
	"context"
	"fmt"
	"time"

	"marketplace-backend/pkg/cache"

	"github.com/rs/zerolog/log"
)

const (
	cacheNamespace = "categories"
	generationKey  = cacheNamespace + ":gen"
)

// readCache wraps an optional cache. Failures are logged and treated as misses.
//
// Keys embed a generation number that every mutation bumps. A read pins the
// generation before it queries Postgres, so a value fetched before a write
// commits is stored under a generation nobody reads again.
type readCache struct {
	cache cache.Cache
	ttl   time.Duration
}

// cacheView is one read's pinned generation. The zero value disables caching.
type cacheView struct {
	cache cache.Cache
	ttl   time.Duration
	gen   int64
}

func (c readCache) view(ctx context.Context) cacheView {
	if c.cache == nil {
		return cacheView{}
	}
	var gen int64
	if _, err := c.cache.Get(ctx, generationKey, &gen); err != nil {
		log.Warn().Err(err).Msg("category cache generation read failed")
		return cacheView{}
	}
	return cacheView{cache: c.cache, ttl: c.ttl, gen: gen}
}

func (v cacheView) key(parts ...interface{}) string {
	key := fmt.Sprintf("%s:g%d", cacheNamespace, v.gen)
	for _, p := range parts {
		key += fmt.Sprintf(":%v", p)
	}
	return key
}

func (v cacheView) get(ctx context.Context, key string, dest interface{}) bool {
	if v.cache == nil {
		return false
	}
	found, err := v.cache.Get(ctx, key, dest)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("category cache read failed")
		return false
	}
	return found
}

func (v cacheView) set(ctx context.Context, key string, value interface{}) {
	if v.cache == nil {
		return
	}
	if err := v.cache.Set(ctx, key, value, v.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("category cache write failed")
	}
}

// invalidate retires every cached category read. Called after each successful mutation.
func (c readCache) invalidate(ctx context.Context) {
	if c.cache == nil {
		return
	}
	gen, err := c.cache.Incr(ctx, generationKey)
	if err != nil {
		log.Warn().Err(err).Msg("category cache invalidation failed")
		return
	}
	old := cacheView{gen: gen - 1}
	if err := c.cache.DeletePattern(ctx, old.key()+":*"); err != nil {
		log.Warn().Err(err).Int64("generation", gen-1).Msg("category cache cleanup failed")
	}
}
