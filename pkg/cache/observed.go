package cache

import (
	"context"
	"time"

	"github.com/matzehuels/notionmap/pkg/observability"
)

type observed struct {
	Cache
}

// Observed reports the hits, misses and writes of c to the registered
// [observability.CacheHooks]. The key type is the key's prefix.
func Observed(c Cache) Cache {
	if _, ok := c.(observed); ok {
		return c
	}
	return observed{Cache: c}
}

func (o observed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := o.Cache.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, keyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, keyType(key))
		}
	}
	return data, ok, err
}

func (o observed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := o.Cache.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	}
	return err
}
