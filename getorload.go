package tickcache

import (
	"context"
	"fmt"
	"time"
)

// Loader fetches the value for a key that was missing from the cache.
type Loader[V any] func(ctx context.Context) (V, error)

// GetOrLoad returns the cached value for key, loading it via loader on
// a miss. Concurrent calls for the same missing key are coalesced: the
// loader runs exactly once and every waiter observes the same result,
// guarding against a thundering herd on a cold key.
//
// On a successful load the value is stored with the given ttl; a
// failure to store (e.g. an invalid ttl) does not fail the load. ctx
// cancellation is honored while waiting on a coalesced in-flight call.
func (c *Cache[K, V]) GetOrLoad(ctx context.Context, key K, ttl time.Duration, loader Loader[V]) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	resCh := c.sf.DoChan(fmt.Sprint(key), func() (interface{}, error) {
		v, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		c.Set(key, v, ttl)
		return v, nil
	})

	select {
	case r := <-resCh:
		if r.Err != nil {
			var zero V
			return zero, r.Err
		}
		return r.Val.(V), nil
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}
