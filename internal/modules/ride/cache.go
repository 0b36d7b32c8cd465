// README: Generation-keyed Redis cache for ride listings.
package ride

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheGenKey = "rides:listing:gen"

// Cache memoizes listing results in Redis. Every mutation bumps a generation
// counter instead of enumerating keys; entries written under older generations
// are simply never read again and expire via TTL. A nil *Cache is valid and
// disables caching.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

func (c *Cache) enabled() bool {
	return c != nil && c.rdb != nil
}

func (c *Cache) Get(ctx context.Context, f Filter) ([]Ride, bool) {
	if !c.enabled() {
		return nil, false
	}
	key, err := c.entryKey(ctx, f)
	if err != nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var rs []Ride
	if err := json.Unmarshal(raw, &rs); err != nil {
		return nil, false
	}
	return rs, true
}

func (c *Cache) Set(ctx context.Context, f Filter, rs []Ride) {
	if !c.enabled() {
		return
	}
	key, err := c.entryKey(ctx, f)
	if err != nil {
		return
	}
	raw, err := json.Marshal(rs)
	if err != nil {
		return
	}
	// Best effort; a failed write just means the next read hits the store.
	c.rdb.Set(ctx, key, raw, c.ttl)
}

// Invalidate bumps the generation so all cached listings go stale at once.
func (c *Cache) Invalidate(ctx context.Context) {
	if !c.enabled() {
		return
	}
	c.rdb.Incr(ctx, cacheGenKey)
}

func (c *Cache) entryKey(ctx context.Context, f Filter) (string, error) {
	gen, err := c.rdb.Get(ctx, cacheGenKey).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	sig, err := json.Marshal(struct {
		FromGiu, GirlsOnly        *bool
		Zone, Route, Origin, Dest *int64
		From, To                  *time.Time
		Seats                     *int
	}{
		FromGiu:   f.FromGiu,
		GirlsOnly: f.GirlsOnly,
		Zone:      (*int64)(f.ZoneID),
		Route:     (*int64)(f.RouteID),
		Origin:    (*int64)(f.OriginID),
		Dest:      (*int64)(f.DestinationID),
		From:      f.DepartureFrom,
		To:        f.DepartureTo,
		Seats:     f.MinSeatsLeft,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("rides:listing:%d:%s", gen, sig), nil
}
