package geocode

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fleetlog/hos-logbook/internal/domain"
	"github.com/fleetlog/hos-logbook/internal/geo"
)

const (
	cacheKeyPrefix = "geocode:"
	missMarker     = "-"
)

// RedisCache stores the answers of another Geocoder in Redis, misses included,
// for ttl. Redis failures are logged and the lookup falls through to next.
type RedisCache struct {
	client redis.Cmdable
	next   Geocoder
	ttl    time.Duration
}

// NewRedisCache wraps next with a Redis-backed cache.
func NewRedisCache(client redis.Cmdable, next Geocoder, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, next: next, ttl: ttl}
}

// Geocode implements Geocoder.
func (c *RedisCache) Geocode(ctx context.Context, query string) (domain.Coordinate, bool, error) {
	key := cacheKeyPrefix + Normalize(query)

	val, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		if val == missMarker {
			return domain.Coordinate{}, false, nil
		}
		if coord, ok := geo.ParseCoordinates(val); ok {
			return coord, true, nil
		}
		slog.WarnContext(ctx, "geocode cache: discarding malformed entry", "key", key, "value", val)
	case !errors.Is(err, redis.Nil):
		slog.WarnContext(ctx, "geocode cache: get failed", "key", key, "error", err)
	}

	coord, ok, err := c.next.Geocode(ctx, query)
	if err != nil {
		return domain.Coordinate{}, false, err
	}

	entry := missMarker
	if ok {
		entry = strconv.FormatFloat(coord.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(coord.Lng, 'f', -1, 64)
	}
	if err := c.client.Set(ctx, key, entry, c.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "geocode cache: set failed", "key", key, "error", err)
	}
	return coord, ok, nil
}
