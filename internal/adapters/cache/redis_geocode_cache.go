package cache

import (
	"context"
	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const geocodeKeyPrefix = "geocode:"

// RedisGeocodeCache shares resolved locations between service instances.
type RedisGeocodeCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisGeocodeCache(rdb *redis.Client, ttl time.Duration) *RedisGeocodeCache {
	return &RedisGeocodeCache{rdb: rdb, ttl: ttl}
}

// OpenRedis connects to url (redis://...) and verifies the connection.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

type cachedLocation struct {
	Lon     float64 `json:"lon"`
	Lat     float64 `json:"lat"`
	Display string  `json:"display"`
}

func (c *RedisGeocodeCache) Get(ctx context.Context, address string) (_ domain.ResolvedLocation, _ bool, err error) {
	defer obs.Time(ctx, "geocode.redis.Get")(&err)

	data, err := c.rdb.Get(ctx, geocodeKeyPrefix+address).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ResolvedLocation{}, false, nil
	}
	if err != nil {
		return domain.ResolvedLocation{}, false, fmt.Errorf("get geocode redis address=%q: %w", address, err)
	}

	var v cachedLocation
	if err := json.Unmarshal(data, &v); err != nil {
		return domain.ResolvedLocation{}, false, fmt.Errorf("decode geocode redis address=%q: %w", address, err)
	}

	return domain.ResolvedLocation{
		Coordinates:    domain.Coordinates{Lon: v.Lon, Lat: v.Lat},
		DisplayAddress: v.Display,
	}, true, nil
}

func (c *RedisGeocodeCache) Put(ctx context.Context, address string, loc domain.ResolvedLocation) error {
	data, err := json.Marshal(cachedLocation{Lon: loc.Lon, Lat: loc.Lat, Display: loc.DisplayAddress})
	if err != nil {
		return fmt.Errorf("encode geocode redis: %w", err)
	}
	if err := c.rdb.Set(ctx, geocodeKeyPrefix+address, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set geocode redis address=%q: %w", address, err)
	}
	return nil
}
