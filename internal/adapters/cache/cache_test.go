package cache

import (
	"context"
	"dispatch-route-service/internal/domain"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cityHall = domain.ResolvedLocation{
	Coordinates:    domain.Coordinates{Lon: 126.978, Lat: 37.5665},
	DisplayAddress: "서울 중구 세종대로 110",
}

func TestMemoryGeocodeCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryGeocodeCache(2, time.Hour)

	_, ok, err := c.Get(ctx, "서울 중구 세종대로 110")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, "a", cityHall))
	require.NoError(t, c.Put(ctx, "b", cityHall))
	require.NoError(t, c.Put(ctx, "c", cityHall))

	assert.Equal(t, 2, c.Len())
	_, ok, _ = c.Get(ctx, "a")
	assert.False(t, ok, "oldest entry should be evicted")

	got, ok, err := c.Get(ctx, "c")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, cityHall, got)
}

func TestRedisGeocodeCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	c := NewRedisGeocodeCache(rdb, time.Minute)

	_, ok, err := c.Get(ctx, "세종대로 110")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, "세종대로 110", cityHall))
	assert.True(t, mr.Exists("geocode:세종대로 110"))

	got, ok, err := c.Get(ctx, "세종대로 110")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, cityHall, got)

	mr.FastForward(2 * time.Minute)
	_, ok, err = c.Get(ctx, "세종대로 110")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisGeocodeCacheCorruptEntry(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	require.NoError(t, mr.Set("geocode:x", "not json"))

	_, ok, err := NewRedisGeocodeCache(rdb, 0).Get(context.Background(), "x")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestOpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := OpenRedis(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	_ = rdb.Close()

	_, err = OpenRedis(context.Background(), "://bad")
	assert.Error(t, err)
}

func TestSQLCachesRequireDB(t *testing.T) {
	ctx := context.Background()

	_, _, err := NewSQLGeocodeCache(nil, time.Hour).Get(ctx, "a")
	assert.Error(t, err)
	assert.Error(t, NewSQLGeocodeCache(nil, 0).Put(ctx, "a", cityHall))

	_, _, err = NewSQLRouteCache(nil).Get(ctx, cityHall.Coordinates, cityHall.Coordinates)
	assert.Error(t, err)
}
