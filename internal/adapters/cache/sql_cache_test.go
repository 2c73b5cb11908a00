package cache

import (
	"context"
	"database/sql"
	"dispatch-route-service/internal/adapters/repositories"
	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/platform/db"
	"dispatch-route-service/internal/ports"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to the Postgres named by DATABASE_URL and applies the schema.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set; skipping postgres test")
	}

	conn, err := db.Open(databaseURL)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, repositories.InitSchema(conn))
	return conn
}

func TestSQLGeocodeCacheRoundTrip(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	c := NewSQLGeocodeCache(conn, time.Hour)

	address := "서울 중구 세종대로 110 " + uuid.NewString()
	t.Cleanup(func() { _, _ = conn.Exec(`DELETE FROM geocode_cache WHERE address = $1`, address) })

	_, ok, err := c.Get(ctx, address)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, address, cityHall))
	got, ok, err := c.Get(ctx, address)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, cityHall, got)
	assert.Equal(t, cityHall.Lon, got.Lon)

	moved := domain.ResolvedLocation{
		Coordinates:    domain.Coordinates{Lon: 127.0276, Lat: 37.4979},
		DisplayAddress: "서울 강남구 테헤란로 152",
	}
	require.NoError(t, c.Put(ctx, address, moved))
	got, ok, err = c.Get(ctx, address)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, moved, got)

	// Rows older than the TTL read as misses.
	_, err = conn.Exec(`UPDATE geocode_cache SET updated_at = now() - interval '2 hours' WHERE address = $1`, address)
	require.NoError(t, err)
	_, ok, err = c.Get(ctx, address)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = NewSQLGeocodeCache(conn, 0).Get(ctx, address)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSQLRouteCacheRoundTrip(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	c := NewSQLRouteCache(conn)

	// Unique per run so parallel runs against one database do not collide.
	from := domain.Coordinates{Lon: 126.978, Lat: float64(time.Now().UnixNano()%1_000_000) / 1e7}
	to := domain.Coordinates{Lon: 127.0276, Lat: 37.4979}
	t.Cleanup(func() {
		_, _ = conn.Exec(`DELETE FROM route_cache WHERE origin = $1 AND destination = $2`, from.String(), to.String())
	})

	_, ok, err := c.Get(ctx, from, to)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, from, to, ports.DistanceResult{DistanceMeters: 12400, DurationSeconds: 1500}))
	require.NoError(t, c.Put(ctx, from, to, ports.DistanceResult{DistanceMeters: 12600, DurationSeconds: 1560}))

	got, ok, err := c.Get(ctx, from, to)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ports.DistanceResult{DistanceMeters: 12600, DurationSeconds: 1560}, got)

	_, ok, err = c.Get(ctx, to, from)
	require.NoError(t, err)
	assert.False(t, ok)
}
