package cache

import (
	"context"
	"database/sql"
	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/platform/obs"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQLGeocodeCache is a SQL-backed cache mapping normalized addresses to resolved locations.
// Rows older than TTL are treated as misses; a zero TTL never expires.
type SQLGeocodeCache struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewSQLGeocodeCache(db *sql.DB, ttl time.Duration) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db, TTL: ttl}
}

// Fetch the cached location for one address.
func (s *SQLGeocodeCache) Get(ctx context.Context, address string) (_ domain.ResolvedLocation, _ bool, err error) {
	defer obs.Time(ctx, "geocode.cache.Get")(&err)

	if s.DB == nil {
		return domain.ResolvedLocation{}, false, errors.New("geocode cache: db is nil")
	}

	address = strings.TrimSpace(address)
	if address == "" {
		return domain.ResolvedLocation{}, false, nil
	}

	q := `
	SELECT lon, lat, display_address, updated_at
    FROM geocode_cache
    WHERE address = $1;
	`

	var loc domain.ResolvedLocation
	var updated time.Time
	err = s.DB.QueryRowContext(ctx, q, address).Scan(&loc.Lon, &loc.Lat, &loc.DisplayAddress, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ResolvedLocation{}, false, nil
	}
	if err != nil {
		return domain.ResolvedLocation{}, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}

	if s.TTL > 0 && time.Since(updated) > s.TTL {
		return domain.ResolvedLocation{}, false, nil
	}

	return loc, true, nil
}

// Store an address -> location mapping, replacing any previous entry.
func (s *SQLGeocodeCache) Put(ctx context.Context, address string, loc domain.ResolvedLocation) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	address = strings.TrimSpace(address)
	if address == "" {
		return fmt.Errorf("insert geocode cache: empty address key")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO geocode_cache (address, lon, lat, display_address, updated_at)
    VALUES ($1, $2, $3, $4, now())
	ON CONFLICT (address) DO UPDATE
	SET lon = EXCLUDED.lon,
		lat = EXCLUDED.lat,
		display_address = EXCLUDED.display_address,
		updated_at = EXCLUDED.updated_at;
	`, address, loc.Lon, loc.Lat, loc.DisplayAddress)
	if err != nil {
		return fmt.Errorf("insert geocode cache address=%q: %w", address, err)
	}

	return nil
}
