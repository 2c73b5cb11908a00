package cache

import (
	"context"
	"database/sql"
	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/platform/obs"
	"dispatch-route-service/internal/ports"
	"errors"
	"fmt"
)

// SQLRouteCache is a SQL-backed cache for successful origin->destination routes,
// keyed by the exact coordinate text sent to the directions API.
type SQLRouteCache struct {
	DB *sql.DB
}

func NewSQLRouteCache(db *sql.DB) *SQLRouteCache {
	return &SQLRouteCache{DB: db}
}

// Fetch the cached route between two points.
func (s *SQLRouteCache) Get(
	ctx context.Context,
	origin, destination domain.Coordinates,
) (_ ports.DistanceResult, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if s.DB == nil {
		return ports.DistanceResult{}, false, errors.New("route cache: db is nil")
	}

	q := `
	SELECT distance_meters, duration_seconds
    FROM route_cache
    WHERE origin = $1
        AND destination = $2;
	`

	var r ports.DistanceResult
	err = s.DB.QueryRowContext(ctx, q, origin.String(), destination.String()).Scan(&r.DistanceMeters, &r.DurationSeconds)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.DistanceResult{}, false, nil
	}
	if err != nil {
		return ports.DistanceResult{}, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	return r, true, nil
}

// Store one route result.
func (s *SQLRouteCache) Put(
	ctx context.Context,
	origin, destination domain.Coordinates,
	r ports.DistanceResult,
) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO route_cache (origin, destination, distance_meters, duration_seconds)
    VALUES ($1, $2, $3, $4)
	ON CONFLICT (origin, destination) DO UPDATE
	SET distance_meters = EXCLUDED.distance_meters,
		duration_seconds = EXCLUDED.duration_seconds;
	`, origin.String(), destination.String(), r.DistanceMeters, r.DurationSeconds)
	if err != nil {
		return fmt.Errorf("insert route cache %s -> %s: %w", origin, destination, err)
	}

	return nil
}
