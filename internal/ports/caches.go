package ports

import (
	"context"
	"dispatch-route-service/internal/domain"
)

// Distance and travel duration between two points.
type DistanceResult struct {
	DistanceMeters  int
	DurationSeconds int
}

// Address -> location cache. Implementations must be safe for concurrent use.
type GeocodeCache interface {
	Get(ctx context.Context, address string) (domain.ResolvedLocation, bool, error)
	Put(ctx context.Context, address string, loc domain.ResolvedLocation) error
}

// Coordinate pair -> successful route cache.
type RouteCache interface {
	Get(ctx context.Context, origin, destination domain.Coordinates) (DistanceResult, bool, error)
	Put(ctx context.Context, origin, destination domain.Coordinates, r DistanceResult) error
}
