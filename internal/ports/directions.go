package ports

import (
	"context"
	"dispatch-route-service/internal/domain"
)

// One route candidate as reported by the directions provider.
type DirectionsRoute struct {
	ResultCode      int
	ResultMsg       string
	DistanceMeters  int
	DurationSeconds int
}

// Contract for the directions provider.
type DirectionsAPI interface {
	// Return route candidates for a recommended-priority query between two points.
	Directions(ctx context.Context, origin, destination domain.Coordinates) ([]DirectionsRoute, error)
}
