package ports

import (
	"context"
	"dispatch-route-service/internal/domain"
)

// One geocoding candidate. RoadAddress and Address may be empty.
type AddressCandidate struct {
	Coordinates domain.Coordinates
	RoadAddress string
	Address     string
}

// Contract for one address search endpoint (structured address or keyword/place name).
type AddressLookup interface {
	// Return candidates in provider order; an empty slice means no match.
	Lookup(ctx context.Context, query string) ([]AddressCandidate, error)
}
