package mock

import (
	"context"
	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/ports"
	"hash/fnv"
	"math"
	"strings"
)

// Offline is a deterministic provider for local runs without a Kakao key.
// Every non-empty address maps to a stable point within ~20 km of Seoul City Hall;
// routes are the great-circle distance times 1.3 driven at 40 km/h.
type Offline struct{}

var seoulCityHall = domain.Coordinates{Lon: 126.9779, Lat: 37.5663}

func (Offline) Lookup(ctx context.Context, query string) ([]ports.AddressCandidate, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, nil
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(q))
	sum := h.Sum64()

	dlon := (float64(sum&0xffff)/0xffff - 0.5) * 0.4
	dlat := (float64((sum>>16)&0xffff)/0xffff - 0.5) * 0.3

	return []ports.AddressCandidate{{
		Coordinates: seoulCityHall.Shift(domain.Offset{DLon: dlon, DLat: dlat}),
		RoadAddress: q,
	}}, nil
}

func (Offline) Directions(ctx context.Context, from, to domain.Coordinates) ([]ports.DirectionsRoute, error) {
	meters := int(math.Round(from.DistanceMeters(to) * 1.3))
	seconds := int(math.Round(float64(meters) / (40_000.0 / 3600.0)))
	return Route(meters, seconds), nil
}
