package services

import (
	"context"
	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/platform/obs"
	"log"
	"slices"
)

// DefaultSameSiteMeters is the great-circle distance below which two points count as one site.
const DefaultSameSiteMeters = 100.0

// RouteFinder computes the route between two points or reports that none was found.
type RouteFinder interface {
	Resolve(ctx context.Context, origin, destination domain.Coordinates) (domain.RouteOutcome, bool)
}

// RouteResolver wraps a Prober with a deterministic local search: when the provider
// reports an unreachable endpoint it retries with coordinates nudged by each offset in
// order. Endpoints never move further than the largest offset.
type RouteResolver struct {
	probe          Prober
	offsets        []domain.Offset
	sameSiteMeters float64
}

// NewRouteResolver copies offsets; an empty list disables the retry loop.
// A non-positive sameSiteMeters uses DefaultSameSiteMeters.
func NewRouteResolver(probe Prober, offsets []domain.Offset, sameSiteMeters float64) *RouteResolver {
	if sameSiteMeters <= 0 {
		sameSiteMeters = DefaultSameSiteMeters
	}
	return &RouteResolver{
		probe:          probe,
		offsets:        slices.Clone(offsets),
		sameSiteMeters: sameSiteMeters,
	}
}

// Resolve returns a successful outcome, or false when the route could not be computed.
func (r *RouteResolver) Resolve(ctx context.Context, origin, destination domain.Coordinates) (domain.RouteOutcome, bool) {
	// Same-site stops skip the provider, which rejects near-coincident endpoints.
	if origin.DistanceMeters(destination) < r.sameSiteMeters {
		return domain.Success(0, 0), true
	}

	first := r.probe.Probe(ctx, origin, destination)
	switch first.Status {
	case domain.RouteSuccess:
		return first, true
	case domain.RouteFailure:
		return domain.RouteOutcome{}, false
	}

	log.Printf("req_id=%s route unreachable code=%d %s -> %s, retrying nearby coordinates",
		obs.RequestID(ctx), first.Code, origin, destination)

	for i, a := range RetryPlan(origin, destination, r.offsets) {
		if ctx.Err() != nil {
			break
		}
		out := r.probe.Probe(ctx, a.Origin, a.Destination)
		if out.OK() {
			obs.RouteRetries.WithLabelValues("recovered").Inc()
			log.Printf("req_id=%s route recovered attempt=%d %s -> %s", obs.RequestID(ctx), i+1, a.Origin, a.Destination)
			return out, true
		}
	}

	obs.RouteRetries.WithLabelValues("exhausted").Inc()
	return domain.RouteOutcome{}, false
}
