package services

import (
	"context"
	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/ports"
	"log"
)

// Result codes meaning the origin or destination has no road access point.
var unreachableCodes = map[int]struct{}{104: {}, 105: {}, 106: {}}

// Prober issues a single directions query and classifies it.
type Prober interface {
	Probe(ctx context.Context, origin, destination domain.Coordinates) domain.RouteOutcome
}

// ProbeFunc adapts a function to Prober.
type ProbeFunc func(ctx context.Context, origin, destination domain.Coordinates) domain.RouteOutcome

func (f ProbeFunc) Probe(ctx context.Context, origin, destination domain.Coordinates) domain.RouteOutcome {
	return f(ctx, origin, destination)
}

// RouteProbe classifies directions replies into success, unreachable, or failure.
// Successful outcomes are cached when a cache is configured.
type RouteProbe struct {
	api   ports.DirectionsAPI
	cache ports.RouteCache
}

func NewRouteProbe(api ports.DirectionsAPI, cache ports.RouteCache) *RouteProbe {
	return &RouteProbe{api: api, cache: cache}
}

func (p *RouteProbe) Probe(ctx context.Context, origin, destination domain.Coordinates) domain.RouteOutcome {
	if p.cache != nil {
		r, ok, err := p.cache.Get(ctx, origin, destination)
		if err != nil {
			log.Printf("route cache read failed %s -> %s: %v", origin, destination, err)
		} else if ok {
			return domain.Success(r.DistanceMeters, r.DurationSeconds)
		}
	}

	routes, err := p.api.Directions(ctx, origin, destination)
	if err != nil {
		return domain.Failure()
	}

	out := Classify(routes)
	if out.OK() && p.cache != nil {
		r := ports.DistanceResult{DistanceMeters: out.DistanceMeters, DurationSeconds: out.DurationSeconds}
		if err := p.cache.Put(ctx, origin, destination, r); err != nil {
			log.Printf("route cache write failed %s -> %s: %v", origin, destination, err)
		}
	}
	return out
}

// Classify maps the first route candidate to an outcome.
// A zero distance with result code 0 is a provider anomaly and counts as failure.
func Classify(routes []ports.DirectionsRoute) domain.RouteOutcome {
	if len(routes) == 0 {
		return domain.Failure()
	}

	r := routes[0]
	if r.ResultCode != 0 {
		if _, ok := unreachableCodes[r.ResultCode]; ok {
			return domain.Unreachable(r.ResultCode)
		}
		return domain.Failure()
	}

	if r.DistanceMeters <= 0 || r.DurationSeconds < 0 {
		return domain.Failure()
	}

	return domain.Success(r.DistanceMeters, r.DurationSeconds)
}
