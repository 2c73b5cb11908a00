package services

import (
	"context"
	"dispatch-route-service/internal/domain"
	"fmt"
	"sync"
)

// fakeGeocoder resolves from a fixed table; unknown addresses are unresolved.
type fakeGeocoder struct {
	mu    sync.Mutex
	locs  map[string]domain.ResolvedLocation
	calls []string
}

func newFakeGeocoder(locs map[string]domain.Coordinates) *fakeGeocoder {
	g := &fakeGeocoder{locs: make(map[string]domain.ResolvedLocation, len(locs))}
	for addr, c := range locs {
		g.locs[addr] = domain.ResolvedLocation{Coordinates: c, DisplayAddress: addr}
	}
	return g
}

func (g *fakeGeocoder) Resolve(ctx context.Context, address string) (domain.ResolvedLocation, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, address)
	loc, ok := g.locs[address]
	if !ok {
		return domain.ResolvedLocation{}, fmt.Errorf("resolve %q: %w", address, domain.ErrAddressUnresolved)
	}
	return loc, nil
}

func (g *fakeGeocoder) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

type leg struct{ from, to domain.Coordinates }

// fakeRoutes answers from a table keyed by exact pair; unknown pairs fail.
type fakeRoutes struct {
	mu    sync.Mutex
	legs  map[leg]domain.RouteOutcome
	calls []leg
}

func newFakeRoutes() *fakeRoutes { return &fakeRoutes{legs: map[leg]domain.RouteOutcome{}} }

func (f *fakeRoutes) add(from, to domain.Coordinates, meters, seconds int) *fakeRoutes {
	f.legs[leg{from, to}] = domain.Success(meters, seconds)
	return f
}

func (f *fakeRoutes) Resolve(ctx context.Context, from, to domain.Coordinates) (domain.RouteOutcome, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, leg{from, to})
	out, ok := f.legs[leg{from, to}]
	return out, ok
}

func intp(v int) *int { return &v }

var (
	depot = domain.Coordinates{Lon: 126.9780, Lat: 37.5665}
	ptA   = domain.Coordinates{Lon: 127.0276, Lat: 37.4979}
	ptB   = domain.Coordinates{Lon: 127.1112, Lat: 37.3947}
	ptC   = domain.Coordinates{Lon: 127.0473, Lat: 37.2886}
	ptD   = domain.Coordinates{Lon: 126.7052, Lat: 37.4563}
)
