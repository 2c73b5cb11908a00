package mock

import (
	"context"
	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/ports"
	"errors"
	"sync"
)

var ErrTransport = errors.New("mock: transport error")

// Pair scripts the directions reply for one exact coordinate pair.
type Pair struct {
	From, To domain.Coordinates
	Routes   []ports.DirectionsRoute
	Err      error
}

// Directions replays scripted replies keyed by "from|to" and records every query.
// Unscripted pairs use Fallback when set, otherwise return ErrTransport.
type Directions struct {
	mu       sync.Mutex
	m        map[string]Pair
	calls    [][2]domain.Coordinates
	Fallback func(from, to domain.Coordinates) ([]ports.DirectionsRoute, error)
}

func NewDirections(pairs []Pair) *Directions {
	m := make(map[string]Pair, len(pairs))
	for _, p := range pairs {
		m[key(p.From, p.To)] = p
	}
	return &Directions{m: m}
}

func key(from, to domain.Coordinates) string { return from.String() + "|" + to.String() }

// Route is shorthand for a single successful route candidate.
func Route(meters, seconds int) []ports.DirectionsRoute {
	return []ports.DirectionsRoute{{ResultCode: 0, DistanceMeters: meters, DurationSeconds: seconds}}
}

// Code is shorthand for a single failed route candidate.
func Code(code int) []ports.DirectionsRoute {
	return []ports.DirectionsRoute{{ResultCode: code}}
}

func (d *Directions) Directions(ctx context.Context, from, to domain.Coordinates) ([]ports.DirectionsRoute, error) {
	d.mu.Lock()
	d.calls = append(d.calls, [2]domain.Coordinates{from, to})
	p, ok := d.m[key(from, to)]
	fallback := d.Fallback
	d.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ok {
		return p.Routes, p.Err
	}
	if fallback != nil {
		return fallback(from, to)
	}
	return nil, ErrTransport
}

// Calls returns the queried pairs in call order.
func (d *Directions) Calls() [][2]domain.Coordinates {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([][2]domain.Coordinates, len(d.calls))
	copy(out, d.calls)
	return out
}
