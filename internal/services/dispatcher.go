package services

import (
	"context"
	"dispatch-route-service/internal/domain"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Dispatcher runs one itinerary per vehicle from a shared origin.
type Dispatcher struct {
	geocoder    Geocoder
	itinerary   *Itinerary
	concurrency int
	// OnVehicleDone, when set, is called once per finished vehicle, possibly concurrently.
	OnVehicleDone func(domain.VehicleSummary)
}

// NewDispatcher runs up to concurrency vehicles at once (minimum 1).
func NewDispatcher(geocoder Geocoder, itinerary *Itinerary, concurrency int) *Dispatcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Dispatcher{geocoder: geocoder, itinerary: itinerary, concurrency: concurrency}
}

// VehicleGroup is one vehicle's stops in input order.
type VehicleGroup struct {
	ID    string
	Stops []domain.Stop
}

// GroupByVehicle partitions stops by vehicle id, ordering groups by first appearance
// and keeping input order inside each group.
func GroupByVehicle(stops []domain.Stop) []VehicleGroup {
	idx := make(map[string]int)
	var groups []VehicleGroup
	for _, s := range stops {
		i, ok := idx[s.VehicleID]
		if !ok {
			i = len(groups)
			idx[s.VehicleID] = i
			groups = append(groups, VehicleGroup{ID: s.VehicleID})
		}
		groups[i].Stops = append(groups[i].Stops, s)
	}
	return groups
}

// Run validates the input, resolves the origin once, and computes every itinerary.
//
// It fails with a *domain.ValidationError before any provider call on malformed input,
// and with domain.ErrOriginUnresolved when the origin has no candidate. Every other
// failure is recorded on the affected segment.
func (d *Dispatcher) Run(ctx context.Context, stops []domain.Stop, originAddress string) (*domain.DispatchResult, error) {
	originAddress = strings.TrimSpace(originAddress)
	in := make([]domain.Stop, len(stops))
	copy(in, stops)

	if originAddress == "" {
		return nil, &domain.ValidationError{Problems: []domain.FieldProblem{{Fields: []string{"origin"}}}}
	}
	if err := domain.ValidateStops(in); err != nil {
		return nil, err
	}

	origin, err := d.geocoder.Resolve(ctx, originAddress)
	if err != nil {
		return nil, fmt.Errorf("dispatch: %w: %q: %v", domain.ErrOriginUnresolved, originAddress, err)
	}

	groups := GroupByVehicle(in)
	type vehicleResult struct {
		segments []domain.SegmentResult
		summary  domain.VehicleSummary
	}
	results := make([]vehicleResult, len(groups))

	var g errgroup.Group
	g.SetLimit(d.concurrency)
	for i, grp := range groups {
		g.Go(func() error {
			segs, sum := d.itinerary.Run(ctx, grp.ID, grp.Stops, origin)
			results[i] = vehicleResult{segments: segs, summary: sum}
			if d.OnVehicleDone != nil {
				d.OnVehicleDone(sum)
			}
			return nil
		})
	}
	_ = g.Wait()

	out := &domain.DispatchResult{
		Origin:    origin,
		Segments:  make([]domain.SegmentResult, 0, len(in)),
		Summaries: make([]domain.VehicleSummary, 0, len(groups)),
	}
	for _, r := range results {
		out.Segments = append(out.Segments, r.segments...)
		out.Summaries = append(out.Summaries, r.summary)
	}

	return out, nil
}
