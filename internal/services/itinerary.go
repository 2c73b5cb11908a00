package services

import (
	"cmp"
	"context"
	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/platform/obs"
	"log"
	"slices"

	"golang.org/x/sync/errgroup"
)

// Itinerary walks one vehicle's stops in sequence order, resolving each address and
// routing from the last known location. A failed stop is recorded and skipped; it
// never aborts the rest of the itinerary.
type Itinerary struct {
	geocoder Geocoder
	routes   RouteFinder
	// prefetch > 0 resolves addresses concurrently (at most prefetch at a time)
	// before the sequential routing pass.
	prefetch int
}

func NewItinerary(geocoder Geocoder, routes RouteFinder, prefetch int) *Itinerary {
	return &Itinerary{geocoder: geocoder, routes: routes, prefetch: prefetch}
}

type resolution struct {
	loc domain.ResolvedLocation
	err error
}

// Run returns exactly one SegmentResult per stop, ordered by ascending sequence
// (ties keep input order), and the vehicle's summary.
func (it *Itinerary) Run(
	ctx context.Context,
	vehicleID string,
	stops []domain.Stop,
	origin domain.ResolvedLocation,
) ([]domain.SegmentResult, domain.VehicleSummary) {
	ordered := slices.Clone(stops)
	slices.SortStableFunc(ordered, func(a, b domain.Stop) int { return cmp.Compare(a.Sequence, b.Sequence) })

	resolved := it.resolveAll(ctx, ordered)

	currentCoord := origin.Coordinates
	currentLabel := domain.OriginLabel
	totalMeters, totalSeconds := 0, 0

	segments := make([]domain.SegmentResult, 0, len(ordered))
	for i, stop := range ordered {
		seg := domain.SegmentResult{
			VehicleID:  vehicleID,
			Sequence:   stop.Sequence,
			FromLabel:  currentLabel,
			FromOrigin: i == 0,
			ToLabel:    stop.CustomerName,
		}

		res := resolved[i]
		if res == nil {
			loc, err := it.geocoder.Resolve(ctx, stop.Address)
			res = &resolution{loc: loc, err: err}
		}

		if res.err != nil {
			if !IsUnresolved(res.err) {
				log.Printf("req_id=%s vehicle=%s seq=%d resolve failed: %v", obs.RequestID(ctx), vehicleID, stop.Sequence, res.err)
			}
			seg.Note = domain.NoteAddressUnresolved
			seg.CumulativeDistanceMeters = totalMeters
			seg.CumulativeDurationSeconds = totalSeconds
			segments = append(segments, seg)

			// Keep routing from the last known coordinate under the new label.
			currentLabel = stop.CustomerName
			continue
		}

		out, ok := it.routes.Resolve(ctx, currentCoord, res.loc.Coordinates)
		if ok {
			meters, seconds := out.DistanceMeters, out.DurationSeconds
			totalMeters += meters
			totalSeconds += seconds
			seg.DistanceMeters = &meters
			seg.DurationSeconds = &seconds
		} else {
			seg.Note = domain.NoteRouteFailed
		}
		seg.CumulativeDistanceMeters = totalMeters
		seg.CumulativeDurationSeconds = totalSeconds
		segments = append(segments, seg)

		currentCoord = res.loc.Coordinates
		currentLabel = stop.CustomerName
	}

	return segments, domain.VehicleSummary{
		VehicleID:            vehicleID,
		StopCount:            len(ordered),
		TotalDistanceMeters:  totalMeters,
		TotalDurationSeconds: totalSeconds,
	}
}

// resolveAll prefetches every address when enabled. Nil entries are resolved lazily.
func (it *Itinerary) resolveAll(ctx context.Context, stops []domain.Stop) []*resolution {
	out := make([]*resolution, len(stops))
	if it.prefetch <= 0 || len(stops) < 2 {
		return out
	}

	var g errgroup.Group
	g.SetLimit(it.prefetch)
	for i, s := range stops {
		g.Go(func() error {
			loc, err := it.geocoder.Resolve(ctx, s.Address)
			out[i] = &resolution{loc: loc, err: err}
			return nil
		})
	}
	_ = g.Wait()

	return out
}
