package services

import (
	"context"
	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/platform/obs"
	"dispatch-route-service/internal/ports"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/unicode/norm"
)

// Geocoder resolves a free-text address into a location.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (domain.ResolvedLocation, error)
}

// CoordinateResolver resolves addresses with a structured-address lookup first and
// a keyword/place-name lookup second. Lookup errors count as "no candidate".
//
// An optional cache is consulted before either tier; concurrent resolutions of the
// same address share one upstream call. The resolver is safe for concurrent use.
type CoordinateResolver struct {
	primary  ports.AddressLookup
	fallback ports.AddressLookup
	cache    ports.GeocodeCache
	group    singleflight.Group
}

func NewCoordinateResolver(primary, fallback ports.AddressLookup, cache ports.GeocodeCache) *CoordinateResolver {
	return &CoordinateResolver{primary: primary, fallback: fallback, cache: cache}
}

// NormalizeAddress composes Hangul to NFC and collapses whitespace so that the same
// address typed or exported differently shares one cache entry.
func NormalizeAddress(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// Resolve returns domain.ErrAddressUnresolved (wrapped) when neither tier has a candidate.
func (r *CoordinateResolver) Resolve(ctx context.Context, address string) (domain.ResolvedLocation, error) {
	query := NormalizeAddress(address)
	if query == "" {
		return domain.ResolvedLocation{}, fmt.Errorf("resolve: empty address: %w", domain.ErrAddressUnresolved)
	}

	if r.cache != nil {
		loc, ok, err := r.cache.Get(ctx, query)
		switch {
		case err != nil:
			log.Printf("geocode cache read failed address=%q: %v", query, err)
		case ok:
			obs.GeocodeCache.WithLabelValues("hit").Inc()
			return loc, nil
		default:
			obs.GeocodeCache.WithLabelValues("miss").Inc()
		}
	}

	// The shared lookup outlives any single caller; each caller only stops waiting
	// when its own context ends.
	ch := r.group.DoChan(query, func() (any, error) {
		return r.lookup(context.WithoutCancel(ctx), query)
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return domain.ResolvedLocation{}, fmt.Errorf("resolve %q: %w", query, ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		return domain.ResolvedLocation{}, res.Err
	}
	loc := res.Val.(domain.ResolvedLocation)

	if r.cache != nil {
		if err := r.cache.Put(ctx, query, loc); err != nil {
			log.Printf("geocode cache write failed address=%q: %v", query, err)
		}
	}

	return loc, nil
}

func (r *CoordinateResolver) lookup(ctx context.Context, query string) (domain.ResolvedLocation, error) {
	for _, tier := range []struct {
		name   string
		lookup ports.AddressLookup
	}{
		{"address", r.primary},
		{"keyword", r.fallback},
	} {
		if tier.lookup == nil {
			continue
		}

		candidates, err := tier.lookup.Lookup(ctx, query)
		if err != nil {
			log.Printf("req_id=%s geocode tier=%s address=%q failed: %v", obs.RequestID(ctx), tier.name, query, err)
			continue
		}
		if len(candidates) == 0 {
			continue
		}

		return pickCandidate(candidates[0], query), nil
	}

	return domain.ResolvedLocation{}, fmt.Errorf("resolve %q: %w", query, domain.ErrAddressUnresolved)
}

// Prefer the road-address form, then the general address, then the query itself.
func pickCandidate(c ports.AddressCandidate, query string) domain.ResolvedLocation {
	display := c.RoadAddress
	if display == "" {
		display = c.Address
	}
	if display == "" {
		display = query
	}
	return domain.ResolvedLocation{Coordinates: c.Coordinates, DisplayAddress: display}
}

// IsUnresolved reports whether err is an ordinary "no candidate" outcome.
func IsUnresolved(err error) bool { return errors.Is(err, domain.ErrAddressUnresolved) }
