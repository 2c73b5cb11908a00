package cache

import (
	"context"
	"dispatch-route-service/internal/domain"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultMemoryEntries bounds the in-process geocode cache.
const DefaultMemoryEntries = 10_000

// MemoryGeocodeCache keeps resolved locations in a bounded in-process LRU with TTL.
type MemoryGeocodeCache struct {
	lru *expirable.LRU[string, domain.ResolvedLocation]
}

// NewMemoryGeocodeCache holds at most size entries for ttl each (0 means no expiry).
func NewMemoryGeocodeCache(size int, ttl time.Duration) *MemoryGeocodeCache {
	if size <= 0 {
		size = DefaultMemoryEntries
	}
	return &MemoryGeocodeCache{lru: expirable.NewLRU[string, domain.ResolvedLocation](size, nil, ttl)}
}

func (m *MemoryGeocodeCache) Get(_ context.Context, address string) (domain.ResolvedLocation, bool, error) {
	loc, ok := m.lru.Get(address)
	return loc, ok, nil
}

func (m *MemoryGeocodeCache) Put(_ context.Context, address string, loc domain.ResolvedLocation) error {
	m.lru.Add(address, loc)
	return nil
}

func (m *MemoryGeocodeCache) Len() int { return m.lru.Len() }
