// Package app assembles the dispatch engine from configuration. It is shared by the
// HTTP server and the CLI so both run exactly the same stack.
package app

import (
	"context"
	"database/sql"
	"dispatch-route-service/internal/adapters/cache"
	"dispatch-route-service/internal/adapters/kakao"
	"dispatch-route-service/internal/adapters/mock"
	"dispatch-route-service/internal/adapters/repositories"
	"dispatch-route-service/internal/config"
	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/platform/db"
	"dispatch-route-service/internal/ports"
	"dispatch-route-service/internal/services"
	"errors"
	"fmt"
	"log"
)

// Addresses resolved concurrently per vehicle when prefetching is enabled.
const prefetchWorkers = 4

// App holds the wired engine and the resources it owns.
type App struct {
	Config     *config.Config
	Geocoder   *services.CoordinateResolver
	Dispatcher *services.Dispatcher
	Runs       ports.RunRepository

	closers []func() error
}

// New wires providers, caches and repositories according to cfg.
//
// Provider: Kakao, or the deterministic offline mock.
// Geocode cache: Redis when REDIS_URL is set, else Postgres when DATABASE_URL is set,
// else an in-process LRU. Route cache and run history use Postgres when available.
func New(ctx context.Context, cfg *config.Config) (_ *App, err error) {
	a := &App{Config: cfg}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	primary, fallback, directions, err := providers(cfg)
	if err != nil {
		return nil, err
	}

	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		if sqlDB, err = db.Open(cfg.DatabaseURL); err != nil {
			return nil, err
		}
		a.closers = append(a.closers, sqlDB.Close)
		if err := repositories.InitSchema(sqlDB); err != nil {
			return nil, err
		}
	}

	var geocodeCache ports.GeocodeCache
	switch {
	case cfg.RedisURL != "":
		rdb, err := cache.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rdb.Close)
		geocodeCache = cache.NewRedisGeocodeCache(rdb, cfg.GeocodeCacheTTL)
		log.Printf("geocode cache=redis ttl=%s", cfg.GeocodeCacheTTL)
	case sqlDB != nil:
		geocodeCache = cache.NewSQLGeocodeCache(sqlDB, cfg.GeocodeCacheTTL)
		log.Printf("geocode cache=postgres ttl=%s", cfg.GeocodeCacheTTL)
	default:
		geocodeCache = cache.NewMemoryGeocodeCache(cache.DefaultMemoryEntries, cfg.GeocodeCacheTTL)
		log.Printf("geocode cache=memory ttl=%s", cfg.GeocodeCacheTTL)
	}

	var routeCache ports.RouteCache
	if sqlDB != nil {
		routeCache = cache.NewSQLRouteCache(sqlDB)
		a.Runs = repositories.NewSQLRunRepository(sqlDB)
	} else {
		a.Runs = repositories.NewMemoryRunRepository()
	}

	offsets := Offsets(cfg)
	log.Printf("provider=%s offsets=%d same_site_m=%.0f vehicles=%d", cfg.Provider, len(offsets), cfg.SameSiteMeters, cfg.VehicleConcurrency)

	a.Geocoder = services.NewCoordinateResolver(primary, fallback, geocodeCache)
	routes := services.NewRouteResolver(services.NewRouteProbe(directions, routeCache), offsets, cfg.SameSiteMeters)

	prefetch := 0
	if cfg.PrefetchAddresses {
		prefetch = prefetchWorkers
	}
	a.Dispatcher = services.NewDispatcher(a.Geocoder, services.NewItinerary(a.Geocoder, routes, prefetch), cfg.VehicleConcurrency)

	return a, nil
}

func providers(cfg *config.Config) (primary, fallback ports.AddressLookup, directions ports.DirectionsAPI, err error) {
	switch cfg.Provider {
	case config.ProviderKakao:
		client, err := kakao.NewClient(cfg.KakaoAPIKey, kakao.Options{
			GeocodeTimeout:    cfg.GeocodeTimeout,
			DirectionsTimeout: cfg.DirectionsTimeout,
			RatePerSec:        cfg.KakaoRatePerSec,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("kakao provider: %w", err)
		}
		return client.AddressSearch(), client.KeywordSearch(), client, nil
	case config.ProviderMock:
		offline := mock.Offline{}
		return offline, offline, offline, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// Offsets returns the retry offsets: the YAML override when loaded, else the named set.
func Offsets(cfg *config.Config) []domain.Offset {
	if len(cfg.Offsets) > 0 {
		return cfg.Offsets
	}
	if cfg.OffsetSet == config.OffsetSetCompact {
		return services.CompactOffsets
	}
	return services.FullOffsets
}

// Close releases owned connections in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
