package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the Postgres database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
        address TEXT PRIMARY KEY,
        lon DOUBLE PRECISION NOT NULL,
        lat DOUBLE PRECISION NOT NULL,
        display_address TEXT NOT NULL DEFAULT '',
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
    );
	`

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        distance_meters INTEGER NOT NULL,
        duration_seconds INTEGER NOT NULL,
        PRIMARY KEY (origin, destination)
    );
	`

	createRunsQuery := `
	CREATE TABLE IF NOT EXISTS dispatch_runs (
        run_id UUID PRIMARY KEY,
        origin_address TEXT NOT NULL,
        origin_lon DOUBLE PRECISION NOT NULL,
        origin_lat DOUBLE PRECISION NOT NULL,
        origin_display TEXT NOT NULL,
        created_at TIMESTAMPTZ NOT NULL
    );
	`

	createSegmentsQuery := `
	CREATE TABLE IF NOT EXISTS dispatch_segments (
        run_id UUID NOT NULL REFERENCES dispatch_runs(run_id) ON DELETE CASCADE,
        position INTEGER NOT NULL,
        vehicle_id TEXT NOT NULL,
        sequence INTEGER NOT NULL,
        from_label TEXT NOT NULL,
        from_origin BOOLEAN NOT NULL DEFAULT false,
        to_label TEXT NOT NULL,
        distance_meters INTEGER,
        duration_seconds INTEGER,
        cumulative_distance_meters INTEGER NOT NULL,
        cumulative_duration_seconds INTEGER NOT NULL,
        note TEXT NOT NULL DEFAULT '',
        PRIMARY KEY (run_id, position)
    );
	`

	// Tables created before from_origin existed.
	addFromOriginQuery := `
	ALTER TABLE dispatch_segments
    ADD COLUMN IF NOT EXISTS from_origin BOOLEAN NOT NULL DEFAULT false;
	`

	createSummariesQuery := `
	CREATE TABLE IF NOT EXISTS vehicle_summaries (
        run_id UUID NOT NULL REFERENCES dispatch_runs(run_id) ON DELETE CASCADE,
        position INTEGER NOT NULL,
        vehicle_id TEXT NOT NULL,
        stop_count INTEGER NOT NULL,
        total_distance_meters INTEGER NOT NULL,
        total_duration_seconds INTEGER NOT NULL,
        PRIMARY KEY (run_id, position)
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_dispatch_runs_created_at
    ON dispatch_runs(created_at);
	`

	statements := []string{
		createGeocodeCacheQuery,
		createRouteCacheQuery,
		createRunsQuery,
		createSegmentsQuery,
		addFromOriginQuery,
		createSummariesQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// GeocodeSeed pins an address to known coordinates, e.g. a depot Kakao resolves poorly.
type GeocodeSeed struct {
	Address string  `json:"address"`
	Lon     float64 `json:"lon"`
	Lat     float64 `json:"lat"`
	Display string  `json:"display_address"`
}

// ParseGeocodeSeeds reads and validates a JSON array of GeocodeSeed.
// normalize is applied to every address so seeded rows match resolver cache keys.
func ParseGeocodeSeeds(data []byte, normalize func(string) string) ([]GeocodeSeed, error) {
	var items []GeocodeSeed
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("seed geocode: parse json: %w", err)
	}

	rows := make([]GeocodeSeed, 0, len(items))
	for i, item := range items {
		addr := strings.TrimSpace(item.Address)
		if normalize != nil {
			addr = normalize(addr)
		}
		if addr == "" {
			return nil, fmt.Errorf("seed geocode: item at index %d: address cannot be empty", i+1)
		}
		if item.Lon < -180 || item.Lon > 180 || item.Lat < -90 || item.Lat > 90 {
			return nil, fmt.Errorf("seed geocode: item at index %d: coordinates out of range", i+1)
		}
		if item.Display == "" {
			item.Display = addr
		}
		item.Address = addr
		rows = append(rows, item)
	}

	return rows, nil
}

// Populate geocode_cache from a JSON seed file.
func SeedGeocodeFromJSON(db *sql.DB, jsonPath string, normalize func(string) string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed geocode: read %q: %w", jsonPath, err)
	}

	rows, err := ParseGeocodeSeeds(bytes, normalize)
	if err != nil {
		return 0, err
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("seed geocode: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO geocode_cache (address, lon, lat, display_address, updated_at)
	VALUES ($1, $2, $3, $4, now())
	ON CONFLICT (address) DO UPDATE
	SET lon = EXCLUDED.lon,
		lat = EXCLUDED.lat,
		display_address = EXCLUDED.display_address,
		updated_at = EXCLUDED.updated_at;
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return 0, fmt.Errorf("seed geocode: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.Exec(r.Address, r.Lon, r.Lat, r.Display); err != nil {
			return 0, fmt.Errorf("seed geocode: insert address=%q: %w", r.Address, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("seed geocode: commit tx: %w", err)
	}

	return len(rows), nil
}
