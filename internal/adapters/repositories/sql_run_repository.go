package repositories

import (
	"context"
	"database/sql"
	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/platform/obs"
	"dispatch-route-service/internal/ports"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Postgres-backed implementation of the RunRepository port.
type SQLRunRepository struct{ DB *sql.DB }

func NewSQLRunRepository(db *sql.DB) *SQLRunRepository {
	return &SQLRunRepository{DB: db}
}

// Store a run with its segments and summaries in one transaction.
func (s *SQLRunRepository) SaveRun(ctx context.Context, run *domain.DispatchRun) (err error) {
	defer obs.Time(ctx, "runs.SaveRun")(&err)

	if s.DB == nil {
		return errors.New("sql run repository: DB is nil")
	}
	if _, err := uuid.Parse(run.ID); err != nil {
		return fmt.Errorf("save run: invalid id %q: %w", run.ID, err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save run: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	o := run.Result.Origin
	if _, err := tx.ExecContext(ctx, `
	INSERT INTO dispatch_runs (run_id, origin_address, origin_lon, origin_lat, origin_display, created_at)
	VALUES ($1, $2, $3, $4, $5, $6);
	`, run.ID, run.OriginAddress, o.Lon, o.Lat, o.DisplayAddress, run.CreatedAt); err != nil {
		return fmt.Errorf("save run: insert dispatch_runs id=%s: %w", run.ID, err)
	}

	segStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO dispatch_segments (
		run_id, position, vehicle_id, sequence, from_label, from_origin, to_label,
		distance_meters, duration_seconds,
		cumulative_distance_meters, cumulative_duration_seconds, note
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`)
	if err != nil {
		return fmt.Errorf("save run: prepare segments: %w", err)
	}
	defer segStmt.Close()

	for i, seg := range run.Result.Segments {
		if _, err := segStmt.ExecContext(ctx,
			run.ID, i, seg.VehicleID, seg.Sequence, seg.FromLabel, seg.FromOrigin, seg.ToLabel,
			nullInt(seg.DistanceMeters), nullInt(seg.DurationSeconds),
			seg.CumulativeDistanceMeters, seg.CumulativeDurationSeconds, seg.Note,
		); err != nil {
			return fmt.Errorf("save run: insert segment #%d: %w", i, err)
		}
	}

	sumStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO vehicle_summaries (
		run_id, position, vehicle_id, stop_count, total_distance_meters, total_duration_seconds
	)
	VALUES ($1, $2, $3, $4, $5, $6);
	`)
	if err != nil {
		return fmt.Errorf("save run: prepare summaries: %w", err)
	}
	defer sumStmt.Close()

	for i, sum := range run.Result.Summaries {
		if _, err := sumStmt.ExecContext(ctx,
			run.ID, i, sum.VehicleID, sum.StopCount, sum.TotalDistanceMeters, sum.TotalDurationSeconds,
		); err != nil {
			return fmt.Errorf("save run: insert summary vehicle=%s: %w", sum.VehicleID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save run: commit tx: %w", err)
	}

	return nil
}

// Load one run by id.
func (s *SQLRunRepository) GetRun(ctx context.Context, id string) (_ *domain.DispatchRun, err error) {
	defer obs.Time(ctx, "runs.GetRun")(&err)

	if s.DB == nil {
		return nil, errors.New("sql run repository: DB is nil")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ports.ErrRunNotFound
	}

	run := &domain.DispatchRun{ID: id}
	o := &run.Result.Origin
	err = s.DB.QueryRowContext(ctx, `
	SELECT origin_address, origin_lon, origin_lat, origin_display, created_at
	FROM dispatch_runs
	WHERE run_id = $1;
	`, id).Scan(&run.OriginAddress, &o.Lon, &o.Lat, &o.DisplayAddress, &run.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run: query dispatch_runs: %w", err)
	}

	if run.Result.Segments, err = s.segments(ctx, id); err != nil {
		return nil, err
	}
	if run.Result.Summaries, err = s.summaries(ctx, id); err != nil {
		return nil, err
	}

	return run, nil
}

func (s *SQLRunRepository) segments(ctx context.Context, id string) ([]domain.SegmentResult, error) {
	rows, err := s.DB.QueryContext(ctx, `
	SELECT vehicle_id, sequence, from_label, from_origin, to_label, distance_meters, duration_seconds,
		cumulative_distance_meters, cumulative_duration_seconds, note
	FROM dispatch_segments
	WHERE run_id = $1
	ORDER BY position;
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get run: query dispatch_segments: %w", err)
	}
	defer rows.Close()

	out := make([]domain.SegmentResult, 0, 64)
	for rows.Next() {
		var seg domain.SegmentResult
		var meters, seconds sql.NullInt64
		if err := rows.Scan(
			&seg.VehicleID, &seg.Sequence, &seg.FromLabel, &seg.FromOrigin, &seg.ToLabel, &meters, &seconds,
			&seg.CumulativeDistanceMeters, &seg.CumulativeDurationSeconds, &seg.Note,
		); err != nil {
			return nil, fmt.Errorf("get run: scan segment: %w", err)
		}
		seg.DistanceMeters = intPtr(meters)
		seg.DurationSeconds = intPtr(seconds)
		out = append(out, seg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get run: segment iteration: %w", err)
	}

	return out, nil
}

func (s *SQLRunRepository) summaries(ctx context.Context, id string) ([]domain.VehicleSummary, error) {
	rows, err := s.DB.QueryContext(ctx, `
	SELECT vehicle_id, stop_count, total_distance_meters, total_duration_seconds
	FROM vehicle_summaries
	WHERE run_id = $1
	ORDER BY position;
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get run: query vehicle_summaries: %w", err)
	}
	defer rows.Close()

	out := make([]domain.VehicleSummary, 0, 8)
	for rows.Next() {
		var sum domain.VehicleSummary
		if err := rows.Scan(&sum.VehicleID, &sum.StopCount, &sum.TotalDistanceMeters, &sum.TotalDurationSeconds); err != nil {
			return nil, fmt.Errorf("get run: scan summary: %w", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get run: summary iteration: %w", err)
	}

	return out, nil
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
