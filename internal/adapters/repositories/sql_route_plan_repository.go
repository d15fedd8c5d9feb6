package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"route-pipeline-adapter/internal/domain"
	"route-pipeline-adapter/internal/platform/obs"
	"strings"
)

// SQLRoutePlanRepository stores route plans in PostgreSQL.
type SQLRoutePlanRepository struct {
	DB *sql.DB
}

func NewSQLRoutePlanRepository(db *sql.DB) *SQLRoutePlanRepository {
	return &SQLRoutePlanRepository{DB: db}
}

// Store the stops of a run in route order, replacing a previous plan for the run.
func (r *SQLRoutePlanRepository) SaveRoutePlan(
	ctx context.Context,
	runID string,
	pipeline string,
	stops []domain.RoutePlanStop,
) (err error) {
	defer obs.Time(ctx, "route_plan.repo.SaveRoutePlan")(&err)

	if r.DB == nil {
		return errors.New("route plan repository: db is nil")
	}

	if strings.TrimSpace(runID) == "" {
		return errors.New("save route plan: run id must not be empty")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save route plan: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	upsertPlanQuery := `
	INSERT INTO route_plans (run_id, pipeline)
	VALUES ($1, $2)
	ON CONFLICT (run_id) DO UPDATE SET pipeline = EXCLUDED.pipeline;
	`
	if _, err := tx.ExecContext(ctx, upsertPlanQuery, runID, pipeline); err != nil {
		return fmt.Errorf("save route plan: upsert run_id=%s: %w", runID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM route_plan_stops WHERE run_id = $1;`, runID); err != nil {
		return fmt.Errorf("save route plan: clear run_id=%s: %w", runID, err)
	}

	insertStopQuery := `
	INSERT INTO route_plan_stops (
		run_id, seq, stop_id, lat, lon, service_s, tw_start, tw_end
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	stmt, err := tx.PrepareContext(ctx, insertStopQuery)
	if err != nil {
		return fmt.Errorf("save route plan: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, s := range stops {
		twStart, err := encodeTimeWindow(s.TWStart)
		if err != nil {
			return fmt.Errorf("save route plan: stop #%d tw_start: %w", i+1, err)
		}
		twEnd, err := encodeTimeWindow(s.TWEnd)
		if err != nil {
			return fmt.Errorf("save route plan: stop #%d tw_end: %w", i+1, err)
		}

		if _, err := stmt.ExecContext(ctx, runID, i, s.ID, s.Lat, s.Lon, s.ServiceS, twStart, twEnd); err != nil {
			return fmt.Errorf("save route plan: insert stop #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save route plan: commit tx: %w", err)
	}

	return nil
}

// Fetch the stops of a run in route order.
func (r *SQLRoutePlanRepository) ListRoutePlanStops(
	ctx context.Context,
	runID string,
) (_ []domain.RoutePlanStop, err error) {
	defer obs.Time(ctx, "route_plan.repo.ListRoutePlanStops")(&err)

	if r.DB == nil {
		return nil, errors.New("route plan repository: db is nil")
	}

	q := `
	SELECT stop_id, lat, lon, service_s, tw_start, tw_end
	FROM route_plan_stops
	WHERE run_id = $1
	ORDER BY seq;
	`

	rows, err := r.DB.QueryContext(ctx, q, runID)
	if err != nil {
		return nil, fmt.Errorf("list route plan stops: query route_plan_stops table: %w", err)
	}
	defer rows.Close()

	out := []domain.RoutePlanStop{}
	for rows.Next() {
		var (
			s              domain.RoutePlanStop
			twStart, twEnd sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.Lat, &s.Lon, &s.ServiceS, &twStart, &twEnd); err != nil {
			return nil, fmt.Errorf("list route plan stops: scan rows: %w", err)
		}

		if s.TWStart, err = decodeTimeWindow(twStart); err != nil {
			return nil, fmt.Errorf("list route plan stops: tw_start: %w", err)
		}
		if s.TWEnd, err = decodeTimeWindow(twEnd); err != nil {
			return nil, fmt.Errorf("list route plan stops: tw_end: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list route plan stops: row iteration: %w", err)
	}

	return out, nil
}

// Time window bounds are untyped at this layer; they are stored as JSON text
// so they read back verbatim.
func encodeTimeWindow(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode time window: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeTimeWindow(ns sql.NullString) (any, error) {
	if !ns.Valid {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal([]byte(ns.String), &v); err != nil {
		return nil, fmt.Errorf("decode time window: %w", err)
	}
	return v, nil
}
