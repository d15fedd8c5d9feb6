package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the PostgreSQL schema for stored route plans.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRoutePlansQuery := `
	CREATE TABLE IF NOT EXISTS route_plans (
		run_id TEXT PRIMARY KEY,
		pipeline TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createRoutePlanStopsQuery := `
	CREATE TABLE IF NOT EXISTS route_plan_stops (
		run_id TEXT NOT NULL REFERENCES route_plans(run_id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		stop_id TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		service_s INTEGER NOT NULL,
		tw_start TEXT,
		tw_end TEXT,
		PRIMARY KEY (run_id, seq)
	);
	`

	statements := []string{
		createRoutePlansQuery,
		createRoutePlanStopsQuery,
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
