package dataset

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaVersion is the current schema version of a dataset database.
const SchemaVersion = 1

const schemaV1 = `
-- Pyramid bars for both sources ('simulation', 'benchmark')
CREATE TABLE IF NOT EXISTS pyramid (
    source TEXT NOT NULL,
    scenario_label TEXT NOT NULL,
    simulation_year INTEGER NOT NULL,
    gender TEXT NOT NULL,
    age_in_years INTEGER NOT NULL,
    count_signed REAL
);
CREATE INDEX IF NOT EXISTS idx_pyramid_lookup ON pyramid(source, scenario_label, simulation_year);

-- Age-group statistics, one row per (source, scenario, year, metric)
CREATE TABLE IF NOT EXISTS agestats (
    source TEXT NOT NULL,
    scenario_label TEXT NOT NULL,
    simulation_year INTEGER NOT NULL,
    metric TEXT NOT NULL,
    value REAL,
    PRIMARY KEY (source, scenario_label, simulation_year, metric)
);

CREATE TABLE IF NOT EXISTS metadata (
    init_population INTEGER NOT NULL,
    sims_per_scenario INTEGER NOT NULL,
    scaling_factor REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`

// InitSchema creates the dataset tables if they do not exist.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaV1); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, SchemaVersion); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return nil
}
