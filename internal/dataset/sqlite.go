package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"

	_ "modernc.org/sqlite" // SQLite driver
)

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// ExportSQLite writes every table of t into the database at path, replacing
// any previous content. The result can be read back with LoadSQLite.
func ExportSQLite(ctx context.Context, path string, t *Tables) (retErr error) {
	db, err := openDB(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := InitSchema(ctx, db); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			tx.Rollback()
		}
	}()

	for _, stmt := range []string{`DELETE FROM pyramid`, `DELETE FROM agestats`, `DELETE FROM metadata`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear tables: %w", err)
		}
	}

	insPyramid, err := tx.PrepareContext(ctx, `INSERT INTO pyramid
		(source, scenario_label, simulation_year, gender, age_in_years, count_signed)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare pyramid insert: %w", err)
	}
	defer insPyramid.Close()

	insStat, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO agestats
		(source, scenario_label, simulation_year, metric, value)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare agestats insert: %w", err)
	}
	defer insStat.Close()

	for _, src := range []Source{Simulation, Benchmark} {
		for _, r := range t.pyramids[src] {
			var count any = r.Count
			if math.IsNaN(r.Count) {
				count = nil
			}
			if _, err := insPyramid.ExecContext(ctx, src.String(), r.Scenario, r.Year, string(r.Gender), r.Age, count); err != nil {
				return fmt.Errorf("insert pyramid row: %w", err)
			}
		}
		for _, r := range t.stats[src] {
			var value any = r.Value
			if math.IsNaN(r.Value) {
				value = nil
			}
			if _, err := insStat.ExecContext(ctx, src.String(), r.Scenario, r.Year, string(r.Metric), value); err != nil {
				return fmt.Errorf("insert agestats row: %w", err)
			}
		}
	}

	m := t.meta
	if _, err := tx.ExecContext(ctx, `INSERT INTO metadata (init_population, sims_per_scenario, scaling_factor) VALUES (?, ?, ?)`,
		m.InitPopulation, m.SimsPerScenario, m.ScalingFactor); err != nil {
		return fmt.Errorf("insert metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LoadSQLite reads tables previously written by ExportSQLite.
func LoadSQLite(ctx context.Context, path string) (*Tables, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &MissingFilesError{Paths: []string{path}}
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var meta Metadata
	err = db.QueryRowContext(ctx, `SELECT init_population, sims_per_scenario, scaling_factor FROM metadata LIMIT 1`).
		Scan(&meta.InitPopulation, &meta.SimsPerScenario, &meta.ScalingFactor)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	var pyramids [2][]PyramidRecord
	rows, err := db.QueryContext(ctx, `SELECT source, scenario_label, simulation_year, gender, age_in_years, count_signed FROM pyramid`)
	if err != nil {
		return nil, fmt.Errorf("query pyramid: %w", err)
	}
	for rows.Next() {
		var srcName, gender string
		var r PyramidRecord
		var count sql.NullFloat64
		if err := rows.Scan(&srcName, &r.Scenario, &r.Year, &gender, &r.Age, &count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan pyramid: %w", err)
		}
		src, err := ParseSource(srcName)
		if err != nil {
			rows.Close()
			return nil, err
		}
		r.Gender = Gender(gender)
		r.Count = math.NaN()
		if count.Valid {
			r.Count = count.Float64
		}
		pyramids[src] = append(pyramids[src], r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pyramid: %w", err)
	}

	var stats [2][]StatRecord
	rows, err = db.QueryContext(ctx, `SELECT source, scenario_label, simulation_year, metric, value FROM agestats`)
	if err != nil {
		return nil, fmt.Errorf("query agestats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var srcName, metric string
		var value sql.NullFloat64
		var r StatRecord
		if err := rows.Scan(&srcName, &r.Scenario, &r.Year, &metric, &value); err != nil {
			return nil, fmt.Errorf("scan agestats: %w", err)
		}
		src, err := ParseSource(srcName)
		if err != nil {
			return nil, err
		}
		r.Metric = Metric(metric)
		r.Value = math.NaN()
		if value.Valid {
			r.Value = value.Float64
		}
		stats[src] = append(stats[src], r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate agestats: %w", err)
	}

	return NewTables(meta, pyramids[Simulation], stats[Simulation], pyramids[Benchmark], stats[Benchmark])
}
