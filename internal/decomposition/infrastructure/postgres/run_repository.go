package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fuelswitch/internal/decomposition/application"
	decomposition "fuelswitch/internal/decomposition/domain"
)

// ErrRunNotFound is returned when a run id is unknown.
var ErrRunNotFound = errors.New("run repo: not found")

// RunRepository persists decomposition runs, their output rows and their
// error reports.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository constructs a repository.
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// SaveRun inserts the run header, rows and report in one transaction.
func (r *RunRepository) SaveRun(ctx context.Context, run application.RunInfo, rows []decomposition.OutputRow, report []application.ErrorRecord) error {
	if r == nil || r.db == nil {
		return errors.New("run repo: nil db")
	}
	if run.ID == "" {
		return errors.New("run repo: empty run id")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO decomposition_runs (id, created_at, cells_processed, cells_failed, row_count)
VALUES ($1,$2,$3,$4,$5)`,
		run.ID, run.CreatedAt, run.CellsProcessed, run.CellsFailed, len(rows))
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	for _, row := range rows {
		_, err := tx.ExecContext(ctx, `
INSERT INTO fuel_switching_rows (
	run_id, scenario, region, sector, hydrogen_source, unit,
	from_fuel, to_fuel, process, entry_type, value, year
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
			run.ID, row.Scenario, row.Region, row.Sector, row.HydrogenSource, row.Unit,
			row.FromFuel, nullString(row.ToFuel), row.Process, string(row.EntryType), row.Value, row.Year)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	for _, record := range report {
		_, err := tx.ExecContext(ctx, `
INSERT INTO decomposition_run_errors (
	run_id, scenario, region, group_name, year, reason, message
) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			run.ID, record.Scenario, record.Region, record.Group, record.Year, record.Reason, record.Message)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// GetRun loads a run header.
func (r *RunRepository) GetRun(ctx context.Context, id string) (*application.RunInfo, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("run repo: nil db")
	}
	run := &application.RunInfo{}
	err := r.db.QueryRowContext(ctx, `
SELECT id, created_at, cells_processed, cells_failed, row_count
FROM decomposition_runs
WHERE id = $1`, id).Scan(&run.ID, &run.CreatedAt, &run.CellsProcessed, &run.CellsFailed, &run.RowCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListRows loads the output table of a run in its persisted order.
func (r *RunRepository) ListRows(ctx context.Context, runID string) ([]decomposition.OutputRow, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("run repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT scenario, region, sector, hydrogen_source, unit,
	from_fuel, to_fuel, process, entry_type, value, year
FROM fuel_switching_rows
WHERE run_id = $1
ORDER BY scenario, region, process, year, entry_type, from_fuel, to_fuel`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []decomposition.OutputRow
	for rows.Next() {
		var row decomposition.OutputRow
		var entry string
		var toFuel sql.NullString
		if err := rows.Scan(&row.Scenario, &row.Region, &row.Sector, &row.HydrogenSource, &row.Unit,
			&row.FromFuel, &toFuel, &row.Process, &entry, &row.Value, &row.Year); err != nil {
			return nil, err
		}
		row.ToFuel = toFuel.String
		row.EntryType = decomposition.EntryType(entry)
		result = append(result, row)
	}
	return result, rows.Err()
}

// ListErrors loads the error report of a run.
func (r *RunRepository) ListErrors(ctx context.Context, runID string) ([]application.ErrorRecord, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("run repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT scenario, region, group_name, year, reason, message
FROM decomposition_run_errors
WHERE run_id = $1
ORDER BY scenario, region, group_name, year, reason`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []application.ErrorRecord
	for rows.Next() {
		var record application.ErrorRecord
		if err := rows.Scan(&record.Scenario, &record.Region, &record.Group, &record.Year, &record.Reason, &record.Message); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
