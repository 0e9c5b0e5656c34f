// Package ingest loads the tabular inputs of a decomposition run from CSV
// files or a consolidated workbook. It performs no spreadsheet extraction
// beyond plain tabular reads.
package ingest

import "errors"

// Energy series kinds.
const (
	KindActual        = "actual"
	KindBaselineInput = "baseline_input"
	KindCurrentMix    = "current_mix"
)

// Production series kinds.
const (
	KindCurrentProduction = "current_production"
	KindFutureProduction  = "future_production"
)

var (
	// ErrMissingHeader is returned when a required column is absent.
	ErrMissingHeader = errors.New("ingest: missing header column")
	// ErrEmptyTable is returned when a table has no data rows.
	ErrEmptyTable = errors.New("ingest: empty table")
)

// EnergyRecord is one row of the energy input table.
// The year is zero for current_mix rows, which describe the present day.
type EnergyRecord struct {
	Scenario string
	Region   string
	Process  string
	Fuel     string
	Year     int
	Value    float64
	Kind     string
}

// ProductionRecord is one row of the activity-reporting table, in mt.
// The year is zero for current_production rows.
type ProductionRecord struct {
	Scenario string
	Region   string
	Process  string
	Year     int
	Value    float64
	Kind     string
}

// Dataset is the full input of one run.
type Dataset struct {
	Energy     []EnergyRecord
	Production []ProductionRecord
}

func validEnergyKind(kind string) bool {
	switch kind {
	case KindActual, KindBaselineInput, KindCurrentMix:
		return true
	default:
		return false
	}
}

func validProductionKind(kind string) bool {
	switch kind {
	case KindCurrentProduction, KindFutureProduction:
		return true
	default:
		return false
	}
}
