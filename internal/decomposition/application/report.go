package application

import (
	"errors"
	"sort"

	"fuelswitch/internal/baseline"
	decomposition "fuelswitch/internal/decomposition/domain"
	"fuelswitch/internal/grouping"
)

// Error reasons surfaced in run reports and metrics labels.
const (
	ReasonUnknownProcess    = "unknown_process"
	ReasonMissingProduction = "missing_production"
	ReasonNegativeEnergy    = "negative_energy"
)

// CellError records a cell-scoped failure. A failing cell never aborts the
// processing of other cells; errors are collected and reported alongside the
// partial output.
type CellError struct {
	Scenario string
	Region   string
	Group    string
	Year     int
	Reason   string
	Err      error
}

// Message returns the underlying error text.
func (e CellError) Message() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// reasonFor classifies an error into a report reason.
func reasonFor(err error) string {
	var unknown *grouping.UnknownProcessError
	if errors.As(err, &unknown) {
		return ReasonUnknownProcess
	}
	var missing *baseline.MissingProductionDataError
	if errors.As(err, &missing) {
		return ReasonMissingProduction
	}
	var negative *decomposition.NegativeEnergyError
	if errors.As(err, &negative) {
		return ReasonNegativeEnergy
	}
	return "internal"
}

// Result is the outcome of one run: the output table plus the structured
// error report.
type Result struct {
	Rows           []decomposition.OutputRow
	Errors         []CellError
	CellsProcessed int
	CellsFailed    int
	TotalsByEntry  map[decomposition.EntryType]float64
}

func sortErrors(errs []CellError) {
	sort.Slice(errs, func(i, j int) bool {
		a, b := errs[i], errs[j]
		if a.Scenario != b.Scenario {
			return a.Scenario < b.Scenario
		}
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		if a.Group != b.Group {
			return a.Group < b.Group
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Reason < b.Reason
	})
}
