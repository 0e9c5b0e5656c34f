package application

import (
	"context"
	"math"
	"reflect"
	"testing"

	decomposition "fuelswitch/internal/decomposition/domain"
	"fuelswitch/internal/grouping"
	"fuelswitch/internal/ingest"
)

func testDataset() ingest.Dataset {
	return ingest.Dataset{
		Energy: []ingest.EnergyRecord{
			// Industry cell: baseline coal 20 * (2.5/5) = 10, so 6 PJ of
			// coal switched to electricity and 4 PJ remains.
			{Scenario: "net-zero", Region: "NSW", Process: "steel-bf", Fuel: "coal", Year: 2040, Value: 4, Kind: ingest.KindActual},
			{Scenario: "net-zero", Region: "NSW", Process: "steel-bf", Fuel: "electricity", Year: 2040, Value: 6, Kind: ingest.KindActual},
			{Scenario: "net-zero", Region: "NSW", Process: "steel-bf", Fuel: "coal", Value: 20, Kind: ingest.KindCurrentMix},
			// Commercial cell: supplied baseline gas 3.5 + 1.5 = 5.
			{Scenario: "net-zero", Region: "NSW", Process: "cs-office", Fuel: "gas", Year: 2040, Value: 3.5, Kind: ingest.KindBaselineInput},
			{Scenario: "net-zero", Region: "NSW", Process: "cs-office", Fuel: "gas", Year: 2040, Value: 1.5, Kind: ingest.KindBaselineInput},
			{Scenario: "net-zero", Region: "NSW", Process: "cs-office", Fuel: "gas", Year: 2040, Value: 2, Kind: ingest.KindActual},
			{Scenario: "net-zero", Region: "NSW", Process: "cs-office", Fuel: "electricity", Year: 2040, Value: 3, Kind: ingest.KindActual},
			// Unmapped process: reported, not dropped.
			{Scenario: "net-zero", Region: "NSW", Process: "mystery-proc", Fuel: "gas", Year: 2040, Value: 1, Kind: ingest.KindActual},
			// Industry cell with no production data at all.
			{Scenario: "net-zero", Region: "VIC", Process: "cement-kiln", Fuel: "gas", Year: 2040, Value: 1, Kind: ingest.KindActual},
			// Data-quality violation: negative actual value.
			{Scenario: "net-zero", Region: "TAS", Process: "rs-heating", Fuel: "gas", Year: 2040, Value: -1, Kind: ingest.KindActual},
		},
		Production: []ingest.ProductionRecord{
			{Scenario: "net-zero", Region: "NSW", Process: "steel-bf", Value: 5, Kind: ingest.KindCurrentProduction},
			{Scenario: "net-zero", Region: "NSW", Process: "steel-bf", Year: 2040, Value: 2.5, Kind: ingest.KindFutureProduction},
		},
	}
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	cfg := grouping.DefaultConfig()
	grouper, err := grouping.NewGrouper(cfg)
	if err != nil {
		t.Fatalf("new grouper: %v", err)
	}
	runner, err := NewRunner(grouper, cfg, WithWorkers(4))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	return runner
}

func TestRunnerRun(t *testing.T) {
	runner := newTestRunner(t)
	result, err := runner.Run(context.Background(), testDataset())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.CellsProcessed != 2 {
		t.Fatalf("expected 2 processed cells, got %d", result.CellsProcessed)
	}
	if result.CellsFailed != 2 {
		t.Fatalf("expected 2 failed cells, got %d", result.CellsFailed)
	}
	if len(result.Errors) != 3 {
		t.Fatalf("expected 3 report entries, got %d: %+v", len(result.Errors), result.Errors)
	}

	reasons := make(map[string]int)
	for _, cellErr := range result.Errors {
		reasons[cellErr.Reason]++
	}
	if reasons[ReasonUnknownProcess] != 1 || reasons[ReasonMissingProduction] != 1 || reasons[ReasonNegativeEnergy] != 1 {
		t.Fatalf("unexpected reasons: %v", reasons)
	}

	if math.Abs(result.TotalsByEntry[decomposition.EntryElectrification]-9) > 1e-9 {
		t.Fatalf("expected 9 PJ electrification, got %g", result.TotalsByEntry[decomposition.EntryElectrification])
	}
	if math.Abs(result.TotalsByEntry[decomposition.EntryRemaining]-6) > 1e-9 {
		t.Fatalf("expected 6 PJ remaining, got %g", result.TotalsByEntry[decomposition.EntryRemaining])
	}
	if result.TotalsByEntry[decomposition.EntryFuelSwitch] != 0 || result.TotalsByEntry[decomposition.EntryEfficiency] != 0 {
		t.Fatalf("unexpected totals: %v", result.TotalsByEntry)
	}

	for _, row := range result.Rows {
		if row.Value < 0 {
			t.Fatalf("negative output row: %+v", row)
		}
		if row.Process == "Iron & Steel" && row.Sector != "industry" {
			t.Fatalf("wrong sector tag: %+v", row)
		}
		if row.Process == "CS" && row.Sector != "commercial" {
			t.Fatalf("wrong sector tag: %+v", row)
		}
	}

	// Hydrogen source carried from the group mapping.
	var sawSteel bool
	for _, row := range result.Rows {
		if row.Process == "Iron & Steel" {
			sawSteel = true
			if row.HydrogenSource != "electrolysis" {
				t.Fatalf("expected hydrogen source on steel rows: %+v", row)
			}
		}
	}
	if !sawSteel {
		t.Fatal("expected Iron & Steel rows")
	}
}

func TestRunnerDeterministic(t *testing.T) {
	runner := newTestRunner(t)
	first, err := runner.Run(context.Background(), testDataset())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	second, err := runner.Run(context.Background(), testDataset())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !reflect.DeepEqual(first.Rows, second.Rows) {
		t.Fatal("row output differs between identical runs")
	}
	if !reflect.DeepEqual(first.TotalsByEntry, second.TotalsByEntry) {
		t.Fatal("totals differ between identical runs")
	}
}

func TestRunnerEmptyDataset(t *testing.T) {
	runner := newTestRunner(t)
	if _, err := runner.Run(context.Background(), ingest.Dataset{}); err == nil {
		t.Fatal("expected error for empty dataset")
	}
}

func TestRunnerNoProductionIsDegenerateNotError(t *testing.T) {
	// Present-day production reported as zero: baseline equals actual, so
	// the cell yields only remaining-consumption rows.
	dataset := ingest.Dataset{
		Energy: []ingest.EnergyRecord{
			{Scenario: "net-zero", Region: "TAS", Process: "steel-eaf", Fuel: "electricity", Year: 2040, Value: 3, Kind: ingest.KindActual},
			{Scenario: "net-zero", Region: "TAS", Process: "steel-eaf", Fuel: "hydrogen", Year: 2040, Value: 1, Kind: ingest.KindActual},
		},
		Production: []ingest.ProductionRecord{
			{Scenario: "net-zero", Region: "TAS", Process: "steel-eaf", Value: 0, Kind: ingest.KindCurrentProduction},
		},
	}
	runner := newTestRunner(t)
	result, err := runner.Run(context.Background(), dataset)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("zero production is not an error: %+v", result.Errors)
	}
	for _, row := range result.Rows {
		if row.EntryType != decomposition.EntryRemaining {
			t.Fatalf("expected only remaining-consumption rows: %+v", row)
		}
	}
	if math.Abs(result.TotalsByEntry[decomposition.EntryRemaining]-4) > 1e-9 {
		t.Fatalf("remaining should equal actual total: %v", result.TotalsByEntry)
	}
}
