package interfaces

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"fuelswitch/internal/decomposition/application"
	decomposition "fuelswitch/internal/decomposition/domain"
)

func sampleRows() []decomposition.OutputRow {
	return []decomposition.OutputRow{
		{
			Scenario: "net-zero", Region: "NSW", Sector: "industry", Unit: "PJ",
			FromFuel: "coal", ToFuel: "electricity", Process: "Iron & Steel",
			EntryType: decomposition.EntryElectrification, Value: 6, Year: 2040,
			HydrogenSource: "electrolysis",
		},
		{
			Scenario: "net-zero", Region: "NSW", Sector: "industry", Unit: "PJ",
			FromFuel: "coal", Process: "Iron & Steel",
			EntryType: decomposition.EntryRemaining, Value: 4, Year: 2040,
			HydrogenSource: "electrolysis",
		},
	}
}

func TestWriteRowsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRowsCSV(&buf, sampleRows()); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "scen,region,sector,hydrogen_source,unit,from_fuel,to_fuel,process,entry_type,value,year" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "electrification") || !strings.Contains(lines[1], ",6,") {
		t.Fatalf("unexpected first row: %s", lines[1])
	}
	// Residual row has an empty to_fuel column.
	if !strings.Contains(lines[2], "coal,,Iron & Steel,remaining-consumption") {
		t.Fatalf("unexpected residual row: %s", lines[2])
	}
}

func TestBuildRowsXLSX(t *testing.T) {
	data, err := BuildRowsXLSX(sampleRows())
	if err != nil {
		t.Fatalf("build xlsx: %v", err)
	}
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen xlsx: %v", err)
	}
	defer file.Close()
	rows, err := file.GetRows("fuel_switching")
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[1][8] != "electrification" {
		t.Fatalf("unexpected entry type cell: %v", rows[1])
	}
}

func TestBuildRunSummaryPDF(t *testing.T) {
	summary := RunSummary{
		ID:             "run-1",
		CellsProcessed: 2,
		RowCount:       2,
		TotalsByEntry: map[decomposition.EntryType]float64{
			decomposition.EntryElectrification: 6,
			decomposition.EntryRemaining:       4,
		},
	}
	report := []application.ErrorRecord{
		{Scenario: "net-zero", Region: "VIC", Group: "Cement+", Year: 2040, Reason: "missing_production"},
	}
	data, err := BuildRunSummaryPDF(summary, report)
	if err != nil {
		t.Fatalf("build pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("expected a PDF document")
	}
}
