package interfaces

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"fuelswitch/internal/decomposition/application"
	decomposition "fuelswitch/internal/decomposition/domain"
)

var exportHeader = []string{
	"scen", "region", "sector", "hydrogen_source", "unit",
	"from_fuel", "to_fuel", "process", "entry_type", "value", "year",
}

// WriteRowsCSV streams the output table as CSV.
func WriteRowsCSV(w io.Writer, rows []decomposition.OutputRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.Scenario,
			row.Region,
			row.Sector,
			row.HydrogenSource,
			row.Unit,
			row.FromFuel,
			row.ToFuel,
			row.Process,
			string(row.EntryType),
			strconv.FormatFloat(row.Value, 'g', -1, 64),
			strconv.Itoa(row.Year),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// BuildRowsXLSX renders the output table as a workbook.
func BuildRowsXLSX(rows []decomposition.OutputRow) ([]byte, error) {
	file := excelize.NewFile()
	sheet := "fuel_switching"
	file.SetSheetName("Sheet1", sheet)

	for col, name := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		_ = file.SetCellValue(sheet, cell, name)
	}
	for i, row := range rows {
		values := []any{
			row.Scenario, row.Region, row.Sector, row.HydrogenSource, row.Unit,
			row.FromFuel, row.ToFuel, row.Process, string(row.EntryType), row.Value, row.Year,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			_ = file.SetCellValue(sheet, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RunSummary carries the figures rendered on the PDF report.
type RunSummary struct {
	ID             string
	CreatedAt      time.Time
	CellsProcessed int
	CellsFailed    int
	RowCount       int
	TotalsByEntry  map[decomposition.EntryType]float64
}

// BuildRunSummaryPDF renders a minimal PDF summary of a run.
func BuildRunSummaryPDF(summary RunSummary, report []application.ErrorRecord) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Fuel Switching Decomposition Run")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Run: %s", summary.ID))
	pdf.Ln(5)
	if !summary.CreatedAt.IsZero() {
		pdf.Cell(0, 6, fmt.Sprintf("Created: %s", summary.CreatedAt.Format(time.RFC3339)))
		pdf.Ln(5)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Cells processed: %d", summary.CellsProcessed))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Cells failed: %d", summary.CellsFailed))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Output rows: %d", summary.RowCount))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(70, 6, "Entry Type", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Total (PJ)", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, entry := range []decomposition.EntryType{
		decomposition.EntryElectrification,
		decomposition.EntryFuelSwitch,
		decomposition.EntryEfficiency,
		decomposition.EntryRemaining,
	} {
		pdf.CellFormat(70, 6, string(entry), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.4f", summary.TotalsByEntry[entry]), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	if len(report) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, fmt.Sprintf("Cell errors (%d)", len(report)))
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 9)
		for _, record := range report {
			pdf.Cell(0, 5, fmt.Sprintf("%s/%s/%s %d: %s", record.Scenario, record.Region, record.Group, record.Year, record.Reason))
			pdf.Ln(4)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
