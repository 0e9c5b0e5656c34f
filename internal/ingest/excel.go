package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook sheet names.
const (
	SheetEnergy     = "energy"
	SheetProduction = "production"
)

// ReadWorkbook loads a consolidated input workbook with an energy sheet and
// a production sheet, each laid out like the corresponding CSV table.
func ReadWorkbook(r io.Reader) (Dataset, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return Dataset{}, fmt.Errorf("ingest: open workbook: %w", err)
	}
	defer file.Close()

	energy, err := sheetCSV(file, SheetEnergy)
	if err != nil {
		return Dataset{}, err
	}
	production, err := sheetCSV(file, SheetProduction)
	if err != nil {
		return Dataset{}, err
	}

	dataset := Dataset{}
	dataset.Energy, err = ReadEnergyCSV(strings.NewReader(energy))
	if err != nil {
		return Dataset{}, err
	}
	dataset.Production, err = ReadProductionCSV(strings.NewReader(production))
	if err != nil {
		return Dataset{}, err
	}
	return dataset, nil
}

// sheetCSV flattens a sheet into CSV text so both input forms share one
// parser. Cells containing commas or quotes are quoted.
func sheetCSV(file *excelize.File, sheet string) (string, error) {
	rows, err := file.GetRows(sheet)
	if err != nil {
		return "", fmt.Errorf("ingest: read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("ingest: sheet %q: %w", sheet, ErrEmptyTable)
	}

	var b strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quoteCSV(cell))
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func quoteCSV(cell string) string {
	if !strings.ContainsAny(cell, ",\"\n") {
		return cell
	}
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}
