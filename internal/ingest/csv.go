package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type columnIndex map[string]int

func indexHeader(header []string, required ...string) (columnIndex, error) {
	index := make(columnIndex, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range required {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingHeader, name)
		}
	}
	return index, nil
}

func (c columnIndex) get(record []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// ReadEnergyCSV reads the energy table. Required columns: scenario, region,
// process, fuel, year, value, series_kind; column order is free. The year
// may be blank for current_mix rows.
func ReadEnergyCSV(r io.Reader) ([]EnergyRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("ingest: read energy header: %w", err)
	}
	index, err := indexHeader(header, "scenario", "region", "process", "fuel", "year", "value", "series_kind")
	if err != nil {
		return nil, err
	}

	var records []EnergyRecord
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ingest: read energy row: %w", err)
		}
		line++

		kind := strings.ToLower(index.get(record, "series_kind"))
		if !validEnergyKind(kind) {
			return nil, fmt.Errorf("ingest: energy row %d: unknown series_kind %q", line, kind)
		}
		year, err := parseYear(index.get(record, "year"), kind == KindCurrentMix)
		if err != nil {
			return nil, fmt.Errorf("ingest: energy row %d: %w", line, err)
		}
		value, err := parseValue(index.get(record, "value"))
		if err != nil {
			return nil, fmt.Errorf("ingest: energy row %d: %w", line, err)
		}

		records = append(records, EnergyRecord{
			Scenario: index.get(record, "scenario"),
			Region:   index.get(record, "region"),
			Process:  index.get(record, "process"),
			Fuel:     index.get(record, "fuel"),
			Year:     year,
			Value:    value,
			Kind:     kind,
		})
	}
	if len(records) == 0 {
		return nil, ErrEmptyTable
	}
	return records, nil
}

// ReadProductionCSV reads the activity-reporting table. Required columns:
// scenario, region, process, year, value, series_kind. The year may be
// blank for current_production rows.
func ReadProductionCSV(r io.Reader) ([]ProductionRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("ingest: read production header: %w", err)
	}
	index, err := indexHeader(header, "scenario", "region", "process", "year", "value", "series_kind")
	if err != nil {
		return nil, err
	}

	var records []ProductionRecord
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ingest: read production row: %w", err)
		}
		line++

		kind := strings.ToLower(index.get(record, "series_kind"))
		if !validProductionKind(kind) {
			return nil, fmt.Errorf("ingest: production row %d: unknown series_kind %q", line, kind)
		}
		year, err := parseYear(index.get(record, "year"), kind == KindCurrentProduction)
		if err != nil {
			return nil, fmt.Errorf("ingest: production row %d: %w", line, err)
		}
		value, err := parseValue(index.get(record, "value"))
		if err != nil {
			return nil, fmt.Errorf("ingest: production row %d: %w", line, err)
		}

		records = append(records, ProductionRecord{
			Scenario: index.get(record, "scenario"),
			Region:   index.get(record, "region"),
			Process:  index.get(record, "process"),
			Year:     year,
			Value:    value,
			Kind:     kind,
		})
	}
	if len(records) == 0 {
		return nil, ErrEmptyTable
	}
	return records, nil
}

func parseYear(raw string, optional bool) (int, error) {
	if raw == "" || raw == "-" {
		if optional {
			return 0, nil
		}
		return 0, fmt.Errorf("missing year")
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid year %q", raw)
	}
	return year, nil
}

func parseValue(raw string) (float64, error) {
	// Exported sheets use "-" for missing values.
	if raw == "" || raw == "-" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q", raw)
	}
	return value, nil
}
