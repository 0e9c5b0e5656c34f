package decomposition

import "testing"

func TestClassifierRows(t *testing.T) {
	alloc, err := NewAllocator(0).Allocate(
		Series{"gas": 8, "oil": 2, "Electricity": 0, "hydrogen": 0},
		Series{"gas": 1, "oil": 2, "Electricity": 4, "hydrogen": 2},
	)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}

	key := CellKey{Scenario: "net-zero", Region: "NSW", Group: "Iron & Steel", Year: 2040}
	meta := CellMeta{Sector: "industry", Process: "Iron & Steel", HydrogenSource: "electrolysis"}
	rows := NewClassifier("electricity").Rows(key, meta, alloc)

	byEntry := make(map[EntryType][]OutputRow)
	for _, row := range rows {
		if row.Value < 0 {
			t.Fatalf("negative row value: %+v", row)
		}
		if row.Scenario != key.Scenario || row.Region != key.Region || row.Year != key.Year {
			t.Fatalf("cell metadata not carried through: %+v", row)
		}
		if row.Sector != meta.Sector || row.Process != meta.Process || row.HydrogenSource != meta.HydrogenSource {
			t.Fatalf("group metadata not carried through: %+v", row)
		}
		if row.Unit != UnitPJ {
			t.Fatalf("expected unit defaulted to %s: %+v", UnitPJ, row)
		}
		byEntry[row.EntryType] = append(byEntry[row.EntryType], row)
	}

	// Electricity label differs in case from the configured identifier.
	for _, row := range byEntry[EntryElectrification] {
		if row.ToFuel != "Electricity" {
			t.Fatalf("electrification row with wrong sink: %+v", row)
		}
	}
	if len(byEntry[EntryElectrification]) == 0 {
		t.Fatal("expected electrification rows")
	}
	for _, row := range byEntry[EntryFuelSwitch] {
		if row.ToFuel != "hydrogen" {
			t.Fatalf("fuel-switch row with wrong sink: %+v", row)
		}
	}
	for _, entry := range []EntryType{EntryEfficiency, EntryRemaining} {
		for _, row := range byEntry[entry] {
			if row.ToFuel != "" {
				t.Fatalf("%s row must have no partner fuel: %+v", entry, row)
			}
		}
	}
	if len(byEntry[EntryEfficiency]) == 0 {
		t.Fatal("decrease exceeds increase, expected efficiency rows")
	}
}

func TestClassifierRowsSorted(t *testing.T) {
	alloc, err := NewAllocator(0).Allocate(
		Series{"gas": 6, "coal": 4},
		Series{"gas": 1, "coal": 1, "electricity": 5, "hydrogen": 3},
	)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	key := CellKey{Scenario: "s", Region: "r", Group: "g", Year: 2030}
	rows := NewClassifier("").Rows(key, CellMeta{Process: "g"}, alloc)
	sorted := append([]OutputRow(nil), rows...)
	SortRows(sorted)
	for i := range rows {
		if rows[i] != sorted[i] {
			t.Fatalf("rows not emitted in sorted order at index %d: %+v", i, rows[i])
		}
	}
}
