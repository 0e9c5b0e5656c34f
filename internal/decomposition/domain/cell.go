package decomposition

import "sort"

// UnitPJ is the energy unit carried on output rows.
const UnitPJ = "PJ"

// Series maps a fuel identifier to an energy value for one
// (scenario, region, group, year) cell.
type Series map[string]float64

// Clone returns a copy of the series.
func (s Series) Clone() Series {
	if s == nil {
		return nil
	}
	out := make(Series, len(s))
	for fuel, value := range s {
		out[fuel] = value
	}
	return out
}

// Total returns the sum of all values.
func (s Series) Total() float64 {
	var total float64
	for _, value := range s {
		total += value
	}
	return total
}

// Validate rejects negative energy values.
func (s Series) Validate() error {
	for fuel, value := range s {
		if value < 0 {
			return &NegativeEnergyError{Fuel: fuel, Value: value}
		}
	}
	return nil
}

// Fuels returns the fuel identifiers in sorted order.
func (s Series) Fuels() []string {
	fuels := make([]string, 0, len(s))
	for fuel := range s {
		fuels = append(fuels, fuel)
	}
	sort.Strings(fuels)
	return fuels
}

// unionFuels returns the sorted union of fuel keys of two series.
func unionFuels(a, b Series) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for fuel := range a {
		set[fuel] = struct{}{}
	}
	for fuel := range b {
		set[fuel] = struct{}{}
	}
	fuels := make([]string, 0, len(set))
	for fuel := range set {
		fuels = append(fuels, fuel)
	}
	sort.Strings(fuels)
	return fuels
}

// CellKey identifies one decomposition cell.
type CellKey struct {
	Scenario string
	Region   string
	Group    string
	Year     int
}

// CellMeta carries pass-through metadata for a cell's output rows.
type CellMeta struct {
	Sector         string
	Process        string
	HydrogenSource string
	Unit           string
}

// EntryType is the attribution category of an output row.
type EntryType string

const (
	EntryElectrification EntryType = "electrification"
	EntryFuelSwitch      EntryType = "fuel-switch"
	EntryEfficiency      EntryType = "efficiency-improvement"
	EntryRemaining       EntryType = "remaining-consumption"
)

// SwitchFlow is a matched volume moved from one fuel to another within a
// single cell. It exists only during classification.
type SwitchFlow struct {
	FromFuel string
	ToFuel   string
	Amount   float64
}

// OutputRow is one persisted attribution record. ToFuel is empty for
// efficiency-improvement and remaining-consumption rows.
type OutputRow struct {
	Scenario       string
	Region         string
	Sector         string
	HydrogenSource string
	Unit           string
	FromFuel       string
	ToFuel         string
	Process        string
	EntryType      EntryType
	Value          float64
	Year           int
}

// SortRows orders rows deterministically so identical inputs always produce
// identical output tables.
func SortRows(rows []OutputRow) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Scenario != b.Scenario {
			return a.Scenario < b.Scenario
		}
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		if a.Process != b.Process {
			return a.Process < b.Process
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.EntryType != b.EntryType {
			return a.EntryType < b.EntryType
		}
		if a.FromFuel != b.FromFuel {
			return a.FromFuel < b.FromFuel
		}
		return a.ToFuel < b.ToFuel
	})
}
