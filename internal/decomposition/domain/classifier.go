package decomposition

import "strings"

// DefaultElectricityFuel is the fuel identifier treated as electricity when
// no override is configured.
const DefaultElectricityFuel = "electricity"

// Classifier labels allocated flows and residuals and assembles the output
// rows for one cell.
type Classifier struct {
	electricityFuel string
}

// NewClassifier constructs a Classifier. An empty identifier falls back to
// DefaultElectricityFuel.
func NewClassifier(electricityFuel string) Classifier {
	electricityFuel = strings.TrimSpace(electricityFuel)
	if electricityFuel == "" {
		electricityFuel = DefaultElectricityFuel
	}
	return Classifier{electricityFuel: electricityFuel}
}

// IsElectricity reports whether a fuel identifier denotes electricity.
// Input fuel labels vary in case between sheets, so matching is
// case-insensitive.
func (c Classifier) IsElectricity(fuel string) bool {
	return strings.EqualFold(strings.TrimSpace(fuel), c.electricityFuel)
}

// Rows maps an allocation to output rows, carrying cell metadata through
// unchanged. Flows into electricity become electrification, other flows
// fuel-switch; residuals have no partner fuel.
func (c Classifier) Rows(key CellKey, meta CellMeta, alloc Allocation) []OutputRow {
	unit := meta.Unit
	if unit == "" {
		unit = UnitPJ
	}

	row := func(entry EntryType, from, to string, value float64) OutputRow {
		return OutputRow{
			Scenario:       key.Scenario,
			Region:         key.Region,
			Sector:         meta.Sector,
			HydrogenSource: meta.HydrogenSource,
			Unit:           unit,
			FromFuel:       from,
			ToFuel:         to,
			Process:        meta.Process,
			EntryType:      entry,
			Value:          value,
			Year:           key.Year,
		}
	}

	rows := make([]OutputRow, 0, len(alloc.Flows)+len(alloc.Efficiency)+len(alloc.Remaining))
	for _, flow := range alloc.Flows {
		entry := EntryFuelSwitch
		if c.IsElectricity(flow.ToFuel) {
			entry = EntryElectrification
		}
		rows = append(rows, row(entry, flow.FromFuel, flow.ToFuel, flow.Amount))
	}
	for _, fuel := range alloc.Efficiency.Fuels() {
		rows = append(rows, row(EntryEfficiency, fuel, "", alloc.Efficiency[fuel]))
	}
	for _, fuel := range alloc.Remaining.Fuels() {
		rows = append(rows, row(EntryRemaining, fuel, "", alloc.Remaining[fuel]))
	}

	SortRows(rows)
	return rows
}
