// Package baseline constructs the counterfactual fuel-consumption series a
// cell is decomposed against.
package baseline

import (
	decomposition "fuelswitch/internal/decomposition/domain"
)

// Production holds the activity-reporting figures for one
// (scenario, region, group), in mass units (mt).
type Production struct {
	// Current is present-day production. Zero is a valid value and disables
	// switching detection for the cell.
	Current float64
	// HasCurrent reports whether the reporting variable was supplied at all.
	HasCurrent bool
	// FutureByYear is projected production per year.
	FutureByYear map[int]float64
}

// Builder computes baseline series. It is stateless and safe to share
// across workers.
type Builder struct{}

// NewBuilder constructs a Builder.
func NewBuilder() Builder { return Builder{} }

// Passthrough returns the externally supplied baseline series for
// commercial and residential cells unchanged.
func (Builder) Passthrough(supplied decomposition.Series) decomposition.Series {
	return supplied.Clone()
}

// Industry computes the counterfactual for an industry cell: present-day
// consumption by fuel scaled by the production ratio, so the fuel shares of
// the baseline equal the present-day mix. With zero present-day production
// (or no present-day consumption) the baseline is defined to equal the
// actual series, so every delta is zero and the cell yields only
// remaining-consumption rows.
func (Builder) Industry(key decomposition.CellKey, mix decomposition.Series, production Production, actual decomposition.Series) (decomposition.Series, error) {
	if !production.HasCurrent {
		return nil, &MissingProductionDataError{
			Scenario: key.Scenario,
			Region:   key.Region,
			Group:    key.Group,
			Year:     key.Year,
		}
	}
	if err := mix.Validate(); err != nil {
		return nil, err
	}
	if production.Current == 0 || mix.Total() == 0 {
		return actual.Clone(), nil
	}

	future, ok := production.FutureByYear[key.Year]
	if !ok {
		return nil, &MissingProductionDataError{
			Scenario: key.Scenario,
			Region:   key.Region,
			Group:    key.Group,
			Year:     key.Year,
			Future:   true,
		}
	}

	scale := future / production.Current
	result := make(decomposition.Series, len(mix))
	for fuel, value := range mix {
		result[fuel] = value * scale
	}
	return result, nil
}
