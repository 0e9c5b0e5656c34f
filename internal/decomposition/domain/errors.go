package decomposition

import "fmt"

// NegativeEnergyError reports a negative energy value in an input series.
// It is a data-quality violation: the affected cell is skipped, other cells
// keep processing.
type NegativeEnergyError struct {
	Fuel  string
	Value float64
}

// Error implements error.
func (e *NegativeEnergyError) Error() string {
	return fmt.Sprintf("decomposition: negative energy for fuel %q: %g", e.Fuel, e.Value)
}
