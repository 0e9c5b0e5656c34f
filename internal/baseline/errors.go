package baseline

import "fmt"

// MissingProductionDataError reports an industry cell whose baseline cannot
// be computed because a production reporting variable is absent.
type MissingProductionDataError struct {
	Scenario string
	Region   string
	Group    string
	Year     int
	// Future distinguishes a missing projection from a missing present-day
	// figure.
	Future bool
}

// Error implements error.
func (e *MissingProductionDataError) Error() string {
	which := "present-day"
	if e.Future {
		which = "future"
	}
	return fmt.Sprintf("baseline: missing %s production for %s/%s/%s year %d",
		which, e.Scenario, e.Region, e.Group, e.Year)
}
