package application

import "time"

// RunInfo is the persisted header of one decomposition run.
type RunInfo struct {
	ID             string
	CreatedAt      time.Time
	CellsProcessed int
	CellsFailed    int
	RowCount       int
}

// ErrorRecord is the persisted and transported form of a CellError.
type ErrorRecord struct {
	Scenario string `json:"scenario"`
	Region   string `json:"region"`
	Group    string `json:"group,omitempty"`
	Year     int    `json:"year,omitempty"`
	Reason   string `json:"reason"`
	Message  string `json:"message"`
}

// Record converts a CellError for persistence and transport.
func (e CellError) Record() ErrorRecord {
	return ErrorRecord{
		Scenario: e.Scenario,
		Region:   e.Region,
		Group:    e.Group,
		Year:     e.Year,
		Reason:   e.Reason,
		Message:  e.Message(),
	}
}

// ErrorRecords converts the report of a result.
func (r *Result) ErrorRecords() []ErrorRecord {
	if r == nil {
		return nil
	}
	records := make([]ErrorRecord, 0, len(r.Errors))
	for _, cellErr := range r.Errors {
		records = append(records, cellErr.Record())
	}
	return records
}
