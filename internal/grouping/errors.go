package grouping

import (
	"errors"
	"fmt"
)

var (
	// ErrNoGroups is returned when a config declares no groups.
	ErrNoGroups = errors.New("grouping: no groups configured")
	// ErrEmptyGroupName is returned when a group has an empty name.
	ErrEmptyGroupName = errors.New("grouping: empty group name")
)

// UnknownProcessError reports a process identifier with no group mapping.
type UnknownProcessError struct {
	Process string
	Region  string
}

// Error implements error.
func (e *UnknownProcessError) Error() string {
	return fmt.Sprintf("grouping: unknown process %q in region %q", e.Process, e.Region)
}
