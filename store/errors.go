package store

import "fmt"

var (
	// ErrEncounterNotFound is returned when no encounter exists for the
	// given id.
	ErrEncounterNotFound = fmt.Errorf("encounter not found")

	// ErrCaseNotFound is returned when no case file exists for the given id.
	ErrCaseNotFound = fmt.Errorf("case not found")
)
