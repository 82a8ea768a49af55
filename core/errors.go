package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned when an operation is illegal for the
	// encounter's current status, e.g. submitting an action after the
	// diagnosis, or finalizing before it. Always a caller error.
	ErrInvalidTransition = errors.New("invalid encounter transition")

	// ErrEmptyContent is returned when an action is submitted with blank
	// content. Always a caller error.
	ErrEmptyContent = errors.New("action content must not be empty")
)

// DispatchError wraps a responder capability failure. The in-progress turn is
// discarded entirely and the encounter state is unchanged, so the same
// submission is safe to retry.
//
// The message identifies the failing action by type and prospective turn
// index; it never includes case-file contents.
type DispatchError struct {
	ActionType ActionType
	TurnIndex  int
	Err        error
}

// Error implements the error interface.
func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch failed for %s at turn %d: %v", e.ActionType, e.TurnIndex, e.Err)
}

// Unwrap exposes the underlying capability error for errors.Is / errors.As.
func (e *DispatchError) Unwrap() error { return e.Err }

// EvaluationError wraps a judge capability failure or a missing final
// diagnosis. The encounter remains in its awaiting-evaluation status and
// finalization is safe to retry.
type EvaluationError struct {
	EncounterID string
	Err         error
}

// Error implements the error interface.
func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation failed for encounter %s: %v", e.EncounterID, e.Err)
}

// Unwrap exposes the underlying capability error for errors.Is / errors.As.
func (e *EvaluationError) Unwrap() error { return e.Err }
