package core

import (
	"fmt"
	"sync"
	"time"
)

// Status is the lifecycle state of a diagnostic encounter. Transitions are
// strictly forward; no state is re-enterable.
type Status string

const (
	// StatusInitialized means the history is empty and only the case
	// abstract is visible.
	StatusInitialized Status = "initialized"
	// StatusInProgress means at least one non-terminal action was applied.
	StatusInProgress Status = "in_progress"
	// StatusAwaitingEvaluation means the diagnosis was submitted and the
	// encounter accepts no further actions.
	StatusAwaitingEvaluation Status = "awaiting_evaluation"
	// StatusComplete means the evaluation result is attached and the
	// encounter is frozen.
	StatusComplete Status = "complete"
)

// IsValid reports whether the value is one of the defined statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusInitialized, StatusInProgress, StatusAwaitingEvaluation, StatusComplete:
		return true
	}
	return false
}

// AcceptsActions reports whether submit may be called in this status.
func (s Status) AcceptsActions() bool {
	return s == StatusInitialized || s == StatusInProgress
}

// Turn groups one action with its mandatory response and any cost entries so
// the encounter can record it atomically. A diagnose turn carries no
// response; every other turn carries exactly one.
type Turn struct {
	Action   AgentAction
	Response *GatekeeperResponse
	Costs    []CostEntry
}

// DiagnosticEncounter is the aggregate for one complete case encounter: the
// ordered action history, the parallel response sequence, the cost ledger
// entries and the lifecycle status. It is safe for concurrent access.
//
// Contract:
//   - ApplyTurn is the only mutator of history and cumulative cost
//   - Turn indices are assigned contiguously starting at zero
//   - A turn is recorded fully or not at all; no partial turns persist
//   - Clone returns a deep copy for safe external reads
type DiagnosticEncounter struct {
	ID             string               `json:"id"`
	CaseID         string               `json:"case_id"`
	Actions        []AgentAction        `json:"actions"`
	Responses      []GatekeeperResponse `json:"responses"`
	Costs          []CostEntry          `json:"costs"`
	CumulativeCost float64              `json:"cumulative_cost"`
	Status         Status               `json:"status"`
	FinalDiagnosis *string              `json:"final_diagnosis"`
	Result         *BenchmarkResult     `json:"result,omitempty"`
	Created        time.Time            `json:"created"`
	Updated        time.Time            `json:"updated"`

	mu sync.RWMutex
}

// NewEncounter creates an initialized encounter bound to a case.
func NewEncounter(id, caseID string) *DiagnosticEncounter {
	now := time.Now().UTC()
	return &DiagnosticEncounter{
		ID:        id,
		CaseID:    caseID,
		Actions:   []AgentAction{},
		Responses: []GatekeeperResponse{},
		Costs:     []CostEntry{},
		Status:    StatusInitialized,
		Created:   now,
		Updated:   now,
	}
}

// NextTurnIndex returns the turn index the next accepted action will receive.
func (e *DiagnosticEncounter) NextTurnIndex() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.Actions)
}

// TurnCount returns the number of accepted actions.
func (e *DiagnosticEncounter) TurnCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.Actions)
}

// CurrentStatus returns the encounter's lifecycle status.
func (e *DiagnosticEncounter) CurrentStatus() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.Status
}

// Cost returns the running cumulative cost.
func (e *DiagnosticEncounter) Cost() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.CumulativeCost
}

// HasVisitFee reports whether the physician-visit fee was already accrued.
func (e *DiagnosticEncounter) HasVisitFee() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, c := range e.Costs {
		if c.Category == CostVisit {
			return true
		}
	}
	return false
}

// Diagnosis returns the final diagnosis and whether one was submitted.
func (e *DiagnosticEncounter) Diagnosis() (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.FinalDiagnosis == nil {
		return "", false
	}
	return *e.FinalDiagnosis, true
}

// ApplyTurn appends a fully-formed turn to the history, updating cumulative
// cost and lifecycle status. The append is atomic: validation happens before
// any mutation, so a rejected turn leaves the encounter untouched.
//
// Enforced invariants:
//   - status accepts actions (ErrInvalidTransition otherwise)
//   - the action's turn index equals the next contiguous index
//   - a diagnose turn carries no response; any other turn carries exactly
//     one response with a matching turn index
//   - at most one diagnose turn per encounter
func (e *DiagnosticEncounter) ApplyTurn(t Turn) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.Status.AcceptsActions() {
		return fmt.Errorf("cannot apply %s turn in status %s: %w", t.Action.ActionType, e.Status, ErrInvalidTransition)
	}
	if want := len(e.Actions); t.Action.TurnIndex != want {
		return fmt.Errorf("turn index %d out of sequence, want %d", t.Action.TurnIndex, want)
	}
	if t.Action.ActionType.Terminal() {
		if t.Response != nil {
			return fmt.Errorf("diagnose turn %d must not carry a response", t.Action.TurnIndex)
		}
	} else {
		if t.Response == nil {
			return fmt.Errorf("%s turn %d is missing its response", t.Action.ActionType, t.Action.TurnIndex)
		}
		if t.Response.TurnIndex != t.Action.TurnIndex {
			return fmt.Errorf("response turn index %d does not match action turn index %d", t.Response.TurnIndex, t.Action.TurnIndex)
		}
	}
	for _, c := range t.Costs {
		if c.TurnIndex != t.Action.TurnIndex {
			return fmt.Errorf("cost entry turn index %d does not match action turn index %d", c.TurnIndex, t.Action.TurnIndex)
		}
	}

	e.Actions = append(e.Actions, t.Action)
	if t.Response != nil {
		e.Responses = append(e.Responses, *t.Response)
	}
	for _, c := range t.Costs {
		e.Costs = append(e.Costs, c)
		e.CumulativeCost += c.Amount
	}

	if t.Action.ActionType.Terminal() {
		diagnosis := t.Action.Content
		e.FinalDiagnosis = &diagnosis
		e.Status = StatusAwaitingEvaluation
	} else {
		e.Status = StatusInProgress
	}
	e.Updated = time.Now().UTC()
	return nil
}

// AttachResult attaches the evaluation result and freezes the encounter.
// Valid only in the awaiting-evaluation status.
func (e *DiagnosticEncounter) AttachResult(r *BenchmarkResult) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Status != StatusAwaitingEvaluation {
		return fmt.Errorf("cannot attach result in status %s: %w", e.Status, ErrInvalidTransition)
	}
	cp := *r
	e.Result = &cp
	e.Status = StatusComplete
	e.Updated = time.Now().UTC()
	return nil
}

// CachedResult returns a copy of the attached evaluation result, or nil if
// the encounter has not been finalized.
func (e *DiagnosticEncounter) CachedResult() *BenchmarkResult {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.Result == nil {
		return nil
	}
	cp := *e.Result
	return &cp
}

// RecomputeCost independently sums the cost-entry amounts. It must always
// equal CumulativeCost; the pair exists for audit checks.
func (e *DiagnosticEncounter) RecomputeCost() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var total float64
	for _, c := range e.Costs {
		total += c.Amount
	}
	return total
}

// Clone returns a deep copy of the encounter safe for external reads while
// turns continue against the original.
func (e *DiagnosticEncounter) Clone() *DiagnosticEncounter {
	e.mu.RLock()
	defer e.mu.RUnlock()
	clone := &DiagnosticEncounter{
		ID:             e.ID,
		CaseID:         e.CaseID,
		Actions:        make([]AgentAction, len(e.Actions)),
		Responses:      make([]GatekeeperResponse, len(e.Responses)),
		Costs:          make([]CostEntry, len(e.Costs)),
		CumulativeCost: e.CumulativeCost,
		Status:         e.Status,
		Created:        e.Created,
		Updated:        e.Updated,
	}
	copy(clone.Actions, e.Actions)
	copy(clone.Responses, e.Responses)
	copy(clone.Costs, e.Costs)
	if e.FinalDiagnosis != nil {
		d := *e.FinalDiagnosis
		clone.FinalDiagnosis = &d
	}
	if e.Result != nil {
		r := *e.Result
		clone.Result = &r
	}
	return clone
}
