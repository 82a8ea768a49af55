// Package clinmesh provides a high-level façade over the encounter engine and
// its services (responders, suggestion source, judge, stores & logging) for
// running turn-based diagnostic encounters against sequestered case files.
// Most applications interact with this package by:
//  1. Creating a ClinMesh via New() (wiring responders and a judge, optionally
//     overriding the default in-memory stores)
//  2. Starting an encounter for a loaded case file (StartEncounter)
//  3. Submitting actions turn by turn (SubmitAction), optionally drafting them
//     via RequestSuggestion and screening them via ValidateRequest
//  4. Finalizing the encounter to obtain the scored benchmark result (Finalize)
//
// The façade delegates sequencing, validation, dispatch and cost accrual to
// engine.Engine while keeping setup and usage ergonomics concise. All defaults
// are safe for local development and testing; production deployments typically
// supply model-backed responders and a structured logger.
package clinmesh

import (
	"context"

	"github.com/clinmesh/clinmesh/core"
	"github.com/clinmesh/clinmesh/engine"
	"github.com/clinmesh/clinmesh/gatekeeper"
	"github.com/clinmesh/clinmesh/logging"
	"github.com/clinmesh/clinmesh/suggestion"
)

// Options configures the ClinMesh instance.
type Options struct {
	// Config contains the cost and scoring parameters (visit fee, default
	// test cost, correctness threshold).
	Config engine.Config

	// Gatekeeper routes questions and test orders to responders. Required
	// for any encounter that submits non-diagnose actions.
	Gatekeeper *gatekeeper.Gatekeeper

	// Suggester drafts next actions from the visible context. Defaults to
	// the no-op source, which proposes nothing.
	Suggester core.SuggestionSource

	// Judge scores final diagnoses. Required for Finalize.
	Judge core.Judge

	// Ledger prices ordered tests (defaults to the built-in price table).
	Ledger core.PriceLookup

	// Stores (default to in-memory implementations if not provided)
	Encounters core.EncounterStore
	Cases      core.CaseStore

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// ClinMesh is the high-level façade aggregating the encounter engine and its
// services.
type ClinMesh struct {
	opts   Options
	engine *engine.Engine
}

// New creates a new ClinMesh instance with optional overrides. Any unset
// service is initialized with its in-memory or no-op implementation.
func New(optFns ...func(o *Options)) *ClinMesh {
	opts := Options{
		Config:    engine.DefaultConfig,
		Suggester: suggestion.NoOpSuggester{},
		Logger:    logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	e := engine.New(func(o *engine.Options) {
		o.Config = opts.Config
		o.Gatekeeper = opts.Gatekeeper
		o.Suggester = opts.Suggester
		o.Judge = opts.Judge
		o.Ledger = opts.Ledger
		o.Encounters = opts.Encounters
		o.Cases = opts.Cases
		o.Logger = opts.Logger
	})

	return &ClinMesh{opts: opts, engine: e}
}

// StartEncounter loads a case file and opens a fresh encounter against it,
// returning a read snapshot whose ID drives all subsequent calls.
func (m *ClinMesh) StartEncounter(caseFile *core.CaseFile) (*core.DiagnosticEncounter, error) {
	return m.engine.StartEncounter(caseFile)
}

// Encounter returns a read snapshot of an encounter.
func (m *ClinMesh) Encounter(encounterID string) (*core.DiagnosticEncounter, error) {
	return m.engine.Encounter(encounterID)
}

// SubmitAction applies one action as a full atomic turn and returns the
// updated snapshot plus, for questions and test orders, the recorded response.
func (m *ClinMesh) SubmitAction(ctx context.Context, encounterID string, actionType core.ActionType, content string, origin core.Origin) (*core.DiagnosticEncounter, *core.GatekeeperResponse, error) {
	return m.engine.SubmitAction(ctx, encounterID, actionType, content, origin)
}

// RequestSuggestion asks the suggestion source for a draft next action without
// consuming a turn. A nil draft means the source has nothing to propose.
func (m *ClinMesh) RequestSuggestion(ctx context.Context, encounterID string) (*core.DraftAction, error) {
	return m.engine.RequestSuggestion(ctx, encounterID)
}

// ValidateRequest screens a request for specificity without consuming a turn.
func (m *ClinMesh) ValidateRequest(actionType core.ActionType, content string) (bool, string) {
	return m.engine.ValidateRequest(actionType, content)
}

// Finalize scores the submitted diagnosis and freezes the encounter. Repeated
// calls return the cached result.
func (m *ClinMesh) Finalize(ctx context.Context, encounterID string) (*core.BenchmarkResult, error) {
	return m.engine.Finalize(ctx, encounterID)
}
