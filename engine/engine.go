package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/clinmesh/clinmesh/core"
	"github.com/clinmesh/clinmesh/evaluation"
	"github.com/clinmesh/clinmesh/gatekeeper"
	"github.com/clinmesh/clinmesh/ledger"
	"github.com/clinmesh/clinmesh/logging"
	"github.com/clinmesh/clinmesh/store"
	"github.com/clinmesh/clinmesh/suggestion"
)

// Config defines the cost and scoring parameters of an encounter. Each
// encounter runs against the configuration snapshot taken at engine
// construction; there are no process-wide mutable settings.
type Config struct {
	// PhysicianVisitCost is accrued exactly once per encounter, on the
	// first accepted action.
	PhysicianVisitCost float64

	// CorrectDiagnosisThreshold is the minimum judge score (1..5) counted
	// as a correct diagnosis.
	CorrectDiagnosisThreshold int

	// DefaultTestCost is charged for ordered tests missing from the price
	// table. An unresolved price never blocks a turn.
	DefaultTestCost float64
}

// DefaultConfig provides the standard benchmark parameters.
var DefaultConfig = Config{
	PhysicianVisitCost:        300,
	CorrectDiagnosisThreshold: 4,
	DefaultTestCost:           ledger.DefaultTestCost,
}

// Options configures an Engine instance using the functional options pattern.
// Stores default to in-memory implementations and the logger to NoOp;
// Gatekeeper and Judge have no sensible defaults and must be provided for
// dispatch and finalization respectively.
type Options struct {
	// Config contains cost and scoring parameters. Defaults to DefaultConfig.
	Config Config

	// Gatekeeper routes questions and test orders to responders.
	Gatekeeper *gatekeeper.Gatekeeper

	// Suggester drafts next actions. Defaults to the no-op source.
	Suggester core.SuggestionSource

	// Judge scores final diagnoses during finalization.
	Judge core.Judge

	// Ledger prices ordered tests. Defaults to the built-in table with
	// Config.DefaultTestCost as fallback.
	Ledger core.PriceLookup

	// Encounters keeps live encounters. Defaults to in-memory.
	Encounters core.EncounterStore

	// Cases provides read access to loaded case files. Defaults to in-memory.
	Cases core.CaseStore

	// Logger defaults to NoOpLogger if nil.
	Logger logging.Logger
}

// Engine is the encounter state machine. It owns turn sequencing, validation,
// dispatch, cost accrual and finalization for every encounter it starts.
//
// All public methods are safe for concurrent use. Turns against one encounter
// are serialized by a per-encounter single-writer lock held for the full turn
// including the responder call; independent encounters proceed in parallel.
type Engine struct {
	config     Config
	gatekeeper *gatekeeper.Gatekeeper
	suggester  core.SuggestionSource
	pipeline   *evaluation.Pipeline
	ledger     core.PriceLookup
	encounters core.EncounterStore
	cases      core.CaseStore
	logger     logging.Logger

	// Per-encounter turn locks - lazily created, never removed
	locks   map[string]*sync.Mutex
	locksMu sync.Mutex
}

// New creates an Engine with in-memory defaults and optional overrides.
func New(optFns ...func(o *Options)) *Engine {
	opts := Options{
		Config:    DefaultConfig,
		Suggester: suggestion.NoOpSuggester{},
		Logger:    logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Suggester == nil {
		opts.Suggester = suggestion.NoOpSuggester{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Encounters == nil {
		opts.Encounters = store.NewInMemoryEncounterStore()
	}
	if opts.Cases == nil {
		opts.Cases = store.NewInMemoryCaseStore()
	}
	if opts.Ledger == nil {
		defaultCost := opts.Config.DefaultTestCost
		opts.Ledger = ledger.New(func(o *ledger.Options) { o.DefaultTestCost = defaultCost })
	}

	var pipeline *evaluation.Pipeline
	if opts.Judge != nil {
		threshold := opts.Config.CorrectDiagnosisThreshold
		pipeline = evaluation.NewPipeline(opts.Judge, func(o *evaluation.Options) {
			o.CorrectThreshold = threshold
			o.Logger = opts.Logger
		})
	}

	return &Engine{
		config:     opts.Config,
		gatekeeper: opts.Gatekeeper,
		suggester:  opts.Suggester,
		pipeline:   pipeline,
		ledger:     opts.Ledger,
		encounters: opts.Encounters,
		cases:      opts.Cases,
		logger:     opts.Logger,
		locks:      make(map[string]*sync.Mutex),
	}
}

// StartEncounter loads the case file and creates a fresh encounter for it.
// The returned encounter is a read snapshot; use its ID for all subsequent
// operations.
func (e *Engine) StartEncounter(caseFile *core.CaseFile) (*core.DiagnosticEncounter, error) {
	if caseFile == nil || strings.TrimSpace(caseFile.CaseID) == "" {
		return nil, fmt.Errorf("case file with a case_id is required")
	}
	if err := e.cases.Put(caseFile); err != nil {
		return nil, fmt.Errorf("store case file: %w", err)
	}

	enc := core.NewEncounter(core.NewID(), caseFile.CaseID)
	if err := e.encounters.Put(enc); err != nil {
		return nil, fmt.Errorf("store encounter: %w", err)
	}
	e.logger.Info("encounter started", "encounter_id", enc.ID, "case_id", caseFile.CaseID)
	return enc.Clone(), nil
}

// Encounter returns a read snapshot of an encounter.
func (e *Engine) Encounter(encounterID string) (*core.DiagnosticEncounter, error) {
	enc, err := e.encounters.Get(encounterID)
	if err != nil {
		return nil, err
	}
	return enc.Clone(), nil
}

// SubmitAction validates and applies one action as a full atomic turn.
//
// Questions dispatch to the Patient Responder, test orders to the
// Examination Responder plus the cost ledger, and a diagnosis records the
// final answer and moves the encounter to awaiting evaluation without
// dispatch. The physician-visit fee is accrued with the first accepted
// action, whatever its type.
//
// On success it returns a snapshot of the updated encounter and, for
// non-diagnose actions, the recorded response. On failure the encounter is
// unchanged: core.ErrInvalidTransition and core.ErrEmptyContent mark caller
// errors, core.DispatchError a retryable responder failure.
func (e *Engine) SubmitAction(ctx context.Context, encounterID string, actionType core.ActionType, content string, origin core.Origin) (*core.DiagnosticEncounter, *core.GatekeeperResponse, error) {
	if !actionType.IsValid() {
		return nil, nil, fmt.Errorf("unknown action type %q", actionType)
	}
	if !origin.IsValid() {
		return nil, nil, fmt.Errorf("unknown origin %q", origin)
	}
	if strings.TrimSpace(content) == "" {
		return nil, nil, fmt.Errorf("submit %s: %w", actionType, core.ErrEmptyContent)
	}

	lock := e.turnLock(encounterID)
	lock.Lock()
	defer lock.Unlock()

	enc, err := e.encounters.Get(encounterID)
	if err != nil {
		return nil, nil, err
	}
	if status := enc.CurrentStatus(); !status.AcceptsActions() {
		return nil, nil, fmt.Errorf("submit %s in status %s: %w", actionType, status, core.ErrInvalidTransition)
	}

	turnIndex := enc.NextTurnIndex()
	action := core.AgentAction{
		ActionType: actionType,
		Content:    content,
		Origin:     origin,
		TurnIndex:  turnIndex,
		Timestamp:  time.Now().UTC(),
	}

	var costs []core.CostEntry
	if !enc.HasVisitFee() {
		costs = append(costs, ledger.VisitEntry(turnIndex, e.config.PhysicianVisitCost))
	}

	if actionType == core.ActionDiagnose {
		if err := enc.ApplyTurn(core.Turn{Action: action, Costs: costs}); err != nil {
			return nil, nil, err
		}
		e.logger.Info("diagnosis submitted", "encounter_id", encounterID, "turn_index", turnIndex)
		return enc.Clone(), nil, nil
	}

	if e.gatekeeper == nil {
		return nil, nil, fmt.Errorf("no gatekeeper configured")
	}
	caseFile, err := e.cases.Get(enc.CaseID)
	if err != nil {
		return nil, nil, fmt.Errorf("load case %s: %w", enc.CaseID, err)
	}

	start := time.Now()
	answer, source, err := e.gatekeeper.Process(ctx, action, caseFile)
	if err != nil {
		e.logger.Error("responder dispatch failed",
			"encounter_id", encounterID,
			"action_type", actionType,
			"turn_index", turnIndex,
			"error", err,
		)
		return nil, nil, &core.DispatchError{ActionType: actionType, TurnIndex: turnIndex, Err: err}
	}
	e.logger.Debug("responder dispatch completed",
		"encounter_id", encounterID,
		"source", source,
		"turn_index", turnIndex,
		"duration", time.Since(start),
	)

	response := &core.GatekeeperResponse{
		Source:      source,
		Content:     answer.Content,
		Attribution: answer.Attribution,
		TurnIndex:   turnIndex,
	}
	if actionType == core.ActionOrderTest {
		entry := e.ledger.TestEntry(turnIndex, content, answer.CostHint)
		costs = append(costs, entry)
		amount := entry.Amount
		response.Cost = &amount
	}

	if err := enc.ApplyTurn(core.Turn{Action: action, Response: response, Costs: costs}); err != nil {
		return nil, nil, err
	}
	return enc.Clone(), response, nil
}

// RequestSuggestion asks the suggestion source for a draft next action. The
// source sees the case abstract and the visible history, never the hidden
// record. A nil draft means the source has nothing to propose. The encounter
// is not mutated.
func (e *Engine) RequestSuggestion(ctx context.Context, encounterID string) (*core.DraftAction, error) {
	enc, err := e.encounters.Get(encounterID)
	if err != nil {
		return nil, err
	}
	caseFile, err := e.cases.Get(enc.CaseID)
	if err != nil {
		return nil, fmt.Errorf("load case %s: %w", enc.CaseID, err)
	}
	return e.suggester.Propose(ctx, caseFile.Abstract, enc.Clone())
}

// ValidateRequest screens a drafted or user-written request for specificity
// without consuming a turn. Without a configured gatekeeper everything
// passes.
func (e *Engine) ValidateRequest(actionType core.ActionType, content string) (bool, string) {
	if e.gatekeeper == nil {
		return true, ""
	}
	return e.gatekeeper.ValidateRequest(actionType, content)
}

// Finalize runs the evaluation pipeline on an encounter awaiting evaluation,
// attaches the benchmark result and freezes the encounter. Calling it again
// on a complete encounter returns the cached result without another judge
// invocation. Judge failures surface as core.EvaluationError and leave the
// encounter retryable.
func (e *Engine) Finalize(ctx context.Context, encounterID string) (*core.BenchmarkResult, error) {
	lock := e.turnLock(encounterID)
	lock.Lock()
	defer lock.Unlock()

	enc, err := e.encounters.Get(encounterID)
	if err != nil {
		return nil, err
	}

	switch status := enc.CurrentStatus(); status {
	case core.StatusComplete:
		return enc.CachedResult(), nil
	case core.StatusAwaitingEvaluation:
		// proceed
	default:
		return nil, fmt.Errorf("finalize in status %s: %w", status, core.ErrInvalidTransition)
	}

	if e.pipeline == nil {
		return nil, &core.EvaluationError{EncounterID: encounterID, Err: fmt.Errorf("no judge configured")}
	}
	caseFile, err := e.cases.Get(enc.CaseID)
	if err != nil {
		return nil, &core.EvaluationError{EncounterID: encounterID, Err: err}
	}

	result, err := e.pipeline.Evaluate(ctx, enc, caseFile)
	if err != nil {
		return nil, err
	}
	if err := enc.AttachResult(result); err != nil {
		return nil, err
	}
	e.logger.Info("encounter finalized",
		"encounter_id", encounterID,
		"score", result.JudgeScore,
		"is_correct", result.IsCorrect,
		"total_cost", result.TotalCost,
	)
	return result, nil
}

// turnLock returns the single-writer lock for an encounter, creating it on
// first use.
func (e *Engine) turnLock(encounterID string) *sync.Mutex {
	e.locksMu.Lock()
	defer e.locksMu.Unlock()
	lock, ok := e.locks[encounterID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[encounterID] = lock
	}
	return lock
}
