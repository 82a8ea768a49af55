// Package engine implements the encounter state machine at the core of
// ClinMesh: turn sequencing, action legality, dispatch to responders, cost
// accrual and the hand-off to the evaluation pipeline.
//
// # Core Responsibilities
//
// Turn Orchestration:
//   - Assigns monotonic turn indices, exactly once, engine-side
//   - Dispatches questions and test orders to the gatekeeper's responders
//   - Accrues the physician-visit fee once and prices every ordered test
//   - Commits each turn atomically: action + response + cost entries, or nothing
//
// Lifecycle Management:
//   - Enforces the strictly forward status progression
//     initialized → in_progress → awaiting_evaluation → complete
//   - Accepts at most one diagnosis per encounter
//   - Finalization is idempotent: a completed encounter returns its cached result
//
// Failure Semantics:
//   - Responder failures surface as core.DispatchError with the encounter
//     unchanged, making the same submission safe to retry
//   - Judge failures surface as core.EvaluationError with the encounter
//     still awaiting evaluation
//   - Error messages identify the failing action and turn but never quote
//     the hidden case record
//
// # Concurrency Model
//
// One encounter is strictly sequential: a single-writer lock per encounter is
// held for the whole of a turn, including the potentially long-latency
// responder or judge call, so no caller ever observes partial state.
// Independent encounters share nothing mutable and run concurrently.
//
// # Usage
//
//	eng := engine.New(func(o *engine.Options) {
//	    o.Gatekeeper = gatekeeper.New(patient, examination)
//	    o.Judge = evaluation.NewModelJudge(judgeModel)
//	    o.Suggester = suggestion.NewModelSuggester(suggesterModel)
//	})
//
//	enc, _ := eng.StartEncounter(caseFile)
//	_, resp, err := eng.SubmitAction(ctx, enc.ID, core.ActionAskQuestion,
//	    "What brings you in today?", core.OriginHumanAuthored)
//	...
//	_, _, err = eng.SubmitAction(ctx, enc.ID, core.ActionDiagnose,
//	    "Acute appendicitis", core.OriginHumanAuthored)
//	result, err := eng.Finalize(ctx, enc.ID)
package engine
