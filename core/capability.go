package core

import "context"

// Responder answers one category of action from the hidden case record.
//
// Implementations receive the full case file read-only plus the requested
// content and MUST return only information relevant to that specific request.
// The engine does not enforce minimality itself; scoping the answer is the
// responder's internal responsibility. The engine guarantees the case file is
// never mutated and never logged verbatim outside the responder boundary.
//
// Implementations may be human-scripted, rule-based or model-backed; the
// state machine is agnostic. Calls are potentially long-latency and must
// respect context cancellation.
type Responder interface {
	Answer(ctx context.Context, caseFile *CaseFile, content string) (*Answer, error)
}

// SuggestionSource proposes a draft next action from the visible history of
// an encounter. It never receives the hidden case file: the signature admits
// only the public abstract and the encounter aggregate, neither of which
// contains case-record text.
//
// A nil draft with a nil error means the source has nothing to propose
// (the human-steered no-op source behaves this way).
type SuggestionSource interface {
	Propose(ctx context.Context, abstract string, encounter *DiagnosticEncounter) (*DraftAction, error)
}

// PriceLookup resolves ordered tests to priced cost entries. Price is a
// total function: an unresolvable description yields a nil CPT code and the
// implementation's default amount, never an error.
type PriceLookup interface {
	Price(description string) (cptCode *string, amount float64)
	TestEntry(turnIndex int, orderContent, hint string) CostEntry
}

// Verdict is the structured output of a Judge capability call.
type Verdict struct {
	// Score is the diagnostic-accuracy score in 1..5.
	Score int
	// Rationale is the judge's free-text reasoning.
	Rationale string
}

// Judge scores a final diagnosis against the ground truth given the full
// encounter transcript. Retry policy belongs to the caller; implementations
// do not retry internally.
type Judge interface {
	Score(ctx context.Context, transcript, finalDiagnosis, groundTruth string) (*Verdict, error)
}
