package gatekeeper

import (
	"context"

	"github.com/clinmesh/clinmesh/core"
	"github.com/clinmesh/clinmesh/ledger"
)

// ScriptedResponder answers from a canned request→answer table. It is used in
// tests, examples and offline CLI runs where no model capability is wired.
// Requests are matched after ledger normalization (case and whitespace
// insensitive).
type ScriptedResponder struct {
	source   core.ResponderSource
	answers  map[string]string
	fallback string
}

// NewScriptedResponder builds a responder for the given source. The answers
// map is keyed by request text; unmatched requests return the fallback.
func NewScriptedResponder(source core.ResponderSource, answers map[string]string, fallback string) *ScriptedResponder {
	normalized := make(map[string]string, len(answers))
	for k, v := range answers {
		normalized[ledger.Normalize(k)] = v
	}
	if fallback == "" {
		fallback = "The case record contains no information on that."
	}
	return &ScriptedResponder{source: source, answers: normalized, fallback: fallback}
}

// Answer implements core.Responder. Examination answers carry the raw request
// as the cost hint.
func (r *ScriptedResponder) Answer(ctx context.Context, caseFile *core.CaseFile, content string) (*core.Answer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text, ok := r.answers[ledger.Normalize(content)]
	if !ok {
		text = r.fallback
	}
	answer := &core.Answer{
		Content:     text,
		Attribution: string(r.source) + "=scripted",
	}
	if r.source == core.SourceExamination {
		answer.CostHint = content
	}
	return answer, nil
}
