// Package suggestion provides SuggestionSource implementations: a no-op
// source for human-steered encounters and a model-backed proposer that drafts
// the next action from the visible history.
//
// Suggestion sources never see the hidden case record. They receive only the
// case abstract and the encounter aggregate, which contains actions and
// scoped responses but no case-file text.
package suggestion

import (
	"context"
	"fmt"
	"strings"

	"github.com/clinmesh/clinmesh/core"
	"github.com/clinmesh/clinmesh/model"
)

// NoOpSuggester never proposes anything. It backs human-steered encounters
// where every action is authored by the controlling party.
type NoOpSuggester struct{}

// Propose implements core.SuggestionSource; it always returns a nil draft.
func (NoOpSuggester) Propose(context.Context, string, *core.DiagnosticEncounter) (*core.DraftAction, error) {
	return nil, nil
}

const suggesterInstructions = `You are assisting a physician working through a diagnostic encounter.
Given the case abstract and the encounter history so far, propose exactly one
next step. Prefer cheap, high-information questions early; order tests only
when a question cannot discriminate; diagnose once the evidence is sufficient.

Reply with exactly one line in one of these forms:
QUESTION: <one specific question for the patient>
TEST: <one specific test to order>
DIAGNOSIS: <the final diagnosis>`

// ModelSuggester drafts the next action with a model capability.
type ModelSuggester struct {
	llm model.Model
}

// NewModelSuggester constructs a model-backed suggestion source.
func NewModelSuggester(llm model.Model) *ModelSuggester {
	return &ModelSuggester{llm: llm}
}

// Propose implements core.SuggestionSource.
func (s *ModelSuggester) Propose(ctx context.Context, abstract string, enc *core.DiagnosticEncounter) (*core.DraftAction, error) {
	prompt := fmt.Sprintf("CASE ABSTRACT:\n%s\n\nENCOUNTER HISTORY:\n%s", abstract, historyText(enc))
	resp, err := s.llm.Complete(ctx, model.Request{Instructions: suggesterInstructions, Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("model suggester: %w", err)
	}
	return ParseDraft(resp.Content)
}

// ParseDraft converts a one-line "QUESTION:/TEST:/DIAGNOSIS:" reply into a
// draft action.
func ParseDraft(reply string) (*core.DraftAction, error) {
	line := strings.TrimSpace(reply)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	for prefix, actionType := range map[string]core.ActionType{
		"QUESTION:":  core.ActionAskQuestion,
		"TEST:":      core.ActionOrderTest,
		"DIAGNOSIS:": core.ActionDiagnose,
	} {
		if rest, ok := strings.CutPrefix(line, prefix); ok {
			content := strings.TrimSpace(rest)
			if content == "" {
				return nil, fmt.Errorf("suggestion %q has no content", line)
			}
			return &core.DraftAction{ActionType: actionType, Content: content}, nil
		}
	}
	return nil, fmt.Errorf("unparseable suggestion: %q", line)
}

// historyText renders the visible history the way the suggester sees it. The
// encounter carries only actions and scoped responses, so nothing here can
// leak the hidden record.
func historyText(enc *core.DiagnosticEncounter) string {
	snapshot := enc.Clone()
	if len(snapshot.Actions) == 0 {
		return "(no actions yet)"
	}
	responses := make(map[int]core.GatekeeperResponse, len(snapshot.Responses))
	for _, r := range snapshot.Responses {
		responses[r.TurnIndex] = r
	}
	var sb strings.Builder
	for _, a := range snapshot.Actions {
		fmt.Fprintf(&sb, "%d. [%s] %s\n", a.TurnIndex, a.ActionType, a.Content)
		if r, ok := responses[a.TurnIndex]; ok {
			fmt.Fprintf(&sb, "   -> [%s] %s\n", r.Source, r.Content)
		}
	}
	return sb.String()
}
