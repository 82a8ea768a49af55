package gatekeeper

import (
	"context"
	"fmt"
	"strings"

	"github.com/clinmesh/clinmesh/core"
	"github.com/clinmesh/clinmesh/model"
)

const examinationInstructions = `You are the examination and laboratory system in a diagnostic clinical encounter.
You will be given the complete case record and one test or examination order.
Report the result of EXACTLY the ordered test, using values from the record when
present. If the record does not contain the result, report a plausible normal
result. Never reveal other findings or the diagnosis.

Format your reply as:
TEST: <canonical test name, e.g. "CBC" or "CT abdomen pelvis with contrast">
RESULT: <the result>`

// ExaminationResponder returns results for ordered tests and examinations
// from the hidden case record. Its answers carry a normalized test name as a
// cost hint for the ledger.
type ExaminationResponder struct {
	llm model.Model
}

// NewExaminationResponder constructs a model-backed examination responder.
func NewExaminationResponder(llm model.Model) *ExaminationResponder {
	return &ExaminationResponder{llm: llm}
}

// Answer implements core.Responder.
func (r *ExaminationResponder) Answer(ctx context.Context, caseFile *core.CaseFile, content string) (*core.Answer, error) {
	prompt := fmt.Sprintf("CASE RECORD:\n%s\n\nORDERED TEST:\n%s", caseFile.FullText, content)
	resp, err := r.llm.Complete(ctx, model.Request{Instructions: examinationInstructions, Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("examination responder: %w", err)
	}
	hint, body := splitExamReply(resp.Content)
	return &core.Answer{
		Content:     body,
		Attribution: "examination=" + r.llm.Info().Name,
		CostHint:    hint,
	}, nil
}

// splitExamReply extracts the canonical test name from a "TEST:" header line.
// Replies without the header are passed through with an empty hint; the
// ledger then prices the raw order content instead.
func splitExamReply(reply string) (hint, body string) {
	trimmed := strings.TrimSpace(reply)
	lines := strings.SplitN(trimmed, "\n", 2)
	first := strings.TrimSpace(lines[0])
	if rest, ok := strings.CutPrefix(first, "TEST:"); ok {
		hint = strings.Trim(strings.TrimSpace(rest), `"`)
		if len(lines) == 2 {
			body = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(lines[1]), "RESULT:"))
			body = strings.TrimSpace(body)
		}
		if body == "" {
			body = trimmed
		}
		return hint, body
	}
	return "", strings.TrimSpace(strings.TrimPrefix(trimmed, "RESULT:"))
}
