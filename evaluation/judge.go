package evaluation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/clinmesh/clinmesh/core"
	"github.com/clinmesh/clinmesh/model"
)

const judgeInstructions = `You are grading the final diagnosis of a diagnostic clinical encounter.
Compare the submitted diagnosis against the reference diagnosis, taking the
encounter transcript into account for specificity and laterality.

Score on a 1-5 scale:
5 = clinically identical to the reference diagnosis
4 = correct condition, minor difference in specificity
3 = closely related condition or incomplete diagnosis
2 = same organ system but wrong condition
1 = unrelated or fundamentally wrong

Reply with the integer score on the first line, followed by a short rationale.`

// ModelJudge scores diagnoses with a model capability. The model must reply
// with a leading integer 1..5; the remainder is taken as the rationale.
type ModelJudge struct {
	llm model.Model
}

// NewModelJudge constructs a model-backed judge.
func NewModelJudge(llm model.Model) *ModelJudge {
	return &ModelJudge{llm: llm}
}

// Score implements core.Judge.
func (j *ModelJudge) Score(ctx context.Context, transcript, finalDiagnosis, groundTruth string) (*core.Verdict, error) {
	prompt := fmt.Sprintf(
		"TRANSCRIPT:\n%s\nSUBMITTED DIAGNOSIS: %s\nREFERENCE DIAGNOSIS: %s",
		transcript, finalDiagnosis, groundTruth,
	)
	resp, err := j.llm.Complete(ctx, model.Request{Instructions: judgeInstructions, Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("model judge: %w", err)
	}
	return parseVerdict(resp.Content)
}

// parseVerdict extracts "score, rationale" from a judge completion. The first
// token of the reply must be an integer 1..5; anything after it (same line or
// following lines) becomes the rationale.
func parseVerdict(reply string) (*core.Verdict, error) {
	trimmed := strings.TrimSpace(reply)
	if trimmed == "" {
		return nil, fmt.Errorf("empty judge reply")
	}
	fields := strings.Fields(trimmed)
	score, err := strconv.Atoi(strings.Trim(fields[0], ".:"))
	if err != nil {
		return nil, fmt.Errorf("judge reply does not start with a score: %q", fields[0])
	}
	if score < 1 || score > 5 {
		return nil, fmt.Errorf("judge score %d outside 1..5", score)
	}
	rationale := strings.TrimSpace(strings.TrimPrefix(trimmed, fields[0]))
	return &core.Verdict{Score: score, Rationale: rationale}, nil
}
