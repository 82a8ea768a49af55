package gatekeeper

import (
	"context"
	"fmt"
	"strings"

	"github.com/clinmesh/clinmesh/core"
	"github.com/clinmesh/clinmesh/logging"
)

// broadIndicators flag questions that fish for the whole record instead of a
// specific finding.
var broadIndicators = []string{
	"tell me everything",
	"what's wrong",
	"what should i do",
	"give me all information",
	"summarize the case",
}

// vagueIndicators flag test orders that name a category instead of a test.
var vagueIndicators = []string{
	"run blood work",
	"do some imaging",
	"order labs",
	"get tests",
	"run diagnostics",
}

// Options configures a Gatekeeper.
type Options struct {
	// Logger defaults to NoOpLogger if nil.
	Logger logging.Logger
}

// Gatekeeper routes actions to the correct responder. It holds no encounter
// state and is safe for concurrent use across encounters.
type Gatekeeper struct {
	patient     core.Responder
	examination core.Responder
	logger      logging.Logger
}

// New constructs a Gatekeeper over the two responders.
func New(patient, examination core.Responder, optFns ...func(o *Options)) *Gatekeeper {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Gatekeeper{patient: patient, examination: examination, logger: opts.Logger}
}

// Process answers a question or test request using the appropriate responder
// and reports which source produced the answer. Diagnose actions are terminal
// and never dispatched; passing one is a programming error surfaced as such.
func (g *Gatekeeper) Process(ctx context.Context, action core.AgentAction, caseFile *core.CaseFile) (*core.Answer, core.ResponderSource, error) {
	switch action.ActionType {
	case core.ActionAskQuestion:
		answer, err := g.patient.Answer(ctx, caseFile, action.Content)
		if err != nil {
			return nil, core.SourcePatient, err
		}
		g.logger.Debug("patient responder answered", "turn_index", action.TurnIndex)
		return answer, core.SourcePatient, nil
	case core.ActionOrderTest:
		answer, err := g.examination.Answer(ctx, caseFile, action.Content)
		if err != nil {
			return nil, core.SourceExamination, err
		}
		g.logger.Debug("examination responder answered", "turn_index", action.TurnIndex)
		return answer, core.SourceExamination, nil
	default:
		return nil, "", fmt.Errorf("gatekeeper cannot process action type %q", action.ActionType)
	}
}

// ValidateRequest checks whether a drafted or submitted request is specific
// enough for dispatch. It returns false plus corrective guidance for overly
// broad questions and vague test orders; validation never consumes a turn.
func (g *Gatekeeper) ValidateRequest(actionType core.ActionType, content string) (bool, string) {
	lower := strings.ToLower(content)

	switch actionType {
	case core.ActionAskQuestion:
		for _, indicator := range broadIndicators {
			if strings.Contains(lower, indicator) {
				return false, "Please ask more specific questions about the patient's history or examination findings."
			}
		}
	case core.ActionOrderTest:
		for _, indicator := range vagueIndicators {
			if strings.Contains(lower, indicator) {
				return false, "Please specify the exact test you would like to order (e.g., 'Complete Blood Count', 'CT of the abdomen with contrast')."
			}
		}
	}
	return true, ""
}
