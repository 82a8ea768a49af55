package gatekeeper

import (
	"context"
	"fmt"

	"github.com/clinmesh/clinmesh/core"
	"github.com/clinmesh/clinmesh/model"
)

const patientInstructions = `You are role-playing a patient in a diagnostic clinical encounter.
You will be given the complete case record and one question from the physician.
Answer in the first person, as the patient would, using only facts from the record.
Answer ONLY the specific question asked. Do not volunteer other findings, test
results, or anything suggesting the diagnosis. If the record does not address
the question, say you don't know.`

// PatientResponder answers history and symptom questions from the hidden
// case record, scoped to the specific question asked.
type PatientResponder struct {
	llm model.Model
}

// NewPatientResponder constructs a model-backed patient responder.
func NewPatientResponder(llm model.Model) *PatientResponder {
	return &PatientResponder{llm: llm}
}

// Answer implements core.Responder.
func (r *PatientResponder) Answer(ctx context.Context, caseFile *core.CaseFile, content string) (*core.Answer, error) {
	prompt := fmt.Sprintf("CASE RECORD:\n%s\n\nPHYSICIAN QUESTION:\n%s", caseFile.FullText, content)
	resp, err := r.llm.Complete(ctx, model.Request{Instructions: patientInstructions, Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("patient responder: %w", err)
	}
	return &core.Answer{
		Content:     resp.Content,
		Attribution: "patient=" + r.llm.Info().Name,
	}, nil
}
