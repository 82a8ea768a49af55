package gatekeeper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clinmesh/clinmesh/core"
	"github.com/clinmesh/clinmesh/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertions)
var (
	_ core.Responder = (*PatientResponder)(nil)
	_ core.Responder = (*ExaminationResponder)(nil)
	_ core.Responder = (*ScriptedResponder)(nil)
)

// MockResponder for routing tests
type MockResponder struct{ mock.Mock }

func (m *MockResponder) Answer(ctx context.Context, caseFile *core.CaseFile, content string) (*core.Answer, error) {
	args := m.Called(ctx, caseFile, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*core.Answer), args.Error(1)
}

func testCase() *core.CaseFile {
	return &core.CaseFile{
		CaseID:               "case-1",
		Abstract:             "29-year-old with right lower quadrant pain.",
		FullText:             "HPI: 29yo presenting with migratory RLQ pain, fever 38.2C. Labs: WBC 14.2.",
		GroundTruthDiagnosis: "Acute appendicitis",
	}
}

func action(at core.ActionType, content string) core.AgentAction {
	return core.AgentAction{ActionType: at, Content: content, Origin: core.OriginHumanAuthored, Timestamp: time.Now().UTC()}
}

func TestGatekeeper_Process_RoutesQuestionsToPatient(t *testing.T) {
	patient := &MockResponder{}
	exam := &MockResponder{}
	patient.On("Answer", mock.Anything, mock.Anything, "Any fever?").
		Return(&core.Answer{Content: "Yes, since yesterday.", Attribution: "patient=mock"}, nil)

	gk := New(patient, exam)
	answer, source, err := gk.Process(context.Background(), action(core.ActionAskQuestion, "Any fever?"), testCase())

	require.NoError(t, err)
	assert.Equal(t, core.SourcePatient, source)
	assert.Equal(t, "Yes, since yesterday.", answer.Content)
	patient.AssertExpectations(t)
	exam.AssertNotCalled(t, "Answer", mock.Anything, mock.Anything, mock.Anything)
}

func TestGatekeeper_Process_RoutesTestsToExamination(t *testing.T) {
	patient := &MockResponder{}
	exam := &MockResponder{}
	exam.On("Answer", mock.Anything, mock.Anything, "CBC").
		Return(&core.Answer{Content: "WBC 14.2", CostHint: "CBC"}, nil)

	gk := New(patient, exam)
	answer, source, err := gk.Process(context.Background(), action(core.ActionOrderTest, "CBC"), testCase())

	require.NoError(t, err)
	assert.Equal(t, core.SourceExamination, source)
	assert.Equal(t, "CBC", answer.CostHint)
	patient.AssertNotCalled(t, "Answer", mock.Anything, mock.Anything, mock.Anything)
}

func TestGatekeeper_Process_PropagatesResponderError(t *testing.T) {
	patient := &MockResponder{}
	cause := errors.New("model timeout")
	patient.On("Answer", mock.Anything, mock.Anything, mock.Anything).Return(nil, cause)

	gk := New(patient, &MockResponder{})
	_, source, err := gk.Process(context.Background(), action(core.ActionAskQuestion, "Any fever?"), testCase())

	require.ErrorIs(t, err, cause)
	assert.Equal(t, core.SourcePatient, source)
}

func TestGatekeeper_Process_RejectsDiagnose(t *testing.T) {
	gk := New(&MockResponder{}, &MockResponder{})
	_, _, err := gk.Process(context.Background(), action(core.ActionDiagnose, "appendicitis"), testCase())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "diagnose")
}

func TestGatekeeper_ValidateRequest(t *testing.T) {
	gk := New(&MockResponder{}, &MockResponder{})

	tests := []struct {
		name       string
		actionType core.ActionType
		content    string
		wantOK     bool
	}{
		{"specific question", core.ActionAskQuestion, "When did the pain start?", true},
		{"broad question", core.ActionAskQuestion, "Just tell me everything about the patient", false},
		{"broad question mixed case", core.ActionAskQuestion, "Summarize the Case please", false},
		{"specific test", core.ActionOrderTest, "Complete Blood Count", true},
		{"vague test", core.ActionOrderTest, "run blood work", false},
		{"vague imaging", core.ActionOrderTest, "Do some imaging", false},
		{"diagnose is never screened", core.ActionDiagnose, "get tests", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, guidance := gk.ValidateRequest(tt.actionType, tt.content)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.NotEmpty(t, guidance)
			}
		})
	}
}

func TestPatientResponder_ScopedPrompt(t *testing.T) {
	llm := model.NewMockModel("patient-model")
	llm.AddResponse(
		"CASE RECORD:\n"+testCase().FullText+"\n\nPHYSICIAN QUESTION:\nAny fever?",
		"Yes, I measured 38.2 last night.",
	)

	r := NewPatientResponder(llm)
	answer, err := r.Answer(context.Background(), testCase(), "Any fever?")

	require.NoError(t, err)
	assert.Equal(t, "Yes, I measured 38.2 last night.", answer.Content)
	assert.Equal(t, "patient=patient-model", answer.Attribution)
	assert.Empty(t, answer.CostHint, "patient answers never carry a cost hint")

	reqs := llm.Requests()
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].Prompt, "Any fever?")
	assert.Contains(t, reqs[0].Prompt, testCase().FullText)
}

func TestExaminationResponder_ParsesCostHint(t *testing.T) {
	llm := model.NewMockModel("exam-model")
	llm.AddResponse(
		"CASE RECORD:\n"+testCase().FullText+"\n\nORDERED TEST:\ncomplete blood count",
		"TEST: CBC\nRESULT: WBC 14.2 with neutrophil predominance.",
	)

	r := NewExaminationResponder(llm)
	answer, err := r.Answer(context.Background(), testCase(), "complete blood count")

	require.NoError(t, err)
	assert.Equal(t, "CBC", answer.CostHint)
	assert.Equal(t, "WBC 14.2 with neutrophil predominance.", answer.Content)
	assert.Equal(t, "examination=exam-model", answer.Attribution)
}

func TestSplitExamReply(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		wantHint string
		wantBody string
	}{
		{"header with quotes", "TEST: \"CBC\"\nRESULT: WBC 14.2", "CBC", "WBC 14.2"},
		{"no header", "RESULT: unremarkable", "", "unremarkable"},
		{"free text", "All values within normal limits.", "", "All values within normal limits."},
		{"header only", "TEST: CBC", "CBC", "TEST: CBC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hint, body := splitExamReply(tt.reply)
			assert.Equal(t, tt.wantHint, hint)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestScriptedResponder(t *testing.T) {
	r := NewScriptedResponder(core.SourceExamination, map[string]string{
		"CBC": "WBC 14.2",
	}, "")

	answer, err := r.Answer(context.Background(), testCase(), "cbc")
	require.NoError(t, err)
	assert.Equal(t, "WBC 14.2", answer.Content)
	assert.Equal(t, "cbc", answer.CostHint)
	assert.Equal(t, "examination=scripted", answer.Attribution)

	answer, err = r.Answer(context.Background(), testCase(), "MRI brain")
	require.NoError(t, err)
	assert.Equal(t, "The case record contains no information on that.", answer.Content)
}

func TestScriptedResponder_RespectsContext(t *testing.T) {
	r := NewScriptedResponder(core.SourcePatient, nil, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Answer(ctx, testCase(), "Any fever?")
	require.ErrorIs(t, err, context.Canceled)
}
