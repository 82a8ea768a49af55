package evaluation

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

// Interface compliance (compile-time assertion)
var _ core.Judge = (*ModelJudge)(nil)

// MockJudge for pipeline tests
type MockJudge struct{ mock.Mock }

func (m *MockJudge) Score(ctx context.Context, transcript, finalDiagnosis, groundTruth string) (*core.Verdict, error) {
	args := m.Called(ctx, transcript, finalDiagnosis, groundTruth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*core.Verdict), args.Error(1)
}

func finalizedEncounter(t *testing.T) *core.DiagnosticEncounter {
	t.Helper()
	enc := core.NewEncounter("enc-1", "case-1")
	cost := 29.0
	cpt := "85025"
	require.NoError(t, enc.ApplyTurn(core.Turn{
		Action:   core.AgentAction{ActionType: core.ActionAskQuestion, Content: "Any fever?", Origin: core.OriginHumanAuthored, TurnIndex: 0, Timestamp: time.Now().UTC()},
		Response: &core.GatekeeperResponse{Source: core.SourcePatient, Content: "Yes, 38.2.", TurnIndex: 0},
		Costs:    []core.CostEntry{{TurnIndex: 0, ItemDescription: "physician visit", Amount: 300, Category: core.CostVisit}},
	}))
	require.NoError(t, enc.ApplyTurn(core.Turn{
		Action:   core.AgentAction{ActionType: core.ActionOrderTest, Content: "CBC", Origin: core.OriginAISuggestedAccepted, TurnIndex: 1, Timestamp: time.Now().UTC()},
		Response: &core.GatekeeperResponse{Source: core.SourceExamination, Content: "WBC 14.2.", TurnIndex: 1, Cost: &cost},
		Costs:    []core.CostEntry{{TurnIndex: 1, ItemDescription: "CBC", CPTCode: &cpt, Amount: 29, Category: core.CostTest}},
	}))
	require.NoError(t, enc.ApplyTurn(core.Turn{
		Action: core.AgentAction{ActionType: core.ActionDiagnose, Content: "Acute appendicitis", Origin: core.OriginHumanAuthored, TurnIndex: 2, Timestamp: time.Now().UTC()},
	}))
	return enc
}

func TestPipeline_Evaluate(t *testing.T) {
	enc := finalizedEncounter(t)
	cf := &core.CaseFile{CaseID: "case-1", GroundTruthDiagnosis: "Acute appendicitis"}

	judge := &MockJudge{}
	judge.On("Score", mock.Anything, mock.Anything, "Acute appendicitis", "Acute appendicitis").
		Return(&core.Verdict{Score: 5, Rationale: "exact match"}, nil)

	p := NewPipeline(judge)
	result, err := p.Evaluate(context.Background(), enc, cf)

	require.NoError(t, err)
	assert.Equal(t, "enc-1", result.EncounterID)
	assert.Equal(t, 5, result.JudgeScore)
	assert.True(t, result.IsCorrect)
	assert.InDelta(t, 329.0, result.TotalCost, 1e-9)
	assert.Equal(t, 3, result.TurnCount)
	judge.AssertExpectations(t)
}

func TestPipeline_Evaluate_ThresholdDerivesCorrectness(t *testing.T) {
	enc := finalizedEncounter(t)
	cf := &core.CaseFile{CaseID: "case-1", GroundTruthDiagnosis: "Acute appendicitis"}

	judge := &MockJudge{}
	judge.On("Score", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&core.Verdict{Score: 3, Rationale: "related condition"}, nil)

	p := NewPipeline(judge, func(o *Options) { o.CorrectThreshold = 3 })
	result, err := p.Evaluate(context.Background(), enc, cf)

	require.NoError(t, err)
	assert.True(t, result.IsCorrect)

	strict := NewPipeline(judge)
	result, err = strict.Evaluate(context.Background(), enc, cf)
	require.NoError(t, err)
	assert.False(t, result.IsCorrect)
}

func TestPipeline_Evaluate_MissingDiagnosis(t *testing.T) {
	enc := core.NewEncounter("enc-1", "case-1")
	judge := &MockJudge{}

	p := NewPipeline(judge)
	_, err := p.Evaluate(context.Background(), enc, &core.CaseFile{})

	var evalErr *core.EvaluationError
	require.ErrorAs(t, err, &evalErr)
	judge.AssertNotCalled(t, "Score", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPipeline_Evaluate_JudgeFailure(t *testing.T) {
	enc := finalizedEncounter(t)
	cause := errors.New("judge unavailable")
	judge := &MockJudge{}
	judge.On("Score", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, cause)

	p := NewPipeline(judge)
	_, err := p.Evaluate(context.Background(), enc, &core.CaseFile{})

	var evalErr *core.EvaluationError
	require.ErrorAs(t, err, &evalErr)
	require.ErrorIs(t, err, cause)
}

func TestPipeline_Evaluate_ScoreOutOfRange(t *testing.T) {
	enc := finalizedEncounter(t)
	judge := &MockJudge{}
	judge.On("Score", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&core.Verdict{Score: 7}, nil)

	p := NewPipeline(judge)
	_, err := p.Evaluate(context.Background(), enc, &core.CaseFile{})
	require.Error(t, err)
}

func TestBuildTranscript(t *testing.T) {
	enc := finalizedEncounter(t)
	transcript := BuildTranscript(enc)

	assert.Contains(t, transcript, "Turn 0 [question]: Any fever?")
	assert.Contains(t, transcript, "Turn 0 [patient]: Yes, 38.2.")
	assert.Contains(t, transcript, "Turn 1 [test order]: CBC")
	assert.Contains(t, transcript, "Turn 1 [examination]: WBC 14.2.")
	assert.Contains(t, transcript, "Turn 2 [final diagnosis]: Acute appendicitis")
}

func TestModelJudge_Score(t *testing.T) {
	llm := model.NewMockModel("judge-model")
	j := NewModelJudge(llm)

	// MockModel's default answer is not a valid verdict; register one for
	// the prompt the judge builds.
	prompt := "TRANSCRIPT:\ntranscript\nSUBMITTED DIAGNOSIS: appendicitis\nREFERENCE DIAGNOSIS: Acute appendicitis"
	llm.AddResponse(prompt, "4\nCorrect condition, missing acuity qualifier.")

	verdict, err := j.Score(context.Background(), "transcript", "appendicitis", "Acute appendicitis")
	require.NoError(t, err)
	assert.Equal(t, 4, verdict.Score)
	assert.Equal(t, "Correct condition, missing acuity qualifier.", verdict.Rationale)
}

func TestModelJudge_Score_ModelError(t *testing.T) {
	llm := model.NewMockModel("judge-model")
	cause := errors.New("provider down")
	llm.FailWith(cause)

	j := NewModelJudge(llm)
	_, err := j.Score(context.Background(), "t", "a", "b")
	require.ErrorIs(t, err, cause)
}

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name          string
		reply         string
		wantScore     int
		wantRationale string
		wantErr       bool
	}{
		{"score and rationale", "5\nexact match", 5, "exact match", false},
		{"same line", "4 close enough", 4, "close enough", false},
		{"score with punctuation", "3. related condition", 3, "related condition", false},
		{"score only", "2", 2, "", false},
		{"out of range", "9\nway off", 0, "", true},
		{"no score", "the diagnosis is correct", 0, "", true},
		{"empty", "   ", 0, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, err := parseVerdict(tt.reply)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantScore, verdict.Score)
			assert.Equal(t, tt.wantRationale, verdict.Rationale)
		})
	}
}
