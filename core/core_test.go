package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID_Unique(t *testing.T) {
	a := NewID()
	b := NewID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestActionType_IsValid(t *testing.T) {
	assert.True(t, ActionAskQuestion.IsValid())
	assert.True(t, ActionOrderTest.IsValid())
	assert.True(t, ActionDiagnose.IsValid())
	assert.False(t, ActionType("prescribe").IsValid())
}

func TestActionType_Terminal(t *testing.T) {
	assert.False(t, ActionAskQuestion.Terminal())
	assert.False(t, ActionOrderTest.Terminal())
	assert.True(t, ActionDiagnose.Terminal())
}

func TestOrigin_IsValid(t *testing.T) {
	assert.True(t, OriginHumanAuthored.IsValid())
	assert.True(t, OriginAISuggestedAccepted.IsValid())
	assert.True(t, OriginAISuggestedEdited.IsValid())
	assert.False(t, Origin("unknown").IsValid())
}

func TestStatus_AcceptsActions(t *testing.T) {
	assert.True(t, StatusInitialized.AcceptsActions())
	assert.True(t, StatusInProgress.AcceptsActions())
	assert.False(t, StatusAwaitingEvaluation.AcceptsActions())
	assert.False(t, StatusComplete.AcceptsActions())
}

func TestDispatchError_Unwrap(t *testing.T) {
	cause := errors.New("responder timeout")
	err := &DispatchError{ActionType: ActionOrderTest, TurnIndex: 3, Err: cause}

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "order_test")
	assert.Contains(t, err.Error(), "turn 3")

	var de *DispatchError
	require.ErrorAs(t, error(err), &de)
	assert.Equal(t, 3, de.TurnIndex)
}

func TestEvaluationError_Unwrap(t *testing.T) {
	cause := errors.New("judge unavailable")
	err := &EvaluationError{EncounterID: "enc-1", Err: cause}

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "enc-1")
}

func TestCaseFile_Clone(t *testing.T) {
	cf := &CaseFile{CaseID: "c1", Abstract: "abd pain", FullText: "record", GroundTruthDiagnosis: "dx"}
	clone := cf.Clone()
	clone.FullText = "mutated"
	assert.Equal(t, "record", cf.FullText)
}
