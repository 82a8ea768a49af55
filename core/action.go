package core

import "time"

// ActionType categorizes what the controlling party is doing on a turn. It
// determines the dispatch target and whether the encounter terminates.
type ActionType string

const (
	// ActionAskQuestion asks the patient a history / symptom question.
	ActionAskQuestion ActionType = "ask_question"
	// ActionOrderTest orders a diagnostic test or examination.
	ActionOrderTest ActionType = "order_test"
	// ActionDiagnose submits the final diagnosis and terminates the
	// question/test phase of the encounter.
	ActionDiagnose ActionType = "diagnose"
)

// IsValid reports whether the value is one of the defined action types.
func (a ActionType) IsValid() bool {
	switch a {
	case ActionAskQuestion, ActionOrderTest, ActionDiagnose:
		return true
	}
	return false
}

// Terminal reports whether applying an action of this type ends the
// question/test phase of the encounter.
func (a ActionType) Terminal() bool { return a == ActionDiagnose }

// Origin records who authored the finalized content of an action.
type Origin string

const (
	// OriginHumanAuthored marks content written entirely by the controlling party.
	OriginHumanAuthored Origin = "human_authored"
	// OriginAISuggestedAccepted marks an AI draft accepted verbatim.
	OriginAISuggestedAccepted Origin = "ai_suggested_accepted"
	// OriginAISuggestedEdited marks an AI draft modified before submission.
	OriginAISuggestedEdited Origin = "ai_suggested_edited"
)

// IsValid reports whether the value is one of the defined origins.
func (o Origin) IsValid() bool {
	switch o {
	case OriginHumanAuthored, OriginAISuggestedAccepted, OriginAISuggestedEdited:
		return true
	}
	return false
}

// AgentAction is one finalized action within an encounter. After it has been
// appended to history it must be treated as immutable.
//
// TurnIndex is assigned exactly once by the encounter state machine, never by
// the caller. Indices are strictly increasing by one starting at zero.
type AgentAction struct {
	ActionType ActionType `json:"action_type"`
	Content    string     `json:"content"`
	Origin     Origin     `json:"origin"`
	TurnIndex  int        `json:"turn_index"`
	Timestamp  time.Time  `json:"timestamp"`
}

// DraftAction is a proposed next action produced by a SuggestionSource. It
// carries no origin and no turn index: the controlling party decides whether
// to accept, edit or discard it before submitting.
type DraftAction struct {
	ActionType ActionType `json:"action_type"`
	Content    string     `json:"content"`
}
