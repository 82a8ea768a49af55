package core

// ResponderSource identifies which responder produced a GatekeeperResponse.
type ResponderSource string

const (
	// SourcePatient marks answers produced by the Patient Responder.
	SourcePatient ResponderSource = "patient"
	// SourceExamination marks results produced by the Examination Responder.
	SourceExamination ResponderSource = "examination"
)

// IsValid reports whether the value is one of the defined sources.
func (s ResponderSource) IsValid() bool {
	return s == SourcePatient || s == SourceExamination
}

// GatekeeperResponse is the scoped answer recorded for one action. It is
// immutable once produced.
//
// Cost is present only for ORDER_TEST responses and mirrors the amount of the
// test's cost entry; the cost-entry sequence remains the authoritative record.
type GatekeeperResponse struct {
	Source      ResponderSource `json:"source"`
	Content     string          `json:"content"`
	Attribution string          `json:"attribution,omitempty"`
	TurnIndex   int             `json:"associated_action_turn_index"`
	Cost        *float64        `json:"cost,omitempty"`
}

// Answer is the raw result of a Responder capability call before the engine
// wraps it into a GatekeeperResponse.
type Answer struct {
	// Content is the scoped answer text.
	Content string

	// Attribution identifies the concrete implementation that answered,
	// e.g. "patient=gpt-4o-mini" or "examination=scripted".
	Attribution string

	// CostHint is a normalized test description consumed by the cost
	// ledger. Only the Examination Responder populates it.
	CostHint string
}
