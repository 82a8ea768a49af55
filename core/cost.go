package core

// CostCategory classifies a cost entry.
type CostCategory string

const (
	// CostVisit is the fixed physician-visit fee accrued once per encounter.
	CostVisit CostCategory = "visit"
	// CostTest is the priced (or default-priced) cost of an ordered test.
	CostTest CostCategory = "test"
)

// IsValid reports whether the value is one of the defined categories.
func (c CostCategory) IsValid() bool { return c == CostVisit || c == CostTest }

// CostEntry is one accrual in an encounter's cost ledger.
//
// CPTCode is nil when the priced item could not be resolved against the code
// table (and always for visit fees). The cumulative cost of an encounter is
// recomputable as the sum of its cost-entry amounts.
type CostEntry struct {
	TurnIndex       int          `json:"turn_index"`
	ItemDescription string       `json:"item_description"`
	CPTCode         *string      `json:"cpt_code"`
	Amount          float64      `json:"amount"`
	Category        CostCategory `json:"category"`
}
