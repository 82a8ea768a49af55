package core

// BenchmarkResult is the final evaluation attached to a completed encounter.
type BenchmarkResult struct {
	// EncounterID references the evaluated encounter.
	EncounterID string `json:"encounter_id"`

	// CaseID references the case the encounter was run against.
	CaseID string `json:"case_id"`

	// JudgeScore is the diagnostic-accuracy score in 1..5.
	JudgeScore int `json:"judge_score"`

	// JudgeRationale is the judge's free-text reasoning.
	JudgeRationale string `json:"judge_rationale"`

	// IsCorrect is derived: JudgeScore >= the configured threshold.
	IsCorrect bool `json:"is_correct"`

	// TotalCost is the encounter's cumulative cost at evaluation time.
	TotalCost float64 `json:"total_cost"`

	// TurnCount is the number of accepted actions including the diagnosis.
	TurnCount int `json:"turn_count"`
}
