package core

// CaseFile is the complete patient record for a single diagnostic case plus
// its ground-truth diagnosis. It is loaded once per encounter and is read-only
// for the encounter's lifetime.
//
// Only Abstract is visible to the controlling party before any action is
// taken. FullText is the hidden record: it must never be copied into an
// AgentAction, GatekeeperResponse or any other externally observable
// structure except through a Responder's scoped answer.
type CaseFile struct {
	// CaseID uniquely identifies the case within a case set.
	CaseID string `json:"case_id"`

	// Abstract is the initial chief-concern text shown at encounter start.
	Abstract string `json:"abstract"`

	// FullText is the complete hidden patient record.
	FullText string `json:"full_text"`

	// GroundTruthDiagnosis is the reference diagnosis used by the Judge.
	GroundTruthDiagnosis string `json:"ground_truth_diagnosis"`
}

// Clone returns a copy of the case file safe for independent use.
func (c *CaseFile) Clone() *CaseFile {
	cp := *c
	return &cp
}
