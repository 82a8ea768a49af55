package core

// EncounterStore keeps the live diagnostic encounters of a process.
//
// Get returns the canonical aggregate, not a copy: the encounter carries its
// own synchronization and the engine serializes whole turns around it. Use
// DiagnosticEncounter.Clone for read snapshots.
type EncounterStore interface {
	Put(encounter *DiagnosticEncounter) error
	Get(encounterID string) (*DiagnosticEncounter, error)
	List() []string
}

// CaseStore provides read access to loaded case files. Implementations must
// treat stored case files as immutable.
type CaseStore interface {
	Put(caseFile *CaseFile) error
	Get(caseID string) (*CaseFile, error)
	List() []string
}
