package store

import (
	"sort"
	"sync"

	"github.com/clinmesh/clinmesh/core"
)

// InMemoryEncounterStore is a volatile EncounterStore implementation keeping
// the live encounters of a process in a local map. Get returns the canonical
// aggregate (not a clone): DiagnosticEncounter carries its own
// synchronization and the engine serializes whole turns around it.
type InMemoryEncounterStore struct {
	mu         sync.RWMutex
	encounters map[string]*core.DiagnosticEncounter
}

// NewInMemoryEncounterStore constructs an empty in-memory encounter store.
func NewInMemoryEncounterStore() *InMemoryEncounterStore {
	return &InMemoryEncounterStore{encounters: make(map[string]*core.DiagnosticEncounter)}
}

// Put registers (or replaces) an encounter under its id.
func (s *InMemoryEncounterStore) Put(enc *core.DiagnosticEncounter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.encounters[enc.ID] = enc
	return nil
}

// Get returns the live encounter or ErrEncounterNotFound.
func (s *InMemoryEncounterStore) Get(encounterID string) (*core.DiagnosticEncounter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	enc, ok := s.encounters[encounterID]
	if !ok {
		return nil, ErrEncounterNotFound
	}
	return enc, nil
}

// List returns the sorted encounter ids. The slice is a snapshot and safe
// for caller mutation.
func (s *InMemoryEncounterStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.encounters))
	for id := range s.encounters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
