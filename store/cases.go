package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/clinmesh/clinmesh/core"
)

// InMemoryCaseStore is a volatile CaseStore implementation. Case files are
// copied on Put and handed out as fresh copies so stored records stay
// immutable regardless of caller behavior.
type InMemoryCaseStore struct {
	mu    sync.RWMutex
	cases map[string]core.CaseFile
}

// NewInMemoryCaseStore constructs an empty in-memory case store.
func NewInMemoryCaseStore() *InMemoryCaseStore {
	return &InMemoryCaseStore{cases: make(map[string]core.CaseFile)}
}

// Put stores a copy of the case file keyed by its case id.
func (s *InMemoryCaseStore) Put(caseFile *core.CaseFile) error {
	if caseFile.CaseID == "" {
		return fmt.Errorf("case file has no case_id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cases[caseFile.CaseID] = *caseFile
	return nil
}

// Get returns a copy of the stored case file or ErrCaseNotFound.
func (s *InMemoryCaseStore) Get(caseID string) (*core.CaseFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cf, ok := s.cases[caseID]
	if !ok {
		return nil, ErrCaseNotFound
	}
	return &cf, nil
}

// List returns the sorted case ids.
func (s *InMemoryCaseStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.cases))
	for id := range s.cases {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LoadFile reads one JSON case file from disk into the store and returns it.
func (s *InMemoryCaseStore) LoadFile(path string) (*core.CaseFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read case file %s: %w", path, err)
	}
	var cf core.CaseFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse case file %s: %w", path, err)
	}
	if err := s.Put(&cf); err != nil {
		return nil, fmt.Errorf("store case file %s: %w", path, err)
	}
	return &cf, nil
}

// LoadDir reads every *.json file in dir into the store and returns the
// number of cases loaded.
func (s *InMemoryCaseStore) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read case dir %s: %w", dir, err)
	}
	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if _, err := s.LoadFile(filepath.Join(dir, entry.Name())); err != nil {
			return loaded, err
		}
		loaded++
	}
	return loaded, nil
}
