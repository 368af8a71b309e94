package metadata

import (
	"sync"

	"github.com/pkg/errors"
)

// MemoryStore keeps metadata tables in memory. It is intended for tests and
// for plans whose metadata never leaves the process.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string]Table
	saves  map[string]int
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables: make(map[string]Table),
		saves:  make(map[string]int),
	}
}

// Load returns a copy of the table stored at location, or ErrNotFound.
func (s *MemoryStore) Load(location string) (Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tbl, ok := s.tables[location]
	if !ok {
		return Table{}, errors.Wrap(ErrNotFound, location)
	}

	return tbl.Clone(), nil
}

// Save stores a copy of the table at location.
func (s *MemoryStore) Save(location string, table Table) error {
	err := table.Validate()
	if err != nil {
		return errors.Wrap(err, "unable to save invalid metadata table")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tables[location] = table.Clone()
	s.saves[location]++

	return nil
}

// Exists reports whether a table is stored at location.
func (s *MemoryStore) Exists(location string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.tables[location]

	return ok, nil
}

// Saves returns how many writes have happened at location.
func (s *MemoryStore) Saves(location string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.saves[location]
}
