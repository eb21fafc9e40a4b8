package storage

import (
	"cmp"
	"slices"
	"sync"

	"github.com/getmockd/reqmatch/pkg/mock"
)

type entry struct {
	exp *mock.Expectation
	seq uint64
}

// InMemoryStore is a thread-safe in-memory implementation of ExpectationStore.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	nextSeq uint64

	// sorted is the cached routing order, nil when stale.
	sorted []*mock.Expectation
}

// NewInMemoryStore creates an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		entries: make(map[string]entry),
	}
}

// Get retrieves an expectation by ID. Returns nil if not found.
func (s *InMemoryStore) Get(id string) *mock.Expectation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[id].exp
}

// Add stores e unless its ID is already taken. Nil is ignored.
func (s *InMemoryStore) Add(e *mock.Expectation) error {
	if e == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[e.ID]; exists {
		return ErrExists
	}
	s.put(e, s.next())
	return nil
}

// Set stores or replaces e. Nil is ignored.
func (s *InMemoryStore) Set(e *mock.Expectation) error {
	if e == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	seq := s.next()
	if old, exists := s.entries[e.ID]; exists {
		seq = old.seq
	}
	s.put(e, seq)
	return nil
}

func (s *InMemoryStore) next() uint64 {
	s.nextSeq++
	return s.nextSeq
}

func (s *InMemoryStore) put(e *mock.Expectation, seq uint64) {
	s.entries[e.ID] = entry{exp: e, seq: seq}
	s.sorted = nil
}

// Delete removes an expectation by ID. Returns true if deleted, false if not found.
func (s *InMemoryStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[id]; !exists {
		return false
	}
	delete(s.entries, id)
	s.sorted = nil
	return true
}

// List returns all stored expectations sorted by priority (descending)
// then registration order.
func (s *InMemoryStore) List() []*mock.Expectation {
	s.mu.RLock()
	if s.sorted != nil {
		defer s.mu.RUnlock()
		return slices.Clone(s.sorted)
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sorted == nil {
		s.sorted = s.sortLocked()
	}
	return slices.Clone(s.sorted)
}

func (s *InMemoryStore) sortLocked() []*mock.Expectation {
	ordered := make([]entry, 0, len(s.entries))
	for _, e := range s.entries {
		ordered = append(ordered, e)
	}
	slices.SortFunc(ordered, func(a, b entry) int {
		if c := cmp.Compare(b.exp.Priority, a.exp.Priority); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})

	result := make([]*mock.Expectation, len(ordered))
	for i, e := range ordered {
		result[i] = e.exp
	}
	return result
}

// Count returns the number of stored expectations.
func (s *InMemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Clear removes all stored expectations. Registration order restarts.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry)
	s.sorted = nil
	s.nextSeq = 0
}

// Exists checks if an expectation with the given ID exists.
func (s *InMemoryStore) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.entries[id]
	return exists
}

// Ensure InMemoryStore implements ExpectationStore.
var _ ExpectationStore = (*InMemoryStore)(nil)
