package storage

import (
	"errors"

	"github.com/getmockd/reqmatch/pkg/mock"
)

// ErrExists is returned by Add when an expectation with the same ID is
// already stored.
var ErrExists = errors.New("expectation already exists")

// ExpectationStore stores expectations in routing order.
type ExpectationStore interface {
	// Get retrieves an expectation by ID. Returns nil if not found.
	Get(id string) *mock.Expectation

	// Add stores a new expectation at the end of the registration order.
	// It returns ErrExists if the ID is taken.
	Add(e *mock.Expectation) error

	// Set stores or replaces an expectation. A replaced expectation keeps
	// its registration position.
	Set(e *mock.Expectation) error

	// Delete removes an expectation by ID. Returns true if deleted, false if not found.
	Delete(id string) bool

	// List returns every expectation sorted by priority (descending), then
	// registration order. The returned slice belongs to the caller.
	List() []*mock.Expectation

	// Count returns the number of stored expectations.
	Count() int

	// Clear removes all stored expectations.
	Clear()

	// Exists checks if an expectation with the given ID exists.
	Exists(id string) bool
}
