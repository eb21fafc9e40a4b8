// Package storage holds registered expectations for the router.
//
// ExpectationStore keeps expectations in routing order: higher priority
// first, and equal priorities in the order they were added. Replacing an
// expectation with Set keeps its original position, so re-registering a
// changed definition does not move it behind later ones.
//
// InMemoryStore is safe for concurrent use. It caches the sorted order
// between writes, so routing reads do not sort.
package storage
