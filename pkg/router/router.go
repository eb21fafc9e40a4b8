// Package router selects the expectation that applies to a request.
//
// Expectations are tried in routing order: higher Priority first, equal
// priorities in registration order. The first enabled expectation whose
// composite matches wins. Scores are only used to explain misses: when
// nothing matches, the router reports the closest expectations as near
// misses.
package router

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/getmockd/reqmatch/internal/storage"
	"github.com/getmockd/reqmatch/pkg/logging"
	"github.com/getmockd/reqmatch/pkg/matching"
	"github.com/getmockd/reqmatch/pkg/mock"
	"github.com/getmockd/reqmatch/pkg/request"
)

var (
	// ErrDuplicateID is returned when registering an ID that is already taken.
	ErrDuplicateID = errors.New("duplicate expectation id")

	// ErrNilExpectation is returned when registering nil.
	ErrNilExpectation = errors.New("nil expectation")
)

// DefaultNearMissLimit is the number of near misses reported on a miss.
const DefaultNearMissLimit = 3

// Router holds registered expectations and routes requests to them.
// It is safe for concurrent use.
type Router struct {
	store         storage.ExpectationStore
	log           *slog.Logger
	metrics       *Metrics
	nearMissLimit int
	maxBodySize   int64
}

// New creates a router. Without options it uses an in-memory store, a
// no-op logger and no metrics.
func New(opts ...Option) *Router {
	r := &Router{
		store:         storage.NewInMemoryStore(),
		log:           logging.Nop(),
		nearMissLimit: DefaultNearMissLimit,
		maxBodySize:   DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result is the outcome of routing one request.
type Result struct {
	// Expectation is the winner, nil on a miss.
	Expectation *mock.Expectation `json:"-"`

	Matched bool   `json:"matched"`
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`

	// Evaluated counts the expectations tried before the decision.
	Evaluated int `json:"evaluated"`

	// NearMisses is only set on a miss. Entries have a score above zero and
	// are ordered by score, then routing order.
	NearMisses []matching.NearMiss `json:"nearMisses,omitempty"`
}

// Register compiles e and adds it after every expectation registered so
// far. Compiling freezes the expectation's request specification.
func (r *Router) Register(e *mock.Expectation) error {
	if e == nil {
		return ErrNilExpectation
	}
	if err := e.Compile(); err != nil {
		return err
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	if err := r.store.Add(e); err != nil {
		if errors.Is(err, storage.ErrExists) {
			return fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
		}
		return err
	}

	r.metrics.setRegistered(r.store.Count())
	r.log.Info("expectation registered",
		"id", e.ID,
		"name", e.Name,
		"priority", e.Priority,
		"matchers", e.Matcher().Len(),
		"enabled", e.IsEnabled(),
	)
	return nil
}

// RegisterAll registers each expectation in order and stops at the first
// error.
func (r *Router) RegisterAll(exps []*mock.Expectation) error {
	for _, e := range exps {
		if err := r.Register(e); err != nil {
			return err
		}
	}
	return nil
}

// Replace compiles e and stores it in place of the expectation with the
// same ID, keeping that one's registration position. Unknown IDs are added
// at the end.
func (r *Router) Replace(e *mock.Expectation) error {
	if e == nil {
		return ErrNilExpectation
	}
	if err := e.Compile(); err != nil {
		return err
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	if err := r.store.Set(e); err != nil {
		return err
	}
	r.metrics.setRegistered(r.store.Count())
	r.log.Info("expectation replaced", "id", e.ID, "name", e.Name)
	return nil
}

// Remove unregisters the expectation with the given ID.
func (r *Router) Remove(id string) bool {
	removed := r.store.Delete(id)
	if removed {
		r.metrics.setRegistered(r.store.Count())
		r.log.Info("expectation removed", "id", id)
	}
	return removed
}

// Clear unregisters every expectation.
func (r *Router) Clear() {
	r.store.Clear()
	r.metrics.setRegistered(0)
}

// Get returns the expectation with the given ID, or nil.
func (r *Router) Get(id string) *mock.Expectation {
	return r.store.Get(id)
}

// Expectations returns the registered expectations in routing order.
func (r *Router) Expectations() []*mock.Expectation {
	return r.store.List()
}

// Len returns the number of registered expectations.
func (r *Router) Len() int {
	return r.store.Count()
}

// Match routes req. Disabled expectations are skipped.
func (r *Router) Match(req *request.Request) *Result {
	start := time.Now()
	candidates := r.store.List()
	result := route(candidates, req)
	r.finish(result, candidates, req, start)
	return result
}

// route picks the first enabled expectation matching req. It neither logs
// nor records metrics.
func route(candidates []*mock.Expectation, req *request.Request) *Result {
	result := &Result{}
	for _, e := range candidates {
		if !e.IsEnabled() {
			continue
		}
		result.Evaluated++
		if e.Matches(req) {
			result.Expectation = e
			result.Matched = true
			result.ID = e.ID
			result.Name = e.Name
			break
		}
	}
	return result
}

// finish computes near misses for a miss, then logs and observes the final
// result of one routed request.
func (r *Router) finish(result *Result, candidates []*mock.Expectation, req *request.Request, start time.Time) {
	if result.Matched {
		r.log.Debug("request matched",
			"method", req.Method,
			"path", req.Path,
			"id", result.ID,
			"evaluated", result.Evaluated,
		)
	} else {
		result.NearMisses = r.nearMisses(candidates, req)
		r.log.Debug("no expectation matched",
			"method", req.Method,
			"path", req.Path,
			"evaluated", result.Evaluated,
			"near_misses", len(result.NearMisses),
		)
	}
	r.metrics.observe(result, time.Since(start))
}

// MatchHTTP routes a net/http request whose body has already been read.
func (r *Router) MatchHTTP(req *http.Request, body []byte) *Result {
	return r.Match(request.FromHTTP(req, body))
}

func (r *Router) nearMisses(candidates []*mock.Expectation, req *request.Request) []matching.NearMiss {
	if r.nearMissLimit <= 0 {
		return nil
	}

	var misses []matching.NearMiss
	for _, e := range candidates {
		if !e.IsEnabled() || !e.Compiled() {
			continue
		}
		nm := e.Matcher().Breakdown(req)
		if nm.Score <= 0 {
			continue
		}
		nm.ExpectationID = e.ID
		nm.ExpectationName = e.Name
		misses = append(misses, *nm)
	}

	// Stable, so equal scores keep routing order.
	slices.SortStableFunc(misses, func(a, b matching.NearMiss) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(misses) > r.nearMissLimit {
		misses = misses[:r.nearMissLimit]
	}
	return misses
}
