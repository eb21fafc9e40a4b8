package matching

import (
	"slices"

	"github.com/getmockd/reqmatch/pkg/request"
)

// Composite is the AND-combination of field matchers describing when one
// expectation applies. It is immutable once constructed and safe for
// concurrent use.
type Composite struct {
	matchers []FieldMatcher
}

// NewComposite returns a composite holding a copy of matchers, in order.
// Nil entries are dropped.
func NewComposite(matchers ...FieldMatcher) *Composite {
	held := make([]FieldMatcher, 0, len(matchers))
	for _, m := range matchers {
		if m != nil {
			held = append(held, m)
		}
	}
	return &Composite{matchers: held}
}

// IsMatch reports whether every held matcher scores ScorePerfect.
// A composite with no matchers matches every request.
func (c *Composite) IsMatch(r *request.Request) bool {
	for _, m := range c.matchers {
		if !m.Score(r).IsPerfect() {
			return false
		}
	}
	return true
}

// MatchScore returns the mean score of the held matchers (ScorePerfect when
// there are none). It ranks near misses; routing must use IsMatch.
func (c *Composite) MatchScore(r *request.Request) Score {
	if len(c.matchers) == 0 {
		return ScorePerfect
	}
	var total Score
	for _, m := range c.matchers {
		total += m.Score(r)
	}
	return total / Score(len(c.matchers))
}

// Len returns the number of held matchers.
func (c *Composite) Len() int {
	return len(c.matchers)
}

// Matchers returns the held matchers in insertion order.
func (c *Composite) Matchers() []FieldMatcher {
	return slices.Clone(c.matchers)
}

// MatchersOfKind returns the held matchers of one kind in insertion order.
func (c *Composite) MatchersOfKind(kind Kind) []FieldMatcher {
	return MatchersOfKind(c.matchers, kind)
}

// FirstMatcherOfKind returns the earliest inserted matcher of kind.
func (c *Composite) FirstMatcherOfKind(kind Kind) (FieldMatcher, bool) {
	return FirstMatcherOfKind(c.matchers, kind)
}

// FirstOf returns the earliest inserted matcher of concrete type T,
// for example FirstOf[*HeaderMatcher](c).
func FirstOf[T FieldMatcher](c *Composite) (T, bool) {
	for _, m := range c.matchers {
		if t, ok := m.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// Kinds returns the distinct kinds present, in Kinds order.
func (c *Composite) Kinds() []Kind {
	var present []Kind
	for _, k := range Kinds {
		if _, ok := c.FirstMatcherOfKind(k); ok {
			present = append(present, k)
		}
	}
	return present
}

// MatchersOfKind filters ms by kind, preserving order. It backs the
// introspection of both composites and request specifications.
func MatchersOfKind(ms []FieldMatcher, kind Kind) []FieldMatcher {
	var out []FieldMatcher
	for _, m := range ms {
		if m.Kind() == kind {
			out = append(out, m)
		}
	}
	return out
}

// FirstMatcherOfKind returns the first element of ms with the given kind.
func FirstMatcherOfKind(ms []FieldMatcher, kind Kind) (FieldMatcher, bool) {
	for _, m := range ms {
		if m.Kind() == kind {
			return m, true
		}
	}
	return nil, false
}
