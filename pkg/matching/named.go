package matching

import (
	"slices"

	"github.com/getmockd/reqmatch/pkg/request"
)

// NameOption configures how a name-keyed matcher compares names.
type NameOption func(*namedField)

// CaseSensitiveNames makes header, cookie and parameter name comparison
// exact. Names are compared under Unicode case folding by default.
func CaseSensitiveNames() NameOption {
	return func(f *namedField) {
		f.caseSensitive = true
	}
}

// namedField is the shared implementation of Header, Cookie and Param
// matchers built from a name and value matchers.
type namedField struct {
	name          string
	folded        string
	caseSensitive bool
	values        []ValueMatcher
}

func newNamedField(name string, vms []ValueMatcher, opts []NameOption) namedField {
	f := namedField{name: name, folded: fold(name), values: slices.Clone(vms)}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

func (f *namedField) nameMatches(candidate string) bool {
	if f.caseSensitive {
		return candidate == f.name
	}
	return candidate == f.name || fold(candidate) == f.folded
}

// lookup collects the values of every entry whose name matches.
func (f *namedField) lookup(entries map[string][]string) ([]string, bool) {
	var (
		found  bool
		values []string
	)
	for k, vs := range entries {
		if f.nameMatches(k) {
			found = true
			values = append(values, vs...)
		}
	}
	return values, found
}

func (f *namedField) lookupSingle(entries map[string]string) ([]string, bool) {
	var (
		found  bool
		values []string
	)
	for k, v := range entries {
		if f.nameMatches(k) {
			found = true
			values = append(values, v)
		}
	}
	return values, found
}

// score is 0 when the name is absent, 1 when no value matchers are
// configured (presence check), and otherwise the best score over every
// value and matcher combination.
func (f *namedField) score(values []string, found bool) Score {
	if !found {
		return ScoreNone
	}
	if len(f.values) == 0 {
		return ScorePerfect
	}
	best := ScoreNone
	for _, v := range values {
		if s := maxScore(f.values, v); s > best {
			best = s
			if best.IsPerfect() {
				break
			}
		}
	}
	return best
}

func (f *namedField) describe() string {
	if len(f.values) == 0 {
		return f.name + " present"
	}
	return f.name + " " + describeAll(f.values)
}

// CaseSensitive reports whether names are compared exactly.
func (f *namedField) CaseSensitive() bool { return f.caseSensitive }

// Matchers returns the configured value matchers.
func (f *namedField) Matchers() []ValueMatcher { return slices.Clone(f.values) }

// HeaderMatcher matches a named, possibly multi-valued, request header,
// or the whole header map when built from a predicate.
type HeaderMatcher struct {
	namedField
	fn func(map[string][]string) bool
}

// NewHeaderMatcher matches when header name is present and any of its
// values satisfies any of vms. With no vms, presence alone matches.
func NewHeaderMatcher(name string, vms []ValueMatcher, opts ...NameOption) *HeaderMatcher {
	return &HeaderMatcher{namedField: newNamedField(name, vms, opts)}
}

// NewHeaderFuncMatcher matches when fn accepts the full header map.
// fn must not modify the map. A nil fn never matches.
func NewHeaderFuncMatcher(fn func(headers map[string][]string) bool) *HeaderMatcher {
	if fn == nil {
		fn = func(map[string][]string) bool { return false }
	}
	return &HeaderMatcher{fn: fn}
}

func (m *HeaderMatcher) Kind() Kind   { return KindHeader }
func (m *HeaderMatcher) Name() string { return m.name }

func (m *HeaderMatcher) Score(r *request.Request) Score {
	if m.fn != nil {
		return scoreOf(m.fn(r.Headers))
	}
	return m.score(m.lookup(r.Headers))
}

func (m *HeaderMatcher) Describe() string {
	if m.fn != nil {
		return "headers satisfy predicate"
	}
	return m.describe()
}

func (m *HeaderMatcher) Actual(r *request.Request) string {
	if m.fn != nil {
		return ""
	}
	values, _ := m.lookup(r.Headers)
	return quoteAll(values)
}

func (*HeaderMatcher) fieldMatcher() {}

// ParamMatcher matches a named, possibly multi-valued, query parameter,
// or the whole parameter map when built from a predicate.
type ParamMatcher struct {
	namedField
	fn func(map[string][]string) bool
}

// NewParamMatcher matches when parameter key is present and any of its
// values satisfies any of vms. With no vms, presence alone matches.
func NewParamMatcher(key string, vms []ValueMatcher, opts ...NameOption) *ParamMatcher {
	return &ParamMatcher{namedField: newNamedField(key, vms, opts)}
}

// NewParamFuncMatcher matches when fn accepts the full parameter map.
// fn must not modify the map. A nil fn never matches.
func NewParamFuncMatcher(fn func(params map[string][]string) bool) *ParamMatcher {
	if fn == nil {
		fn = func(map[string][]string) bool { return false }
	}
	return &ParamMatcher{fn: fn}
}

func (m *ParamMatcher) Kind() Kind   { return KindParam }
func (m *ParamMatcher) Name() string { return m.name }

func (m *ParamMatcher) Score(r *request.Request) Score {
	if m.fn != nil {
		return scoreOf(m.fn(r.Params))
	}
	return m.score(m.lookup(r.Params))
}

func (m *ParamMatcher) Describe() string {
	if m.fn != nil {
		return "params satisfy predicate"
	}
	return m.describe()
}

func (m *ParamMatcher) Actual(r *request.Request) string {
	if m.fn != nil {
		return ""
	}
	values, _ := m.lookup(r.Params)
	return quoteAll(values)
}

func (*ParamMatcher) fieldMatcher() {}

// CookieMatcher matches a named cookie, or the whole cookie map when built
// from a predicate.
type CookieMatcher struct {
	namedField
	fn func(map[string]string) bool
}

// NewCookieMatcher matches when cookie name is present and its value
// satisfies any of vms. With no vms, presence alone matches.
func NewCookieMatcher(name string, vms []ValueMatcher, opts ...NameOption) *CookieMatcher {
	return &CookieMatcher{namedField: newNamedField(name, vms, opts)}
}

// NewCookieFuncMatcher matches when fn accepts the full cookie map.
// fn must not modify the map. A nil fn never matches.
func NewCookieFuncMatcher(fn func(cookies map[string]string) bool) *CookieMatcher {
	if fn == nil {
		fn = func(map[string]string) bool { return false }
	}
	return &CookieMatcher{fn: fn}
}

func (m *CookieMatcher) Kind() Kind   { return KindCookie }
func (m *CookieMatcher) Name() string { return m.name }

func (m *CookieMatcher) Score(r *request.Request) Score {
	if m.fn != nil {
		return scoreOf(m.fn(r.Cookies))
	}
	return m.score(m.lookupSingle(r.Cookies))
}

func (m *CookieMatcher) Describe() string {
	if m.fn != nil {
		return "cookies satisfy predicate"
	}
	return m.describe()
}

func (m *CookieMatcher) Actual(r *request.Request) string {
	if m.fn != nil {
		return ""
	}
	values, _ := m.lookupSingle(r.Cookies)
	return quoteAll(values)
}

func (*CookieMatcher) fieldMatcher() {}
