package matching

import (
	"fmt"
	"slices"
	"strings"

	"github.com/getmockd/reqmatch/pkg/request"
	"github.com/getmockd/reqmatch/pkg/util"
)

// Kind identifies the request facet a FieldMatcher constrains.
type Kind string

const (
	KindMethod Kind = "method"
	KindPath   Kind = "path"
	KindURL    Kind = "url"
	KindHeader Kind = "header"
	KindCookie Kind = "cookie"
	KindParam  Kind = "param"
	KindBody   Kind = "body"
)

// Kinds lists every facet kind in evaluation order.
var Kinds = []Kind{KindMethod, KindPath, KindURL, KindHeader, KindCookie, KindParam, KindBody}

// HTTP verbs with dedicated builder shortcuts.
const (
	MethodGet     = "GET"
	MethodPost    = "POST"
	MethodPut     = "PUT"
	MethodDelete  = "DELETE"
	MethodHead    = "HEAD"
	MethodPatch   = "PATCH"
	MethodOptions = "OPTIONS"
)

// FieldMatcher scores one facet of a request.
//
// The set of implementations is closed: MethodMatcher, PathMatcher,
// URLMatcher, HeaderMatcher, CookieMatcher, ParamMatcher and BodyMatcher.
type FieldMatcher interface {
	// Kind returns the facet this matcher constrains.
	Kind() Kind

	// Name returns the header, cookie or parameter name for name-keyed
	// kinds, and "" otherwise (including predicate forms).
	Name() string

	// Score evaluates the matcher. It never fails.
	Score(r *request.Request) Score

	// Describe returns the expected value in human-readable form.
	Describe() string

	// Actual returns the facet value the matcher looked at, for diagnostics.
	Actual(r *request.Request) string

	fieldMatcher()
}

// MethodMatcher matches the request method against a set of verbs.
type MethodMatcher struct {
	verbs []string
}

// NewMethodMatcher returns a matcher accepting any of verbs, compared
// case-insensitively.
func NewMethodMatcher(verbs ...string) *MethodMatcher {
	normalized := make([]string, 0, len(verbs))
	for _, v := range verbs {
		normalized = append(normalized, strings.ToUpper(strings.TrimSpace(v)))
	}
	return &MethodMatcher{verbs: normalized}
}

// Verbs returns the accepted verbs in upper case.
func (m *MethodMatcher) Verbs() []string {
	return slices.Clone(m.verbs)
}

func (m *MethodMatcher) Kind() Kind   { return KindMethod }
func (m *MethodMatcher) Name() string { return "" }

func (m *MethodMatcher) Score(r *request.Request) Score {
	for _, v := range m.verbs {
		if strings.EqualFold(v, r.Method) {
			return ScorePerfect
		}
	}
	return ScoreNone
}

func (m *MethodMatcher) Describe() string {
	return strings.Join(m.verbs, " | ")
}

func (m *MethodMatcher) Actual(r *request.Request) string { return r.Method }

func (*MethodMatcher) fieldMatcher() {}

// stringField is the shared implementation of single-valued facets.
type stringField struct {
	values []ValueMatcher
	fn     func(string) bool
}

func (f *stringField) score(input string) Score {
	if f.fn != nil {
		return scoreOf(f.fn(input))
	}
	return maxScore(f.values, input)
}

func (f *stringField) describe() string {
	if f.fn != nil {
		return "satisfies predicate"
	}
	return describeAll(f.values)
}

// PathMatcher matches the request path.
type PathMatcher struct {
	stringField
}

// NewPathMatcher returns a matcher satisfied when any of vms matches the path.
func NewPathMatcher(vms ...ValueMatcher) *PathMatcher {
	return &PathMatcher{stringField{values: slices.Clone(vms)}}
}

// NewPathFuncMatcher returns a matcher satisfied when fn accepts the path.
func NewPathFuncMatcher(fn func(path string) bool) *PathMatcher {
	return &PathMatcher{stringField{fn: fn}}
}

func (m *PathMatcher) Kind() Kind                       { return KindPath }
func (m *PathMatcher) Name() string                     { return "" }
func (m *PathMatcher) Score(r *request.Request) Score   { return m.score(r.Path) }
func (m *PathMatcher) Describe() string                 { return m.describe() }
func (m *PathMatcher) Actual(r *request.Request) string { return r.Path }
func (*PathMatcher) fieldMatcher()                      {}

// URLMatcher matches the full request URL.
type URLMatcher struct {
	stringField
}

// NewURLMatcher returns a matcher satisfied when any of vms matches the URL.
func NewURLMatcher(vms ...ValueMatcher) *URLMatcher {
	return &URLMatcher{stringField{values: slices.Clone(vms)}}
}

// NewURLFuncMatcher returns a matcher satisfied when fn accepts the URL.
func NewURLFuncMatcher(fn func(url string) bool) *URLMatcher {
	return &URLMatcher{stringField{fn: fn}}
}

func (m *URLMatcher) Kind() Kind                       { return KindURL }
func (m *URLMatcher) Name() string                     { return "" }
func (m *URLMatcher) Score(r *request.Request) Score   { return m.score(r.URL) }
func (m *URLMatcher) Describe() string                 { return m.describe() }
func (m *URLMatcher) Actual(r *request.Request) string { return r.URL }
func (*URLMatcher) fieldMatcher()                      {}

// BodyMatcher matches the request body.
type BodyMatcher struct {
	values []ValueMatcher
	fn     func([]byte) bool
}

// NewBodyMatcher returns a matcher satisfied when any of vms matches the body.
func NewBodyMatcher(vms ...ValueMatcher) *BodyMatcher {
	return &BodyMatcher{values: slices.Clone(vms)}
}

// NewBodyFuncMatcher returns a matcher satisfied when fn accepts the raw body.
func NewBodyFuncMatcher(fn func(body []byte) bool) *BodyMatcher {
	return &BodyMatcher{fn: fn}
}

func (m *BodyMatcher) Kind() Kind   { return KindBody }
func (m *BodyMatcher) Name() string { return "" }

func (m *BodyMatcher) Score(r *request.Request) Score {
	if m.fn != nil {
		return scoreOf(m.fn(r.Body))
	}
	return maxScore(m.values, r.BodyString())
}

func (m *BodyMatcher) Describe() string {
	if m.fn != nil {
		return "satisfies predicate"
	}
	return describeAll(m.values)
}

func (m *BodyMatcher) Actual(r *request.Request) string {
	return util.TruncateBody(r.BodyString(), util.MaxSummaryBodySize)
}

func (*BodyMatcher) fieldMatcher() {}

func describeAll(vms []ValueMatcher) string {
	if len(vms) == 0 {
		return "(no patterns)"
	}
	parts := make([]string, len(vms))
	for i, vm := range vms {
		parts[i] = vm.Describe()
	}
	return strings.Join(parts, " or ")
}

func quoteAll(values []string) string {
	if len(values) == 0 {
		return "(missing)"
	}
	q := make([]string, len(values))
	for i, v := range values {
		q[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(q, ", ")
}
