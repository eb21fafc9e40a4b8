// Package requestspec provides the fluent builder used to describe which
// requests an expectation applies to.
//
// A Spec starts empty, accumulates one field matcher per fluent call and is
// frozen into an immutable matching.Composite when it is registered:
//
//	c, err := requestspec.New().
//	    WithPath("/orders").
//	    UsingGet().
//	    WithParam("status", "open").
//	    Freeze()
//
// A Spec is owned by a single goroutine while it is being built. After
// Freeze, every mutating call is rejected: the Spec is left unchanged and
// Err reports ErrFrozen.
package requestspec

import (
	"fmt"
	"slices"

	"github.com/getmockd/reqmatch/pkg/matching"
)

// ErrFrozen is recorded when a frozen Spec is mutated.
var ErrFrozen = fmt.Errorf("%w: request specification is frozen", matching.ErrUnsupportedOperation)

// Spec accumulates field matchers. The zero value is not usable; call New.
type Spec struct {
	matchers  []matching.FieldMatcher
	composite *matching.Composite
	err       error
}

// New returns an empty specification.
func New() *Spec {
	return &Spec{}
}

// add appends fm unless the spec is frozen.
func (s *Spec) add(fm matching.FieldMatcher) *Spec {
	if !s.mutable() {
		return s
	}
	s.matchers = append(s.matchers, fm)
	return s
}

func (s *Spec) mutable() bool {
	if s.composite != nil {
		s.err = ErrFrozen
		return false
	}
	return true
}

// With appends an arbitrary field matcher, such as one built with
// matching.CaseSensitiveNames. Nil is ignored.
func (s *Spec) With(fm matching.FieldMatcher) *Spec {
	if fm == nil {
		return s
	}
	return s.add(fm)
}

// WithPath matches when the path equals any of paths.
func (s *Spec) WithPath(paths ...string) *Spec {
	return s.add(matching.NewPathMatcher(matching.Exacts(paths...)...))
}

// WithPathMatchers matches when any of vms matches the path.
func (s *Spec) WithPathMatchers(vms ...matching.ValueMatcher) *Spec {
	return s.add(matching.NewPathMatcher(vms...))
}

// WithPathFunc matches when fn accepts the path.
func (s *Spec) WithPathFunc(fn func(path string) bool) *Spec {
	return s.add(matching.NewPathFuncMatcher(fn))
}

// WithURL matches when the full URL equals any of urls.
func (s *Spec) WithURL(urls ...string) *Spec {
	return s.add(matching.NewURLMatcher(matching.Exacts(urls...)...))
}

// WithURLMatchers matches when any of vms matches the full URL.
func (s *Spec) WithURLMatchers(vms ...matching.ValueMatcher) *Spec {
	return s.add(matching.NewURLMatcher(vms...))
}

// WithURLFunc matches when fn accepts the full URL.
func (s *Spec) WithURLFunc(fn func(url string) bool) *Spec {
	return s.add(matching.NewURLFuncMatcher(fn))
}

// UsingGet adds a method matcher for GET.
func (s *Spec) UsingGet() *Spec { return s.UsingVerb(matching.MethodGet) }

// UsingPost adds a method matcher for POST.
func (s *Spec) UsingPost() *Spec { return s.UsingVerb(matching.MethodPost) }

// UsingPut adds a method matcher for PUT.
func (s *Spec) UsingPut() *Spec { return s.UsingVerb(matching.MethodPut) }

// UsingDelete adds a method matcher for DELETE.
func (s *Spec) UsingDelete() *Spec { return s.UsingVerb(matching.MethodDelete) }

// UsingHead adds a method matcher for HEAD.
func (s *Spec) UsingHead() *Spec { return s.UsingVerb(matching.MethodHead) }

// UsingPatch adds a method matcher for PATCH.
func (s *Spec) UsingPatch() *Spec { return s.UsingVerb(matching.MethodPatch) }

// UsingOptions adds a method matcher for OPTIONS.
func (s *Spec) UsingOptions() *Spec { return s.UsingVerb(matching.MethodOptions) }

// UsingVerb matches when the method is any of verbs (case-insensitive).
// Custom verbs are accepted.
func (s *Spec) UsingVerb(verbs ...string) *Spec {
	return s.add(matching.NewMethodMatcher(verbs...))
}

// UsingAnyVerb removes every method matcher accumulated so far. It does not
// prevent later Using* calls from constraining the method again.
func (s *Spec) UsingAnyVerb() *Spec {
	if !s.mutable() {
		return s
	}
	s.matchers = slices.DeleteFunc(s.matchers, func(fm matching.FieldMatcher) bool {
		return fm.Kind() == matching.KindMethod
	})
	return s
}

// WithBody matches when the body equals body.
func (s *Spec) WithBody(body string) *Spec {
	return s.add(matching.NewBodyMatcher(matching.Exact(body)))
}

// WithBodyBytes matches when the body equals body byte for byte.
func (s *Spec) WithBodyBytes(body []byte) *Spec {
	return s.add(matching.NewBodyMatcher(matching.ExactBytes(body)))
}

// WithBodyMatchers matches when any of vms matches the body.
func (s *Spec) WithBodyMatchers(vms ...matching.ValueMatcher) *Spec {
	return s.add(matching.NewBodyMatcher(vms...))
}

// WithBodyFunc matches when fn accepts the raw body.
func (s *Spec) WithBodyFunc(fn func(body []byte) bool) *Spec {
	return s.add(matching.NewBodyFuncMatcher(fn))
}

// WithParam matches when query parameter key has any of values.
// With no values, the parameter only has to be present.
func (s *Spec) WithParam(key string, values ...string) *Spec {
	return s.add(matching.NewParamMatcher(key, matching.Exacts(values...)))
}

// WithParamMatchers matches when any value of key satisfies any of vms.
func (s *Spec) WithParamMatchers(key string, vms ...matching.ValueMatcher) *Spec {
	return s.add(matching.NewParamMatcher(key, vms))
}

// WithParamFunc matches when fn accepts the full parameter map.
func (s *Spec) WithParamFunc(fn func(params map[string][]string) bool) *Spec {
	return s.add(matching.NewParamFuncMatcher(fn))
}

// WithHeader matches when header name has any of values.
// With no values, the header only has to be present.
func (s *Spec) WithHeader(name string, values ...string) *Spec {
	return s.add(matching.NewHeaderMatcher(name, matching.Exacts(values...)))
}

// WithHeaderMatchers matches when any value of header name satisfies any of vms.
func (s *Spec) WithHeaderMatchers(name string, vms ...matching.ValueMatcher) *Spec {
	return s.add(matching.NewHeaderMatcher(name, vms))
}

// WithHeaderFunc matches when fn accepts the full header map.
func (s *Spec) WithHeaderFunc(fn func(headers map[string][]string) bool) *Spec {
	return s.add(matching.NewHeaderFuncMatcher(fn))
}

// WithCookie matches when cookie name has any of values.
// With no values, the cookie only has to be present.
func (s *Spec) WithCookie(name string, values ...string) *Spec {
	return s.add(matching.NewCookieMatcher(name, matching.Exacts(values...)))
}

// WithCookieMatchers matches when cookie name satisfies any of vms.
func (s *Spec) WithCookieMatchers(name string, vms ...matching.ValueMatcher) *Spec {
	return s.add(matching.NewCookieMatcher(name, vms))
}

// WithCookieFunc matches when fn accepts the full cookie map.
func (s *Spec) WithCookieFunc(fn func(cookies map[string]string) bool) *Spec {
	return s.add(matching.NewCookieFuncMatcher(fn))
}

// Matchers returns the accumulated matchers in insertion order.
func (s *Spec) Matchers() []matching.FieldMatcher {
	return slices.Clone(s.matchers)
}

// MatchersOfKind returns the accumulated matchers of kind in insertion order.
func (s *Spec) MatchersOfKind(kind matching.Kind) []matching.FieldMatcher {
	return matching.MatchersOfKind(s.matchers, kind)
}

// FirstMatcherOfKind returns the earliest accumulated matcher of kind.
func (s *Spec) FirstMatcherOfKind(kind matching.Kind) (matching.FieldMatcher, bool) {
	return matching.FirstMatcherOfKind(s.matchers, kind)
}

// Frozen reports whether Freeze has been called.
func (s *Spec) Frozen() bool {
	return s.composite != nil
}

// Err returns ErrFrozen if a mutation was attempted after Freeze.
func (s *Spec) Err() error {
	return s.err
}

// Freeze ends the building phase and returns the composite matcher. The
// composite holds its own copy of the matchers. Calling Freeze again
// returns the same composite, or ErrFrozen if the spec was mutated after
// the first call.
func (s *Spec) Freeze() (*matching.Composite, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.composite == nil {
		s.composite = matching.NewComposite(s.matchers...)
	}
	return s.composite, nil
}

// Composite is like Freeze but panics on error.
func (s *Spec) Composite() *matching.Composite {
	c, err := s.Freeze()
	if err != nil {
		panic(err)
	}
	return c
}
