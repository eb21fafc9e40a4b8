package matching

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// ValueMatcher scores a single string input against one configured pattern.
// Every implementation returns either ScorePerfect or ScoreNone.
//
// The set of implementations is closed; construct them with Exact, Wildcard,
// Regex, Predicate and the other constructors in this package.
type ValueMatcher interface {
	// Score returns ScorePerfect if input satisfies the pattern.
	Score(input string) Score

	// Describe returns a short human-readable form of the pattern,
	// used in near-miss diagnostics.
	Describe() string

	valueMatcher()
}

// ExactMatcher matches an input equal to a literal.
type ExactMatcher struct {
	literal    string
	display    string
	ignoreCase bool
}

// Exact returns a matcher for inputs equal to s.
func Exact(s string) *ExactMatcher {
	return &ExactMatcher{literal: s, display: s}
}

// ExactBytes returns a matcher for inputs byte-for-byte equal to b.
func ExactBytes(b []byte) *ExactMatcher {
	s := string(bytes.Clone(b))
	return &ExactMatcher{literal: s, display: s}
}

// ExactFold returns a matcher for inputs equal to s under Unicode case folding.
func ExactFold(s string) *ExactMatcher {
	return &ExactMatcher{literal: fold(s), display: s, ignoreCase: true}
}

func (m *ExactMatcher) Score(input string) Score {
	if m.ignoreCase {
		return scoreOf(fold(input) == m.literal)
	}
	return scoreOf(input == m.literal)
}

func (m *ExactMatcher) Describe() string {
	if m.ignoreCase {
		return fmt.Sprintf("equals %q (ignoring case)", m.display)
	}
	return fmt.Sprintf("equals %q", m.display)
}

func (*ExactMatcher) valueMatcher() {}

// WildcardMatcher matches a glob-style pattern anchored at both ends.
// '*' matches any run of characters (including '/') and '?' matches exactly one.
type WildcardMatcher struct {
	pattern string
	re      *regexp.Regexp
}

// Wildcard returns a case-sensitive wildcard matcher.
func Wildcard(pattern string) *WildcardMatcher {
	return newWildcard(pattern, false)
}

// WildcardFold returns a case-insensitive wildcard matcher.
func WildcardFold(pattern string) *WildcardMatcher {
	return newWildcard(pattern, true)
}

func newWildcard(pattern string, ignoreCase bool) *WildcardMatcher {
	var sb strings.Builder
	if ignoreCase {
		sb.WriteString("(?i)")
	}
	sb.WriteString(`^(?s:`)
	for _, r := range pattern {
		switch r {
		case '*':
			sb.WriteString(".*")
		case '?':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString(`)$`)
	// Every literal is quoted, so the translation always compiles.
	return &WildcardMatcher{pattern: pattern, re: regexp.MustCompile(sb.String())}
}

func (m *WildcardMatcher) Score(input string) Score {
	return scoreOf(m.re.MatchString(input))
}

func (m *WildcardMatcher) Describe() string {
	return fmt.Sprintf("matches wildcard %q", m.pattern)
}

func (*WildcardMatcher) valueMatcher() {}

// RegexMatcher matches when the whole input satisfies a regular expression.
type RegexMatcher struct {
	pattern       string
	caseSensitive bool
	re            *regexp.Regexp
}

// Regex compiles pattern as a full-string test. The pattern does not need
// anchors: "\d+" rejects "12a". An invalid pattern returns a *ConfigurationError.
func Regex(pattern string, caseSensitive bool) (*RegexMatcher, error) {
	if _, err := regexp.Compile(pattern); err != nil {
		return nil, configErr("regex", fmt.Sprintf("invalid pattern %q", pattern), err)
	}
	full := `^(?:` + pattern + `)$`
	if !caseSensitive {
		full = `(?i)` + full
	}
	re, err := regexp.Compile(full)
	if err != nil {
		return nil, configErr("regex", fmt.Sprintf("invalid pattern %q", pattern), err)
	}
	return &RegexMatcher{pattern: pattern, caseSensitive: caseSensitive, re: re}, nil
}

// MustRegex is like Regex but panics on an invalid pattern.
// It simplifies initialisation of package-level matchers and tests.
func MustRegex(pattern string, caseSensitive bool) *RegexMatcher {
	m, err := Regex(pattern, caseSensitive)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *RegexMatcher) Score(input string) Score {
	return scoreOf(m.re.MatchString(input))
}

func (m *RegexMatcher) Describe() string {
	if !m.caseSensitive {
		return fmt.Sprintf("matches regex %q (ignoring case)", m.pattern)
	}
	return fmt.Sprintf("matches regex %q", m.pattern)
}

func (*RegexMatcher) valueMatcher() {}

// PredicateMatcher delegates to a caller-supplied function.
type PredicateMatcher struct {
	fn func(string) bool
}

// Predicate returns a matcher that scores ScorePerfect when fn returns true.
// A nil fn never matches.
func Predicate(fn func(string) bool) *PredicateMatcher {
	return &PredicateMatcher{fn: fn}
}

func (m *PredicateMatcher) Score(input string) Score {
	if m.fn == nil {
		return ScoreNone
	}
	return scoreOf(m.fn(input))
}

func (m *PredicateMatcher) Describe() string {
	return "satisfies predicate"
}

func (*PredicateMatcher) valueMatcher() {}

// ContainsMatcher matches inputs containing a substring.
type ContainsMatcher struct {
	substr string
}

// Contains returns a matcher for inputs containing substr.
func Contains(substr string) *ContainsMatcher {
	return &ContainsMatcher{substr: substr}
}

func (m *ContainsMatcher) Score(input string) Score {
	return scoreOf(strings.Contains(input, m.substr))
}

func (m *ContainsMatcher) Describe() string {
	return fmt.Sprintf("contains %q", m.substr)
}

func (*ContainsMatcher) valueMatcher() {}

// NotMatcher inverts another matcher (reject on match).
type NotMatcher struct {
	inner ValueMatcher
}

// Not returns a matcher that scores ScorePerfect exactly when vm does not.
func Not(vm ValueMatcher) *NotMatcher {
	return &NotMatcher{inner: vm}
}

func (m *NotMatcher) Score(input string) Score {
	return ScorePerfect - m.inner.Score(input)
}

func (m *NotMatcher) Describe() string {
	return "not " + m.inner.Describe()
}

func (*NotMatcher) valueMatcher() {}

// fold applies Unicode simple case folding. Casers are stateful, so a new
// one is created per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Exacts converts literals into exact matchers.
func Exacts(values ...string) []ValueMatcher {
	vms := make([]ValueMatcher, len(values))
	for i, v := range values {
		vms[i] = Exact(v)
	}
	return vms
}
