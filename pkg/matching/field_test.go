package matching

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/getmockd/reqmatch/pkg/request"
)

func newRequest() *request.Request {
	return &request.Request{
		Method: "GET",
		Path:   "/orders",
		URL:    "http://localhost:4280/orders?status=open&status=closed",
		Headers: map[string][]string{
			"X-Test": {"v"},
			"Accept": {"application/xml", "application/json"},
		},
		Cookies: map[string]string{"session": "abc"},
		Params:  map[string][]string{"status": {"open", "closed"}},
		Body:    []byte(`{"id":1}`),
	}
}

func TestMethodMatcher(t *testing.T) {
	tests := []struct {
		name   string
		verbs  []string
		method string
		want   Score
	}{
		{"single verb", []string{"GET"}, "GET", ScorePerfect},
		{"case insensitive", []string{"get"}, "GET", ScorePerfect},
		{"request lower case", []string{"POST"}, "post", ScorePerfect},
		{"any of verbs", []string{"PUT", "POST"}, "POST", ScorePerfect},
		{"custom verb", []string{"PROPFIND"}, "PROPFIND", ScorePerfect},
		{"mismatch", []string{"GET", "HEAD"}, "DELETE", ScoreNone},
		{"no verbs", nil, "GET", ScoreNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMethodMatcher(tt.verbs...)
			assert.Equal(t, KindMethod, m.Kind())
			assert.Equal(t, tt.want, m.Score(&request.Request{Method: tt.method}))
		})
	}

	assert.Equal(t, []string{"GET", "POST"}, NewMethodMatcher(" get", "Post").Verbs())
}

func TestPathMatcher_OrSemantics(t *testing.T) {
	m := NewPathMatcher(Exacts("a", "b")...)

	assert.Equal(t, ScorePerfect, m.Score(&request.Request{Path: "a"}))
	assert.Equal(t, ScorePerfect, m.Score(&request.Request{Path: "b"}))
	assert.Equal(t, ScoreNone, m.Score(&request.Request{Path: "c"}))
	assert.Equal(t, `equals "a" or equals "b"`, m.Describe())
}

func TestPathMatcher_MixedStrategies(t *testing.T) {
	m := NewPathMatcher(Exact("/health"), Wildcard("/api/*"), MustRegex(`/v\d+/.*`, true))

	for _, path := range []string{"/health", "/api/users", "/v2/things"} {
		assert.Equal(t, ScorePerfect, m.Score(&request.Request{Path: path}), path)
	}
	assert.Equal(t, ScoreNone, m.Score(&request.Request{Path: "/vx/things"}))
}

func TestPathAndURLFuncMatchers(t *testing.T) {
	r := newRequest()

	assert.Equal(t, ScorePerfect, NewPathFuncMatcher(func(p string) bool { return len(p) == 7 }).Score(r))
	assert.Equal(t, ScoreNone, NewPathFuncMatcher(func(string) bool { return false }).Score(r))
	assert.Equal(t, ScorePerfect, NewURLMatcher(Wildcard("http://*/orders?*")).Score(r))
	assert.Equal(t, ScoreNone, NewURLMatcher(Wildcard("https://*")).Score(r))
	assert.Equal(t, KindURL, NewURLFuncMatcher(nil).Kind())
	assert.Equal(t, ScoreNone, NewURLFuncMatcher(nil).Score(r))
}

func TestHeaderMatcher(t *testing.T) {
	r := newRequest()

	tests := []struct {
		name    string
		matcher *HeaderMatcher
		want    Score
	}{
		{"exact", NewHeaderMatcher("X-Test", Exacts("v")), ScorePerfect},
		{"name case insensitive by default", NewHeaderMatcher("x-test", Exacts("v")), ScorePerfect},
		{"case sensitive name", NewHeaderMatcher("x-test", Exacts("v"), CaseSensitiveNames()), ScoreNone},
		{"case sensitive exact name", NewHeaderMatcher("X-Test", Exacts("v"), CaseSensitiveNames()), ScorePerfect},
		{"value mismatch", NewHeaderMatcher("X-Test", Exacts("w")), ScoreNone},
		{"any of multiple values", NewHeaderMatcher("Accept", Exacts("application/json")), ScorePerfect},
		{"any of patterns", NewHeaderMatcher("Accept", []ValueMatcher{Exact("text/html"), Wildcard("*/xml")}), ScorePerfect},
		{"missing header", NewHeaderMatcher("Authorization", Exacts("x")), ScoreNone},
		{"presence", NewHeaderMatcher("accept", nil), ScorePerfect},
		{"presence missing", NewHeaderMatcher("Authorization", nil), ScoreNone},
		{"reject on match", NewHeaderMatcher("X-Test", []ValueMatcher{Not(Exact("v"))}), ScoreNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, KindHeader, tt.matcher.Kind())
			assert.Equal(t, tt.want, tt.matcher.Score(r))
		})
	}
}

func TestHeaderMatcher_MatchesLowerCasedRequestHeader(t *testing.T) {
	r := &request.Request{Headers: map[string][]string{"x-test": {"v"}}}
	assert.Equal(t, ScorePerfect, NewHeaderMatcher("X-Test", Exacts("v")).Score(r))
}

func TestHeaderFuncMatcher_ReceivesWholeMap(t *testing.T) {
	// header A absent and header B present
	m := NewHeaderFuncMatcher(func(h map[string][]string) bool {
		_, hasA := h["A"]
		_, hasB := h["B"]
		return !hasA && hasB
	})

	assert.Equal(t, ScorePerfect, m.Score(&request.Request{Headers: map[string][]string{"B": {"1"}}}))
	assert.Equal(t, ScoreNone, m.Score(&request.Request{Headers: map[string][]string{"A": {"1"}, "B": {"1"}}}))
	assert.Equal(t, "", m.Name())
	assert.Equal(t, ScoreNone, NewHeaderFuncMatcher(nil).Score(newRequest()))
}

func TestParamMatcher(t *testing.T) {
	r := newRequest()

	assert.Equal(t, ScorePerfect, NewParamMatcher("status", Exacts("open")).Score(r))
	assert.Equal(t, ScorePerfect, NewParamMatcher("status", Exacts("closed")).Score(r))
	assert.Equal(t, ScorePerfect, NewParamMatcher("STATUS", Exacts("open")).Score(r))
	assert.Equal(t, ScoreNone, NewParamMatcher("STATUS", Exacts("open"), CaseSensitiveNames()).Score(r))
	assert.Equal(t, ScoreNone, NewParamMatcher("status", Exacts("pending")).Score(r))
	assert.Equal(t, ScorePerfect, NewParamMatcher("status", nil).Score(r))
	assert.Equal(t, ScoreNone, NewParamMatcher("page", nil).Score(r))

	empty := &request.Request{Params: map[string][]string{"flag": {}}}
	assert.Equal(t, ScorePerfect, NewParamMatcher("flag", nil).Score(empty))
	assert.Equal(t, ScoreNone, NewParamMatcher("flag", Exacts("")).Score(empty))

	fn := NewParamFuncMatcher(func(p map[string][]string) bool { return len(p["status"]) == 2 })
	assert.Equal(t, ScorePerfect, fn.Score(r))
	assert.Equal(t, KindParam, fn.Kind())
}

func TestCookieMatcher(t *testing.T) {
	r := newRequest()

	assert.Equal(t, ScorePerfect, NewCookieMatcher("session", Exacts("abc")).Score(r))
	assert.Equal(t, ScorePerfect, NewCookieMatcher("SESSION", Exacts("abc")).Score(r))
	assert.Equal(t, ScoreNone, NewCookieMatcher("SESSION", Exacts("abc"), CaseSensitiveNames()).Score(r))
	assert.Equal(t, ScoreNone, NewCookieMatcher("session", Exacts("xyz")).Score(r))
	assert.Equal(t, ScoreNone, NewCookieMatcher("theme", nil).Score(r))
	assert.Equal(t, ScorePerfect, NewCookieMatcher("session", nil).Score(r))

	fn := NewCookieFuncMatcher(func(c map[string]string) bool { return c["session"] != "" })
	assert.Equal(t, ScorePerfect, fn.Score(r))
	assert.Equal(t, ScoreNone, fn.Score(&request.Request{}))
}

func TestBodyMatcher(t *testing.T) {
	r := newRequest()

	assert.Equal(t, ScorePerfect, NewBodyMatcher(Exact(`{"id":1}`)).Score(r))
	assert.Equal(t, ScorePerfect, NewBodyMatcher(ExactBytes([]byte(`{"id":1}`))).Score(r))
	assert.Equal(t, ScoreNone, NewBodyMatcher(Exact(`{"id":2}`)).Score(r))

	jp, err := JSONPath("$.id", 1)
	if assert.NoError(t, err) {
		assert.Equal(t, ScorePerfect, NewBodyMatcher(Exact("nope"), jp).Score(r))
	}

	bytesFn := NewBodyFuncMatcher(func(b []byte) bool { return len(b) == 8 })
	assert.Equal(t, ScorePerfect, bytesFn.Score(r))
	assert.Equal(t, "satisfies predicate", bytesFn.Describe())
	assert.Equal(t, ScoreNone, NewBodyMatcher().Score(r))
}

func TestFieldMatcher_Actual(t *testing.T) {
	r := newRequest()

	assert.Equal(t, "GET", NewMethodMatcher("POST").Actual(r))
	assert.Equal(t, "/orders", NewPathMatcher().Actual(r))
	assert.Equal(t, `"v"`, NewHeaderMatcher("x-test", nil).Actual(r))
	assert.Equal(t, "(missing)", NewHeaderMatcher("Authorization", nil).Actual(r))
	assert.Equal(t, `"abc"`, NewCookieMatcher("session", nil).Actual(r))
	assert.Equal(t, `{"id":1}`, NewBodyMatcher().Actual(r))

	long := &request.Request{Body: []byte(strings.Repeat("x", 500))}
	assert.Equal(t, strings.Repeat("x", 200)+"...(truncated)", NewBodyMatcher().Actual(long))
}
