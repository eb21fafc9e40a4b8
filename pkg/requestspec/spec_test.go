package requestspec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/reqmatch/pkg/matching"
	"github.com/getmockd/reqmatch/pkg/request"
)

func TestSpec_FluentCallsReturnSameInstance(t *testing.T) {
	s := New()

	assert.Same(t, s, s.WithPath("/a"))
	assert.Same(t, s, s.UsingGet())
	assert.Same(t, s, s.UsingAnyVerb())
	assert.Same(t, s, s.WithHeader("A", "1"))
	assert.Len(t, s.Matchers(), 2)
}

func TestSpec_EachCallAppendsOneMatcher(t *testing.T) {
	s := New().
		WithPath("/a", "/b").
		WithPathMatchers(matching.Wildcard("/c/*")).
		WithPathFunc(func(string) bool { return true }).
		WithURL("http://x/a").
		WithURLMatchers(matching.Wildcard("*")).
		WithURLFunc(func(string) bool { return true }).
		UsingGet().UsingPost().UsingPut().UsingDelete().UsingHead().UsingPatch().UsingOptions().
		UsingVerb("PROPFIND", "MKCOL").
		WithBody("x").
		WithBodyBytes([]byte("x")).
		WithBodyMatchers(matching.Contains("x")).
		WithBodyFunc(func([]byte) bool { return true }).
		WithParam("p", "1").
		WithParamMatchers("p", matching.Exact("1")).
		WithParamFunc(func(map[string][]string) bool { return true }).
		WithHeader("h", "1").
		WithHeaderMatchers("h", matching.Exact("1")).
		WithHeaderFunc(func(map[string][]string) bool { return true }).
		WithCookie("c", "1").
		WithCookieMatchers("c", matching.Exact("1")).
		WithCookieFunc(func(map[string]string) bool { return true }).
		With(matching.NewHeaderMatcher("X", nil, matching.CaseSensitiveNames())).
		With(nil)

	assert.Len(t, s.Matchers(), 28)
	assert.Len(t, s.MatchersOfKind(matching.KindPath), 3)
	assert.Len(t, s.MatchersOfKind(matching.KindURL), 3)
	assert.Len(t, s.MatchersOfKind(matching.KindMethod), 8)
	assert.Len(t, s.MatchersOfKind(matching.KindBody), 4)
	assert.Len(t, s.MatchersOfKind(matching.KindParam), 3)
	assert.Len(t, s.MatchersOfKind(matching.KindHeader), 4)
	assert.Len(t, s.MatchersOfKind(matching.KindCookie), 3)
}

func TestSpec_UsingAnyVerbRemovesMethodMatchers(t *testing.T) {
	s := New().UsingGet().WithPath("/a").UsingPost().UsingVerb("PURGE")
	require.Len(t, s.MatchersOfKind(matching.KindMethod), 3)

	s.UsingAnyVerb()
	assert.Empty(t, s.MatchersOfKind(matching.KindMethod))
	assert.Len(t, s.Matchers(), 1, "non-method matchers are kept")

	s.UsingPost()
	methods := s.MatchersOfKind(matching.KindMethod)
	require.Len(t, methods, 1)
	assert.Equal(t, []string{"POST"}, methods[0].(*matching.MethodMatcher).Verbs())
}

func TestSpec_UsingAnyVerbOnEmptySpec(t *testing.T) {
	s := New().UsingAnyVerb()
	assert.Empty(t, s.Matchers())

	c, err := s.Freeze()
	require.NoError(t, err)
	assert.True(t, c.IsMatch(&request.Request{Method: "DELETE"}))
}

func TestSpec_Scenarios(t *testing.T) {
	orders := New().WithPath("/orders").UsingGet().WithParam("status", "open").Composite()

	tests := []struct {
		name string
		c    *matching.Composite
		r    *request.Request
		want bool
	}{
		{
			name: "multi-valued param contains open",
			c:    orders,
			r:    &request.Request{Method: "GET", Path: "/orders", Params: map[string][]string{"status": {"open", "closed"}}},
			want: true,
		},
		{
			name: "param only closed",
			c:    orders,
			r:    &request.Request{Method: "GET", Path: "/orders", Params: map[string][]string{"status": {"closed"}}},
			want: false,
		},
		{
			name: "header name case-insensitive",
			c:    New().WithHeader("X-Test", "v").Composite(),
			r:    &request.Request{Headers: map[string][]string{"x-test": {"v"}}},
			want: true,
		},
		{
			name: "path a",
			c:    New().WithPath("a", "b").Composite(),
			r:    &request.Request{Path: "a"},
			want: true,
		},
		{
			name: "path b",
			c:    New().WithPath("a", "b").Composite(),
			r:    &request.Request{Path: "b"},
			want: true,
		},
		{
			name: "path c",
			c:    New().WithPath("a", "b").Composite(),
			r:    &request.Request{Path: "c"},
			want: false,
		},
		{
			name: "two headers both required",
			c:    New().WithHeader("A", "1").WithHeader("B", "2").Composite(),
			r:    &request.Request{Headers: map[string][]string{"A": {"1"}}},
			want: false,
		},
		{
			name: "any verb after get",
			c:    New().UsingGet().UsingAnyVerb().WithPath("/x").Composite(),
			r:    &request.Request{Method: "PATCH", Path: "/x"},
			want: true,
		},
		{
			name: "cross-header predicate",
			c: New().WithHeaderFunc(func(h map[string][]string) bool {
				_, a := h["A"]
				_, b := h["B"]
				return !a && b
			}).Composite(),
			r:    &request.Request{Headers: map[string][]string{"B": {"x"}}},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.IsMatch(tt.r))
		})
	}
}

func TestSpec_FirstMatcherOfKindIsInsertionOrder(t *testing.T) {
	s := New().WithHeader("First", "1").WithPath("/x").WithHeader("Second", "2")

	got, ok := s.FirstMatcherOfKind(matching.KindHeader)
	require.True(t, ok)
	assert.Equal(t, "First", got.Name())

	c := s.Composite()
	got, ok = c.FirstMatcherOfKind(matching.KindHeader)
	require.True(t, ok)
	assert.Equal(t, "First", got.Name())

	_, ok = s.FirstMatcherOfKind(matching.KindCookie)
	assert.False(t, ok)
}

func TestSpec_Freeze(t *testing.T) {
	s := New().WithPath("/a").UsingGet()
	assert.False(t, s.Frozen())

	c, err := s.Freeze()
	require.NoError(t, err)
	assert.True(t, s.Frozen())
	assert.Equal(t, 2, c.Len())

	again, err := s.Freeze()
	require.NoError(t, err)
	assert.Same(t, c, again)
}

func TestSpec_MutationAfterFreezeIsRejected(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Spec)
	}{
		{"append", func(s *Spec) { s.WithHeader("B", "2") }},
		{"remove", func(s *Spec) { s.UsingAnyVerb() }},
		{"with", func(s *Spec) { s.With(matching.NewBodyMatcher()) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New().UsingGet().WithHeader("A", "1")
			c, err := s.Freeze()
			require.NoError(t, err)

			tt.mutate(s)

			assert.Len(t, s.Matchers(), 2)
			assert.Equal(t, 2, c.Len())
			require.Error(t, s.Err())
			assert.True(t, errors.Is(s.Err(), ErrFrozen))
			assert.True(t, errors.Is(s.Err(), matching.ErrUnsupportedOperation))

			_, err = s.Freeze()
			assert.ErrorIs(t, err, ErrFrozen)
			assert.Panics(t, func() { s.Composite() })
		})
	}
}

func TestSpec_CompositeDoesNotAliasBuilder(t *testing.T) {
	s := New().WithPath("/a")
	matchers := s.Matchers()
	matchers[0] = matching.NewPathMatcher(matching.Exact("/b"))

	c := s.Composite()
	assert.True(t, c.IsMatch(&request.Request{Path: "/a"}))
}
