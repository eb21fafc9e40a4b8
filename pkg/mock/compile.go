package mock

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/getmockd/reqmatch/pkg/matching"
	"github.com/getmockd/reqmatch/pkg/request"
	"github.com/getmockd/reqmatch/pkg/requestspec"
)

// Compile assigns a UUID if the ID is empty, defaults a zero response
// status to 200, validates the expectation and freezes its request section
// into a composite matcher. An expectation without a request section
// matches every request.
//
// Compiling an already compiled expectation is a no-op. Later edits to
// Request are not picked up.
func (e *Expectation) Compile() error {
	if e.matcher != nil {
		return nil
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.Response.applyDefaults()
	if err := e.Validate(); err != nil {
		return err
	}

	spec := requestspec.New()
	if e.Request != nil {
		var err error
		if spec, err = e.Request.Spec(); err != nil {
			return fmt.Errorf("expectation %s: %w", e.ID, err)
		}
	}

	c, err := spec.Freeze()
	if err != nil {
		return fmt.Errorf("expectation %s: %w", e.ID, err)
	}
	e.matcher = c
	return nil
}

// Spec builds an unfrozen request specification from m. Matchers are added
// in a fixed order: methods, paths, URLs, headers, cookies, params, body,
// then expressions.
func (m *RequestMatcher) Spec() (*requestspec.Spec, error) {
	spec := requestspec.New()

	if len(m.Methods) > 0 {
		spec.UsingVerb(m.Methods...)
	}

	for _, single := range []struct {
		field    string
		patterns []Pattern
		add      func(...matching.ValueMatcher) *requestspec.Spec
	}{
		{"request.paths", m.Paths, spec.WithPathMatchers},
		{"request.urls", m.URLs, spec.WithURLMatchers},
	} {
		if len(single.patterns) == 0 {
			continue
		}
		vms, err := compilePatterns(single.field, single.patterns)
		if err != nil {
			return nil, err
		}
		single.add(vms...)
	}

	for i, h := range m.Headers {
		vms, err := compilePatterns(fmt.Sprintf("request.headers[%d].patterns", i), h.Patterns)
		if err != nil {
			return nil, err
		}
		spec.With(matching.NewHeaderMatcher(h.Name, vms, h.nameOptions()...))
	}
	for i, c := range m.Cookies {
		vms, err := compilePatterns(fmt.Sprintf("request.cookies[%d].patterns", i), c.Patterns)
		if err != nil {
			return nil, err
		}
		spec.With(matching.NewCookieMatcher(c.Name, vms, c.nameOptions()...))
	}
	for i, p := range m.Params {
		vms, err := compilePatterns(fmt.Sprintf("request.params[%d].patterns", i), p.Patterns)
		if err != nil {
			return nil, err
		}
		spec.With(matching.NewParamMatcher(p.Name, vms, p.nameOptions()...))
	}

	if len(m.Body) > 0 {
		vms, err := compilePatterns("request.body", m.Body)
		if err != nil {
			return nil, err
		}
		spec.WithBodyMatchers(vms...)
	}

	if err := m.addExprs(spec); err != nil {
		return nil, err
	}
	return spec, nil
}

func (m *RequestMatcher) addExprs(spec *requestspec.Spec) error {
	if m.HeadersExpr != "" {
		p, err := compileExpr("request.headersExpr", m.HeadersExpr, multiEnv("headers", nil))
		if err != nil {
			return err
		}
		spec.WithHeaderFunc(func(h map[string][]string) bool { return evalBool(p, multiEnv("headers", h)) })
	}
	if m.ParamsExpr != "" {
		p, err := compileExpr("request.paramsExpr", m.ParamsExpr, multiEnv("params", nil))
		if err != nil {
			return err
		}
		spec.WithParamFunc(func(q map[string][]string) bool { return evalBool(p, multiEnv("params", q)) })
	}
	if m.CookiesExpr != "" {
		p, err := compileExpr("request.cookiesExpr", m.CookiesExpr, cookiesEnv(nil))
		if err != nil {
			return err
		}
		spec.WithCookieFunc(func(c map[string]string) bool { return evalBool(p, cookiesEnv(c)) })
	}
	if m.BodyExpr != "" {
		p, err := compileExpr("request.bodyExpr", m.BodyExpr, bodyVars{})
		if err != nil {
			return err
		}
		spec.WithBodyFunc(func(b []byte) bool { return evalBool(p, bodyEnv(b)) })
	}
	if m.PathExpr != "" {
		p, err := compileExpr("request.pathExpr", m.PathExpr, pathVars{})
		if err != nil {
			return err
		}
		spec.WithPathFunc(func(path string) bool { return evalBool(p, pathEnv(path)) })
	}
	if m.URLExpr != "" {
		p, err := compileExpr("request.urlExpr", m.URLExpr, urlVars{})
		if err != nil {
			return err
		}
		spec.WithURLFunc(func(u string) bool { return evalBool(p, urlVars{URL: u}) })
	}
	return nil
}

func (n *NamedMatch) nameOptions() []matching.NameOption {
	if n.CaseSensitive {
		return []matching.NameOption{matching.CaseSensitiveNames()}
	}
	return nil
}

func compilePatterns(field string, patterns []Pattern) ([]matching.ValueMatcher, error) {
	vms := make([]matching.ValueMatcher, 0, len(patterns))
	for i := range patterns {
		vm, err := patterns[i].ValueMatcher()
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", field, i, err)
		}
		vms = append(vms, vm)
	}
	return vms, nil
}

// ValueMatcher builds the value matcher p selects. Syntax errors are
// returned as *matching.ConfigurationError.
func (p *Pattern) ValueMatcher() (matching.ValueMatcher, error) {
	vm, err := p.base()
	if err != nil {
		return nil, err
	}
	if p.Reject {
		return matching.Not(vm), nil
	}
	return vm, nil
}

func (p *Pattern) base() (matching.ValueMatcher, error) {
	switch {
	case p.Exact != nil:
		if p.IgnoreCase {
			return matching.ExactFold(*p.Exact), nil
		}
		return matching.Exact(*p.Exact), nil
	case p.Wildcard != "":
		if p.IgnoreCase {
			return matching.WildcardFold(p.Wildcard), nil
		}
		return matching.Wildcard(p.Wildcard), nil
	case p.Glob != "":
		return matching.Glob(p.Glob)
	case p.Regex != "":
		return matching.Regex(p.Regex, !p.IgnoreCase)
	case p.Contains != "":
		return matching.Contains(p.Contains), nil
	case p.JSONPath != "":
		return matching.JSONPath(p.JSONPath, p.Equals)
	case p.XPath != "":
		return matching.XPath(p.XPath, p.Value)
	case p.JSONSchema != nil:
		return matching.JSONSchema(p.JSONSchema)
	default:
		return nil, &ValidationError{Field: "pattern", Message: "no strategy specified"}
	}
}

// Matches reports whether the compiled expectation applies to r. It
// returns false before Compile.
func (e *Expectation) Matches(r *request.Request) bool {
	return e.matcher != nil && e.matcher.IsMatch(r)
}

// FromSpec builds a compiled expectation from a request specification
// assembled in code, which may use func matchers that have no declarative
// form. The spec is frozen. A nil spec matches every request and an empty
// id gets a UUID.
func FromSpec(id string, spec *requestspec.Spec, resp *Response) (*Expectation, error) {
	if spec == nil {
		spec = requestspec.New()
	}
	e := &Expectation{ID: id, Response: resp}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.Response.applyDefaults()
	if err := e.Validate(); err != nil {
		return nil, err
	}

	c, err := spec.Freeze()
	if err != nil {
		return nil, fmt.Errorf("expectation %s: %w", e.ID, err)
	}
	e.matcher = c
	return e, nil
}
