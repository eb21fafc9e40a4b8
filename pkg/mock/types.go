// Package mock defines expectations: a declarative request matcher paired
// with the response a mock server should return when it applies.
//
// Expectations are usually loaded from YAML or JSON files by pkg/config.
// Compile turns the declarative request section into an immutable
// matching.Composite through the requestspec builder.
package mock

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/getmockd/reqmatch/pkg/matching"
)

// Expectation pairs a request matcher with a canned response.
type Expectation struct {
	// ID is unique within a router. Compile assigns a UUID when empty.
	ID string `json:"id" yaml:"id"`

	// Name is a human-readable label used in diagnostics.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Priority orders routing: higher priorities are tried first, equal
	// priorities in registration order.
	Priority int `json:"priority,omitempty" yaml:"priority,omitempty"`

	// Enabled defaults to true when omitted.
	Enabled *bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	Request  *RequestMatcher `json:"request,omitempty" yaml:"request,omitempty"`
	Response *Response       `json:"response,omitempty" yaml:"response,omitempty"`

	// CreatedAt is set on registration.
	CreatedAt time.Time `json:"createdAt,omitzero" yaml:"createdAt,omitempty"`

	matcher *matching.Composite
}

// IsEnabled reports whether the expectation takes part in routing.
func (e *Expectation) IsEnabled() bool {
	return e.Enabled == nil || *e.Enabled
}

// Compiled reports whether Compile has succeeded.
func (e *Expectation) Compiled() bool {
	return e.matcher != nil
}

// Matcher returns the compiled composite, or nil before Compile.
func (e *Expectation) Matcher() *matching.Composite {
	return e.matcher
}

// Label returns the name if set, otherwise the ID.
func (e *Expectation) Label() string {
	if e.Name != "" {
		return e.Name
	}
	return e.ID
}

// Bool returns a pointer to b, for Enabled literals.
func Bool(b bool) *bool {
	return &b
}

// RequestMatcher is the declarative form of a request specification.
// Every populated field is one field matcher, and all of them must match.
type RequestMatcher struct {
	// Methods become one method matcher accepting any of the verbs.
	Methods []string `json:"methods,omitempty" yaml:"methods,omitempty"`

	// Paths and URLs become one matcher each, satisfied by any pattern.
	Paths []Pattern `json:"paths,omitempty" yaml:"paths,omitempty"`
	URLs  []Pattern `json:"urls,omitempty" yaml:"urls,omitempty"`

	// Each entry becomes its own matcher; every entry must match.
	Headers []NamedMatch `json:"headers,omitempty" yaml:"headers,omitempty"`
	Cookies []NamedMatch `json:"cookies,omitempty" yaml:"cookies,omitempty"`
	Params  []NamedMatch `json:"params,omitempty" yaml:"params,omitempty"`

	// Body becomes one matcher satisfied by any pattern.
	Body []Pattern `json:"body,omitempty" yaml:"body,omitempty"`

	// Boolean expressions over a whole facet. See Compile for the
	// variables each one can reference.
	HeadersExpr string `json:"headersExpr,omitempty" yaml:"headersExpr,omitempty"`
	ParamsExpr  string `json:"paramsExpr,omitempty" yaml:"paramsExpr,omitempty"`
	CookiesExpr string `json:"cookiesExpr,omitempty" yaml:"cookiesExpr,omitempty"`
	BodyExpr    string `json:"bodyExpr,omitempty" yaml:"bodyExpr,omitempty"`
	PathExpr    string `json:"pathExpr,omitempty" yaml:"pathExpr,omitempty"`
	URLExpr     string `json:"urlExpr,omitempty" yaml:"urlExpr,omitempty"`
}

// NamedMatch constrains one header, cookie or query parameter.
// Without patterns only presence is required.
type NamedMatch struct {
	Name          string    `json:"name" yaml:"name"`
	Patterns      []Pattern `json:"patterns,omitempty" yaml:"patterns,omitempty"`
	CaseSensitive bool      `json:"caseSensitive,omitempty" yaml:"caseSensitive,omitempty"`
}

// Pattern selects exactly one matching strategy.
//
// A bare scalar decodes as an exact pattern, so `paths: [/orders]` and
// `paths: [{exact: /orders}]` are equivalent.
type Pattern struct {
	Exact    *string `json:"exact,omitempty" yaml:"exact,omitempty"`
	Wildcard string  `json:"wildcard,omitempty" yaml:"wildcard,omitempty"`
	Glob     string  `json:"glob,omitempty" yaml:"glob,omitempty"`
	Regex    string  `json:"regex,omitempty" yaml:"regex,omitempty"`
	Contains string  `json:"contains,omitempty" yaml:"contains,omitempty"`

	// JSONPath selects values from a JSON input; Equals, if set, is the
	// value one of them must equal.
	JSONPath string `json:"jsonPath,omitempty" yaml:"jsonPath,omitempty"`
	Equals   any    `json:"equals,omitempty" yaml:"equals,omitempty"`

	// XPath selects elements or an attribute from an XML input; Value, if
	// set, is the text one of them must equal.
	XPath string `json:"xPath,omitempty" yaml:"xPath,omitempty"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`

	// JSONSchema is an inline schema document the input must satisfy.
	JSONSchema any `json:"jsonSchema,omitempty" yaml:"jsonSchema,omitempty"`

	// IgnoreCase applies to exact, wildcard and regex.
	IgnoreCase bool `json:"ignoreCase,omitempty" yaml:"ignoreCase,omitempty"`

	// Reject inverts the pattern.
	Reject bool `json:"reject,omitempty" yaml:"reject,omitempty"`
}

// ExactPattern returns a Pattern matching s exactly.
func ExactPattern(s string) Pattern {
	return Pattern{Exact: &s}
}

type patternAlias Pattern

func (p *Pattern) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*p = ExactPattern(value.Value)
		return nil
	}
	var alias patternAlias
	if err := value.Decode(&alias); err != nil {
		return err
	}
	*p = Pattern(alias)
	return nil
}

func (p *Pattern) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = ExactPattern(s)
		return nil
	}
	var alias patternAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*p = Pattern(alias)
	return nil
}

// strategies returns the names of the strategies p selects.
func (p *Pattern) strategies() []string {
	var set []string
	if p.Exact != nil {
		set = append(set, "exact")
	}
	for _, s := range []struct {
		name string
		on   bool
	}{
		{"wildcard", p.Wildcard != ""},
		{"glob", p.Glob != ""},
		{"regex", p.Regex != ""},
		{"contains", p.Contains != ""},
		{"jsonPath", p.JSONPath != ""},
		{"xPath", p.XPath != ""},
		{"jsonSchema", p.JSONSchema != nil},
	} {
		if s.on {
			set = append(set, s.name)
		}
	}
	return set
}

// DefaultStatusCode is used when a response leaves statusCode unset.
const DefaultStatusCode = 200

// Response is the canned response. The matching engine never reads it.
type Response struct {
	StatusCode int               `json:"statusCode" yaml:"statusCode"`
	Headers    map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body       string            `json:"body,omitempty" yaml:"body,omitempty"`
}

// UnmarshalJSON accepts a body given as a JSON object or array and stores
// it as its JSON text.
func (r *Response) UnmarshalJSON(data []byte) error {
	var proxy struct {
		StatusCode int               `json:"statusCode"`
		Headers    map[string]string `json:"headers"`
		Body       json.RawMessage   `json:"body"`
	}
	if err := json.Unmarshal(data, &proxy); err != nil {
		return err
	}
	r.StatusCode = proxy.StatusCode
	r.Headers = proxy.Headers
	r.Body = ""
	if len(proxy.Body) == 0 || string(proxy.Body) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(proxy.Body, &s); err == nil {
		r.Body = s
		return nil
	}
	r.Body = string(proxy.Body)
	return nil
}

// UnmarshalYAML accepts a body given as a mapping or sequence and stores
// it as JSON text.
func (r *Response) UnmarshalYAML(value *yaml.Node) error {
	var proxy struct {
		StatusCode int               `yaml:"statusCode"`
		Headers    map[string]string `yaml:"headers"`
		Body       yaml.Node         `yaml:"body"`
	}
	if err := value.Decode(&proxy); err != nil {
		return err
	}
	r.StatusCode = proxy.StatusCode
	r.Headers = proxy.Headers
	r.Body = ""

	switch proxy.Body.Kind {
	case 0:
		return nil
	case yaml.ScalarNode:
		if proxy.Body.Tag != "!!null" {
			r.Body = proxy.Body.Value
		}
		return nil
	}

	var body any
	if err := proxy.Body.Decode(&body); err != nil {
		return fmt.Errorf("failed to decode body: %w", err)
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal body to JSON: %w", err)
	}
	r.Body = string(encoded)
	return nil
}

func (r *Response) applyDefaults() {
	if r != nil && r.StatusCode == 0 {
		r.StatusCode = DefaultStatusCode
	}
}
