package matching

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/beevik/etree"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// GlobMatcher matches path-like inputs against a doublestar pattern.
// Unlike Wildcard, '*' stops at '/' and '**' spans segments.
type GlobMatcher struct {
	pattern string
}

// Glob returns a path-aware glob matcher. Supports *, **, ?, [class] and {alt,ernatives}.
func Glob(pattern string) (*GlobMatcher, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, configErr("glob", fmt.Sprintf("invalid pattern %q", pattern), doublestar.ErrBadPattern)
	}
	return &GlobMatcher{pattern: pattern}, nil
}

func (m *GlobMatcher) Score(input string) Score {
	ok, err := doublestar.Match(m.pattern, input)
	return scoreOf(err == nil && ok)
}

func (m *GlobMatcher) Describe() string {
	return fmt.Sprintf("matches glob %q", m.pattern)
}

func (*GlobMatcher) valueMatcher() {}

// JSONPathMatcher matches JSON documents where a JSONPath expression
// resolves to the expected value. A nil expected value only requires the
// path to resolve.
type JSONPathMatcher struct {
	path     string
	expr     jp.Expr
	expected any
}

// JSONPath compiles a JSONPath expression.
// Invalid expressions return a *ConfigurationError.
func JSONPath(path string, expected any) (*JSONPathMatcher, error) {
	expr, err := jp.ParseString(path)
	if err != nil {
		return nil, configErr("jsonPath", fmt.Sprintf("invalid JSONPath expression %q", path), err)
	}
	if expected != nil {
		// Round-trip through JSON so expected holds the same types as a
		// parsed body (map[string]any, []any, int64, float64).
		b, err := json.Marshal(expected)
		if err != nil {
			return nil, configErr("jsonPath", fmt.Sprintf("expected value for %s is not JSON", path), err)
		}
		if expected, err = oj.Parse(b); err != nil {
			return nil, configErr("jsonPath", fmt.Sprintf("expected value for %s is not JSON", path), err)
		}
	}
	return &JSONPathMatcher{path: path, expr: expr, expected: expected}, nil
}

func (m *JSONPathMatcher) Score(input string) Score {
	data, err := oj.ParseString(input)
	if err != nil {
		// Not JSON: no match, not an error.
		return ScoreNone
	}
	results := m.expr.Get(data)
	if len(results) == 0 {
		return ScoreNone
	}
	if m.expected == nil {
		return ScorePerfect
	}
	// Wildcard paths may return several values; any one matching is enough.
	for _, r := range results {
		if valuesEqual(r, m.expected) {
			return ScorePerfect
		}
	}
	return ScoreNone
}

func (m *JSONPathMatcher) Describe() string {
	if m.expected == nil {
		return fmt.Sprintf("has JSONPath %s", m.path)
	}
	return fmt.Sprintf("JSONPath %s equals %v", m.path, m.expected)
}

func (*JSONPathMatcher) valueMatcher() {}

// XPathMatcher matches XML documents where an element (or attribute, with a
// trailing "/@name") has the expected trimmed text. An empty expected value
// only requires the node to exist.
type XPathMatcher struct {
	xpath    string
	path     etree.Path
	attr     string
	expected string
}

// XPath compiles an etree path expression.
// Invalid expressions return a *ConfigurationError.
func XPath(xpath, expected string) (*XPathMatcher, error) {
	elemPath, attr := xpath, ""
	if i := strings.LastIndex(xpath, "/@"); i >= 0 {
		elemPath, attr = xpath[:i], xpath[i+2:]
		if attr == "" {
			return nil, configErr("xPath", fmt.Sprintf("invalid XPath expression %q", xpath), nil)
		}
	}
	p, err := etree.CompilePath(elemPath)
	if err != nil {
		return nil, configErr("xPath", fmt.Sprintf("invalid XPath expression %q", xpath), err)
	}
	return &XPathMatcher{xpath: xpath, path: p, attr: attr, expected: expected}, nil
}

func (m *XPathMatcher) Score(input string) Score {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(input); err != nil {
		return ScoreNone
	}
	for _, el := range doc.FindElementsPath(m.path) {
		var actual string
		if m.attr != "" {
			a := el.SelectAttr(m.attr)
			if a == nil {
				continue
			}
			actual = a.Value
		} else {
			actual = strings.TrimSpace(el.Text())
		}
		if m.expected == "" || actual == m.expected {
			return ScorePerfect
		}
	}
	return ScoreNone
}

func (m *XPathMatcher) Describe() string {
	if m.expected == "" {
		return fmt.Sprintf("has XPath %s", m.xpath)
	}
	return fmt.Sprintf("XPath %s equals %q", m.xpath, m.expected)
}

func (*XPathMatcher) valueMatcher() {}

// JSONSchemaMatcher matches JSON documents valid against a schema.
type JSONSchemaMatcher struct {
	schema *jsonschema.Schema
}

// JSONSchema compiles a JSON Schema (draft 2020-12). The schema may be a
// JSON string, []byte, or any value that marshals to a schema object.
// An invalid schema returns a *ConfigurationError.
func JSONSchema(schema any) (*JSONSchemaMatcher, error) {
	var raw string
	switch s := schema.(type) {
	case string:
		raw = s
	case []byte:
		raw = string(s)
	default:
		b, err := json.Marshal(s)
		if err != nil {
			return nil, configErr("jsonSchema", "schema is not serialisable", err)
		}
		raw = string(b)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", strings.NewReader(raw)); err != nil {
		return nil, configErr("jsonSchema", "invalid schema", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, configErr("jsonSchema", "invalid schema", err)
	}
	return &JSONSchemaMatcher{schema: compiled}, nil
}

func (m *JSONSchemaMatcher) Score(input string) Score {
	var doc any
	if err := json.Unmarshal([]byte(input), &doc); err != nil {
		return ScoreNone
	}
	return scoreOf(m.schema.Validate(doc) == nil)
}

func (m *JSONSchemaMatcher) Describe() string {
	return "validates against JSON schema"
}

func (*JSONSchemaMatcher) valueMatcher() {}

// valuesEqual compares a decoded JSON value with an expected value,
// treating all numeric types as comparable, also inside objects and arrays.
func valuesEqual(actual, expected any) bool {
	if actual == nil || expected == nil {
		return actual == nil && expected == nil
	}
	switch exp := expected.(type) {
	case map[string]any:
		act, ok := actual.(map[string]any)
		if !ok || len(act) != len(exp) {
			return false
		}
		for k, v := range exp {
			av, found := act[k]
			if !found || !valuesEqual(av, v) {
				return false
			}
		}
		return true
	case []any:
		act, ok := actual.([]any)
		if !ok || len(act) != len(exp) {
			return false
		}
		for i := range exp {
			if !valuesEqual(act[i], exp[i]) {
				return false
			}
		}
		return true
	}
	if reflect.DeepEqual(actual, expected) {
		return true
	}
	actualNum, actualIsNum := toFloat64(actual)
	expectedNum, expectedIsNum := toFloat64(expected)
	if actualIsNum && expectedIsNum {
		return actualNum == expectedNum
	}
	return false
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	default:
		return 0, false
	}
}
