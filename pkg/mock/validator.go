package mock

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// ValidationError represents a validation failure with context.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on %s: %s", e.Field, e.Message)
}

// tokenRegex matches RFC 7230 tokens, the grammar of both header names and
// method names.
var tokenRegex = regexp.MustCompile(`^[A-Za-z0-9!#$%&'*+\-.^_\x60|~]+$`)

// Validate checks the structure of the expectation. Pattern syntax (regular
// expressions, JSONPath, schemas) is checked by Compile.
func (e *Expectation) Validate() error {
	if strings.IndexFunc(e.ID, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }) >= 0 {
		return &ValidationError{Field: "id", Message: fmt.Sprintf("id must not contain whitespace: %q", e.ID)}
	}
	if e.Request != nil {
		if err := e.Request.Validate(); err != nil {
			return err
		}
	}
	if e.Response != nil {
		if err := e.Response.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the structure of the request matcher.
func (m *RequestMatcher) Validate() error {
	for i, method := range m.Methods {
		if !tokenRegex.MatchString(method) {
			return &ValidationError{
				Field:   fmt.Sprintf("request.methods[%d]", i),
				Message: fmt.Sprintf("invalid HTTP method: %q", method),
			}
		}
	}

	if err := validatePatterns("request.paths", m.Paths); err != nil {
		return err
	}
	if err := validatePatterns("request.urls", m.URLs); err != nil {
		return err
	}
	if err := validatePatterns("request.body", m.Body); err != nil {
		return err
	}

	for i, h := range m.Headers {
		field := fmt.Sprintf("request.headers[%d]", i)
		if !tokenRegex.MatchString(h.Name) {
			return &ValidationError{Field: field + ".name", Message: fmt.Sprintf("invalid header name: %q", h.Name)}
		}
		if err := validatePatterns(field+".patterns", h.Patterns); err != nil {
			return err
		}
	}
	for _, named := range []struct {
		field   string
		entries []NamedMatch
	}{
		{"request.cookies", m.Cookies},
		{"request.params", m.Params},
	} {
		for i, n := range named.entries {
			field := fmt.Sprintf("%s[%d]", named.field, i)
			if n.Name == "" {
				return &ValidationError{Field: field + ".name", Message: "name is required"}
			}
			if err := validatePatterns(field+".patterns", n.Patterns); err != nil {
				return err
			}
		}
	}
	return nil
}

func validatePatterns(field string, patterns []Pattern) error {
	for i := range patterns {
		if err := patterns[i].validate(fmt.Sprintf("%s[%d]", field, i)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pattern) validate(field string) error {
	set := p.strategies()
	switch len(set) {
	case 0:
		return &ValidationError{Field: field, Message: "one of exact, wildcard, glob, regex, contains, jsonPath, xPath or jsonSchema is required"}
	case 1:
	default:
		return &ValidationError{Field: field, Message: fmt.Sprintf("only one strategy may be specified, got %s", strings.Join(set, " and "))}
	}

	strategy := set[0]
	if p.IgnoreCase && strategy != "exact" && strategy != "wildcard" && strategy != "regex" {
		return &ValidationError{Field: field + ".ignoreCase", Message: fmt.Sprintf("ignoreCase is not supported with %s", strategy)}
	}
	if p.Equals != nil && strategy != "jsonPath" {
		return &ValidationError{Field: field + ".equals", Message: "equals requires jsonPath"}
	}
	if p.Value != "" && strategy != "xPath" {
		return &ValidationError{Field: field + ".value", Message: "value requires xPath"}
	}
	return nil
}

// Validate checks the status code and header names.
func (r *Response) Validate() error {
	if r.StatusCode < 100 || r.StatusCode > 599 {
		return &ValidationError{
			Field:   "response.statusCode",
			Message: fmt.Sprintf("statusCode must be between 100-599, got %d", r.StatusCode),
		}
	}
	for name := range r.Headers {
		if !tokenRegex.MatchString(name) {
			return &ValidationError{
				Field:   "response.headers",
				Message: fmt.Sprintf("invalid header name: %s", name),
			}
		}
	}
	return nil
}
