// Package matching provides the request matching engine for the mock server.
//
// Matching is built from three layers:
//
//   - ValueMatcher: an atomic predicate over one string input (Exact,
//     Wildcard, Regex, Predicate, plus Glob, Contains, JSONPath, XPath,
//     JSONSchema and Not). Scores are binary.
//   - FieldMatcher: applies value matchers to one facet of a request
//     (method, path, url, header, cookie, param, body). Name-keyed facets
//     compare names case-insensitively unless CaseSensitiveNames is given,
//     and match when any value satisfies any configured matcher.
//   - Composite: an immutable, ordered AND of field matchers. IsMatch
//     decides routing; MatchScore (the mean field score) and Breakdown only
//     rank and explain near misses.
//
// Construction errors, such as an invalid regular expression, are reported
// as *ConfigurationError when the matcher is built. Scoring never fails and
// has no side effects, so composites can be shared across goroutines.
package matching
