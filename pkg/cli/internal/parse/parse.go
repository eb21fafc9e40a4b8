// Package parse provides string parsing utilities for CLI commands.
package parse

import (
	"fmt"
	"strings"
)

// KeyValue parses a "key:value" or "key=value" string.
// If delimiters are provided, uses the first one found; otherwise defaults to ':'.
// Returns the key, value, and a boolean indicating success.
func KeyValue(s string, delimiters ...rune) (key, value string, ok bool) {
	if len(delimiters) == 0 {
		delimiters = []rune{':'}
	}

	for i, c := range s {
		for _, d := range delimiters {
			if c == d {
				return s[:i], s[i+1:], true
			}
		}
	}
	return "", "", false
}

// Multi parses repeated pairs into a multi-valued map. Keys and values are
// trimmed; repeating a key appends a value.
func Multi(pairs []string, delimiters ...rune) (map[string][]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	result := make(map[string][]string, len(pairs))
	for _, p := range pairs {
		key, value, ok := KeyValue(p, delimiters...)
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid pair %q", p)
		}
		result[key] = append(result[key], strings.TrimSpace(value))
	}
	return result, nil
}

// Single is Multi keeping the first value per key.
func Single(pairs []string, delimiters ...rune) (map[string]string, error) {
	multi, err := Multi(pairs, delimiters...)
	if err != nil || multi == nil {
		return nil, err
	}
	result := make(map[string]string, len(multi))
	for k, v := range multi {
		result[k] = v[0]
	}
	return result, nil
}
