package matching

import (
	"fmt"
	"strings"

	"github.com/getmockd/reqmatch/pkg/request"
)

// FieldResult describes whether a single field matcher matched the request.
type FieldResult struct {
	Kind     Kind    `json:"kind"`
	Name     string  `json:"name,omitempty"`
	Matched  bool    `json:"matched"`
	Score    float64 `json:"score"`
	Expected string  `json:"expected,omitempty"`
	Actual   string  `json:"actual,omitempty"`
}

// NearMiss is the per-field breakdown of a composite evaluated against a
// request. The router fills in the expectation identity.
type NearMiss struct {
	ExpectationID   string        `json:"expectationId,omitempty"`
	ExpectationName string        `json:"expectationName,omitempty"`
	Score           float64       `json:"score"`
	MatchPercentage int           `json:"matchPercentage"`
	Fields          []FieldResult `json:"fields"`
	Reason          string        `json:"reason"`
}

// Breakdown evaluates every held matcher without short-circuiting and
// reports per-field results. Score equals MatchScore.
func (c *Composite) Breakdown(r *request.Request) *NearMiss {
	result := &NearMiss{Fields: make([]FieldResult, 0, len(c.matchers))}

	for _, m := range c.matchers {
		score := m.Score(r)
		result.Fields = append(result.Fields, FieldResult{
			Kind:     m.Kind(),
			Name:     m.Name(),
			Matched:  score.IsPerfect(),
			Score:    float64(score),
			Expected: m.Describe(),
			Actual:   m.Actual(r),
		})
	}

	score := c.MatchScore(r)
	result.Score = float64(score)
	result.MatchPercentage = score.Percent()
	result.Reason = GenerateReason(result.Fields)
	return result
}

// GenerateReason creates a human-readable explanation of why a composite
// partially matched but ultimately failed.
func GenerateReason(fields []FieldResult) string {
	if len(fields) == 0 {
		return "no fields to compare"
	}

	var matched []string
	var firstMismatch *FieldResult

	for i := range fields {
		if fields[i].Matched {
			matched = append(matched, fieldLabel(&fields[i]))
		} else if firstMismatch == nil {
			firstMismatch = &fields[i]
		}
	}

	if firstMismatch == nil {
		return "all specified fields matched"
	}

	if len(matched) == 0 {
		return formatMismatch(firstMismatch)
	}

	return joinFields(matched) + " matched, but " + formatMismatch(firstMismatch)
}

func fieldLabel(f *FieldResult) string {
	if f.Name != "" {
		return fmt.Sprintf("%s %s", f.Kind, f.Name)
	}
	return string(f.Kind)
}

// formatMismatch formats a single field mismatch into a human-readable string.
func formatMismatch(f *FieldResult) string {
	switch f.Kind {
	case KindHeader, KindCookie, KindParam:
		if f.Name == "" {
			return f.Expected
		}
		if f.Actual == "(missing)" {
			return fmt.Sprintf("%s %s is missing", f.Kind, f.Name)
		}
		return fmt.Sprintf("%s expected %s, got %s", f.Kind, f.Expected, f.Actual)
	case KindBody:
		return "body did not satisfy: " + f.Expected
	default:
		return fmt.Sprintf("%s expected %s, got %q", f.Kind, f.Expected, f.Actual)
	}
}

// joinFields joins field names with commas and "and".
func joinFields(fields []string) string {
	switch len(fields) {
	case 0:
		return ""
	case 1:
		return fields[0]
	case 2:
		return fields[0] + " and " + fields[1]
	default:
		return strings.Join(fields[:len(fields)-1], ", ") + ", and " + fields[len(fields)-1]
	}
}
