package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		maxSize int
		want    string
	}{
		{"short", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"cut", "hello world", 5, "hello...(truncated)"},
		{"empty", "", 5, ""},
		{"default size", strings.Repeat("a", MaxSummaryBodySize), 0, strings.Repeat("a", MaxSummaryBodySize)},
		{"default size cut", strings.Repeat("a", MaxSummaryBodySize+1), -1, strings.Repeat("a", MaxSummaryBodySize) + "...(truncated)"},
		{"keeps runes whole", "héllo", 2, "h...(truncated)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, TruncateBody(tt.input, tt.maxSize))
		})
	}
}
