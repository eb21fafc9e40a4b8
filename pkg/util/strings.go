package util

import "unicode/utf8"

// MaxSummaryBodySize is the default body length kept in diagnostics.
const MaxSummaryBodySize = 200

// TruncateBody cuts data to at most maxSize bytes, appending "...(truncated)"
// when it does. The cut never splits a UTF-8 sequence. If maxSize <= 0,
// MaxSummaryBodySize is used.
func TruncateBody(data string, maxSize int) string {
	if maxSize <= 0 {
		maxSize = MaxSummaryBodySize
	}
	if len(data) <= maxSize {
		return data
	}
	cut := maxSize
	for cut > 0 && !utf8.RuneStart(data[cut]) {
		cut--
	}
	return data[:cut] + "...(truncated)"
}
