package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyValue(t *testing.T) {
	tests := []struct {
		input      string
		delimiters []rune
		key, value string
		ok         bool
	}{
		{"Accept: text/plain", nil, "Accept", " text/plain", true},
		{"q=shoes", []rune{'='}, "q", "shoes", true},
		{"url=http://x", []rune{'=', ':'}, "url", "http://x", true},
		{"noseparator", nil, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			key, value, ok := KeyValue(tt.input, tt.delimiters...)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.key, key)
			assert.Equal(t, tt.value, value)
		})
	}
}

func TestMulti(t *testing.T) {
	got, err := Multi([]string{"tag=a", " tag = b ", "q="}, '=')
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"tag": {"a", "b"}, "q": {""}}, got)

	got, err = Multi(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = Multi([]string{"=x"}, '=')
	assert.ErrorContains(t, err, `invalid pair "=x"`)

	_, err = Multi([]string{"missing"}, '=')
	assert.Error(t, err)
}

func TestSingle(t *testing.T) {
	got, err := Single([]string{"session=abc", "session=def", "theme=dark"}, '=')
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"session": "abc", "theme": "dark"}, got)
}
