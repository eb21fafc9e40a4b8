package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"DEBUG", LevelDebug},
		{"WARNING", LevelWarn},
		{"Error", LevelError},
		{"dEbUg", LevelDebug},
		{" warn ", LevelWarn},
		{"", LevelInfo},
		{"trace", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"Json", FormatJSON},
		{"text", FormatText},
		{"", FormatText},
		{"yaml", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseFormat(tt.input))
		})
	}
}

func TestFromEnv(t *testing.T) {
	env := map[string]string{EnvLevel: "debug", EnvFormat: "json"}
	cfg := FromEnv(func(k string) string { return env[k] })
	assert.Equal(t, LevelDebug, cfg.Level)
	assert.Equal(t, FormatJSON, cfg.Format)

	cfg = FromEnv(func(string) string { return "" })
	assert.Equal(t, DefaultConfig().Level, cfg.Level)
	assert.Equal(t, FormatText, cfg.Format)
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatJSON, Output: &buf})

	logger.Debug("hidden")
	logger.Info("expectation registered", "id", "open-orders")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "expectation registered", record["msg"])
	assert.Equal(t, "open-orders", record["id"])
}

func TestNop(t *testing.T) {
	assert.False(t, Nop().Enabled(context.Background(), LevelError+100))
	Nop().Error("discarded")
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (failingHandler) Handle(context.Context, slog.Record) error {
	return errors.New("sink down")
}

func TestMultiHandler(t *testing.T) {
	var text, js bytes.Buffer
	logger := NewMulti(
		Config{Level: LevelWarn, Format: FormatText, Output: &text},
		Config{Level: LevelDebug, Format: FormatJSON, Output: &js},
	)

	logger.With("component", "router").Debug("no match", "candidates", 3)
	assert.Empty(t, text.String())
	assert.Contains(t, js.String(), `"component":"router"`)

	logger.Warn("slow")
	assert.Contains(t, text.String(), "slow")

	h := NewMultiHandler(failingHandler{}, nil, slog.NewTextHandler(&text, nil))
	err := h.Handle(context.Background(), slog.NewRecord(time.Time{}, LevelInfo, "still written", 0))
	assert.EqualError(t, err, "sink down")
	assert.Contains(t, text.String(), "still written")
}
