package observability

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{input: "debug", expected: slog.LevelDebug},
		{input: "info", expected: slog.LevelInfo},
		{input: "warn", expected: slog.LevelWarn},
		{input: "warning", expected: slog.LevelWarn},
		{input: "error", expected: slog.LevelError},
		{input: "DEBUG", expected: slog.LevelDebug},
		{input: "Info", expected: slog.LevelInfo},
		{input: "", expected: slog.LevelInfo},
		{input: "xyzzy", expected: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestInitLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLogger(LogConfig{Level: "info", Format: "json", Service: "credit-service", Output: &buf})

	logger.Debug("hidden")
	logger.Info("loan created", "loan_id", 7)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "loan created", line["msg"])
	assert.Equal(t, "credit-service", line["service"])
	assert.Equal(t, float64(7), line["loan_id"])
}

func TestInitLogger_TextIsDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLogger(LogConfig{Level: "warn", Output: &buf})

	logger.Info("hidden")
	logger.Warn("careful")

	assert.Contains(t, buf.String(), "msg=careful")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestInitLogger_SetsDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLogger(LogConfig{Format: "json", Output: &buf})

	assert.Equal(t, logger.Handler(), slog.Default().Handler())
}
