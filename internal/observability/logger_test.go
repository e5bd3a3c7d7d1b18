package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_TextLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: LevelWarn, Output: &buf})

	logger.Info("hidden")
	logger.Warn("shown", "seed", 42)

	output := buf.String()
	assert.NotContains(t, output, "hidden")
	assert.Contains(t, output, "shown")
	assert.Contains(t, output, "seed=42")
	assert.Contains(t, output, "app=cutgen")
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: LevelDebug, Output: &buf, JSON: true})

	logger.Debug("generated", "items", 3)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "generated", record["msg"])
	assert.Equal(t, float64(3), record["items"])
	assert.Equal(t, "cutgen", record["app"])
	assert.Contains(t, record["time"], "Z")
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	assert.False(t, logger.Enabled(t.Context(), slog.LevelError))
}
