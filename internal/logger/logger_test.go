package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithFieldKeepsFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&buf, "debug", "json").WithField("component", "probe")

	log.Info("probe finished", "target", "https://example.com", "detected", true)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "probe finished", entry["msg"])
	assert.Equal(t, "probe", entry["component"])
	assert.Equal(t, "https://example.com", entry["target"])
	assert.Equal(t, true, entry["detected"])
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&buf, "warn", "text")

	log.Info("dropped")
	assert.Empty(t, buf.String())

	log.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&buf, "chatty", "text")

	log.Debug("dropped")
	log.Info("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestParseFieldsIgnoresDanglingKey(t *testing.T) {
	fields := parseFields("a", 1, "b")
	assert.Len(t, fields, 1)
	assert.Equal(t, 1, fields["a"])
}
