package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(logConfig{Level: "info", Format: "json"}, &buf)

	log.Debug("hidden")
	log.Info("upload finished", zap.Int("succeeded", 3))
	require.NoError(t, log.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "upload finished", entry["msg"])
	assert.Equal(t, float64(3), entry["succeeded"])

	_, err := uuid.Parse(entry["run_id"].(string))
	assert.NoError(t, err)
}

func TestNewLogger_ConsoleDefaultsToWarn(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(logConfig{Level: "loud", Format: "console"}, &buf)

	log.Info("not shown")
	log.Warn("skipping unreadable path")

	out := buf.String()
	assert.NotContains(t, out, "not shown")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "skipping unreadable path")
	assert.Contains(t, out, "run_id")
}
