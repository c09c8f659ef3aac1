package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewJSONConsole(t *testing.T) {
	var out bytes.Buffer
	log, err := New(Options{Level: "debug", JSON: true, Console: &out})
	require.NoError(t, err)

	log.Debug("stage", zap.String("stage", "emitting"))
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "stage", entry["msg"])
	assert.Equal(t, "emitting", entry["stage"])
}

func TestLevelFilters(t *testing.T) {
	var out bytes.Buffer
	log, err := New(Options{Level: "warn", Console: &out})
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "shown")
}

func TestInvalidLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectrace.log")
	var out bytes.Buffer
	log, err := New(Options{File: path, Console: &out})
	require.NoError(t, err)

	log.Info("written", zap.Int("paths", 3))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"paths":3`)
	assert.Contains(t, out.String(), "written")
}
