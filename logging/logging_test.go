package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONToFile(t *testing.T) {
	original := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(original) })

	file := filepath.Join(t.TempDir(), "logs", "maki.log")

	logger, closer, err := New("info", file)
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	logger.Warn().Int("line", 3).Msg("skipping malformed record")
	closer()

	data, err := os.ReadFile(file)
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "skipping malformed record", entry["message"])
	assert.EqualValues(t, 3, entry["line"])
	assert.Contains(t, entry, "time")
}

func TestNewAppendsToExistingFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "maki.log")
	require.NoError(t, os.WriteFile(file, []byte("{\"message\":\"earlier\"}\n"), 0o644))

	logger, closer, err := New("info", file)
	require.NoError(t, err)
	logger.Info().Msg("later")
	closer()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "earlier")
	assert.Contains(t, string(data), "later")
}

func TestNewInvalidLevel(t *testing.T) {
	_, closer, err := New("loud", "")
	require.Error(t, err)
	require.NotNil(t, closer)
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	original := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = original })

	logger := Component("storage")
	logger.Info().Msg("test message")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "storage", entry["cmp"])
	assert.Equal(t, "test message", entry["message"])
}

func TestNewSetsGlobalLevel(t *testing.T) {
	original := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(original) })

	_, closer, err := New("error", "")
	require.NoError(t, err)
	defer closer()

	assert.Equal(t, zerolog.ErrorLevel, zerolog.GlobalLevel())
}
