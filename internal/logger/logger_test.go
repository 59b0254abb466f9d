package logger

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/daybook/internal/config"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daybook.log")
	log, err := New(config.LogConfig{Level: "info", Format: "json", File: path})
	require.NoError(t, err)

	log.WithSlot("tasks").WithError(errors.New("disk full")).Warnw("write failed", "attempt", 1)
	log.Debugw("filtered out")
	_ = log.Close()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "write failed", entry["msg"])
	assert.Equal(t, "tasks", entry["slot"])
	assert.Equal(t, "disk full", entry["error"])
	assert.EqualValues(t, 1, entry["attempt"])
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud", Format: "console"})
	assert.Error(t, err)
}

func TestNopDiscards(t *testing.T) {
	log := Nop()
	log.WithFields("k", "v").Errorw("ignored")
	assert.NoError(t, log.Close())
}
