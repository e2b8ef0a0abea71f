package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "moviesearch.log")
	require.NoError(t, Init(Options{Path: path, Level: "debug"}))
	defer Close()

	Debug("lookup dispatched", "query", "bat")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "lookup dispatched")
	assert.Contains(t, string(data), "query=bat")
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	err := Init(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, log.WarnLevel)
	defer Close()

	Info("hidden")
	Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestHelpersAreSafeBeforeInit(t *testing.T) {
	Close()
	assert.NotPanics(t, func() {
		Info("nothing")
		WithPrefix("search").Error("still nothing")
	})
}
