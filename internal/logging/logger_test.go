package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesFileAndConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "manage_data.log")
	var console bytes.Buffer

	logger, closeLog, err := New(Options{File: path, Level: "info", Console: &console})
	require.NoError(t, err)

	logger.Info("loaded accounts")
	logger.Warn("skipping row")
	logger.Debug("not written")
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"loaded accounts"`)
	assert.Contains(t, string(data), `"msg":"skipping row"`)
	assert.NotContains(t, string(data), "not written")

	assert.Contains(t, console.String(), "skipping row")
	assert.NotContains(t, console.String(), "loaded accounts")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, _, err := New(Options{Level: "chatty"})
	assert.Error(t, err)
}
