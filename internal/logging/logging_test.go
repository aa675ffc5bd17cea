package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_JSONToStdout(t *testing.T) {
	logger := log.New()
	var buf bytes.Buffer

	closer, err := configure(logger, Options{Level: "debug", Format: "json"}, &buf)
	require.NoError(t, err)
	defer closer.Close()

	logger.WithField("asset", "bitcoin").Debug("refresh started")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "refresh started", entry["msg"])
	assert.Equal(t, "bitcoin", entry["asset"])
	assert.Equal(t, "debug", entry["level"])
}

func TestConfigure_LevelFilters(t *testing.T) {
	logger := log.New()
	var buf bytes.Buffer
	_, err := configure(logger, Options{Level: "warn"}, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	assert.Empty(t, buf.String())
	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestConfigure_File(t *testing.T) {
	logger := log.New()
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "cryptopulse.log")

	closer, err := configure(logger, Options{Format: "text", File: path, MaxSize: 1}, &buf)
	require.NoError(t, err)
	logger.Info("written twice")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written twice")
	assert.Contains(t, buf.String(), "written twice")
}

func TestConfigure_Invalid(t *testing.T) {
	_, err := configure(log.New(), Options{Level: "loud"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "parse log level")

	_, err = configure(log.New(), Options{Format: "xml"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown log format")
}
