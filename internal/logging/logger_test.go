package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, zerolog.InfoLevel)

	l.Debug("hidden %d", 1)
	l.Info("diff is %s", "12 kB")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var event map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &event))
	assert.Equal(t, "info", event["level"])
	assert.Equal(t, "diff is 12 kB", event["message"])
}

func TestFileLoggerCreatesDailyFile(t *testing.T) {
	dir := t.TempDir()

	l, err := NewFileLogger(dir, "zcommit", false)
	require.NoError(t, err)
	l.Warn("careful")
	require.NoError(t, l.Close())

	matches, err := filepath.Glob(filepath.Join(dir, "zcommit-*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"careful"`)
}

func TestNullLoggerSatisfiesInterface(t *testing.T) {
	var l Logger = NewNullLogger()
	l.Info("nothing")
	l.Error("still nothing")
}
