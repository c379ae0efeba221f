package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(nil)
		SetTraceEnabled(false)
	})
	return &buf
}

func TestTraceDisabledWritesNothing(t *testing.T) {
	buf := captureOutput(t)
	SetTraceEnabled(false)
	Trace("queue.list", map[string]interface{}{"count": 1})
	assert.Zero(t, buf.Len())
}

func TestTraceWritesEventAndPayload(t *testing.T) {
	buf := captureOutput(t)
	SetTraceEnabled(true)
	Trace("queue.list", map[string]interface{}{"count": 2})

	line := buf.String()
	require.True(t, gjson.Valid(line), "trace entry must be JSON: %q", line)
	assert.Equal(t, "queue.list", gjson.Get(line, "event").String())
	assert.Equal(t, int64(2), gjson.Get(line, "payload.count").Int())
	assert.Equal(t, "trace", gjson.Get(line, "level").String())
	assert.True(t, gjson.Get(line, "time").Exists())
}

func TestErrorAlwaysWritten(t *testing.T) {
	buf := captureOutput(t)
	Error(errors.New("boom"))
	Error(nil)
	assert.Equal(t, "boom", gjson.Get(buf.String(), "error").String())
	assert.Equal(t, "error", gjson.Get(buf.String(), "level").String())
}

func TestInfoWrittenWithTraceDisabled(t *testing.T) {
	buf := captureOutput(t)
	SetTraceEnabled(false)
	Info("console started", map[string]interface{}{"region": "eu-west-1"})

	line := buf.String()
	assert.Equal(t, "info", gjson.Get(line, "level").String())
	assert.Equal(t, "console started", gjson.Get(line, "message").String())
	assert.Equal(t, "eu-west-1", gjson.Get(line, "region").String())
}

func TestConfigureCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "app.log")
	Configure(path)
	t.Cleanup(func() { Configure("") })

	assert.Equal(t, path, Path())
	Error(errors.New("to file"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestConfigureEmptyFallsBackToDefault(t *testing.T) {
	Configure("")
	assert.Equal(t, defaultLogFile, Path())
}
