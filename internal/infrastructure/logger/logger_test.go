package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"ERROR", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"verbose", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levelFor(tt.in), "level %q", tt.in)
	}
}

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync.log")
	log, err := New(&Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	log.Info("import run finished")
	log.Debug("should be filtered")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "import run finished", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.NotEmpty(t, entry["time"])
	assert.NotEmpty(t, entry["caller"])
}

func TestNewConsoleFormat(t *testing.T) {
	log, err := New(&Config{Level: "debug", Format: "console", Output: "stderr"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNewCustomTimeFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync.log")
	log, err := New(&Config{Level: "info", Format: "json", Output: path, TimeFormat: "2006-01-02"})
	require.NoError(t, err)

	log.Info("tick")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry))
	ts, ok := entry["time"].(string)
	require.True(t, ok)
	assert.Len(t, ts, len("2006-01-02"))
}

func TestOpenSink(t *testing.T) {
	assert.NotNil(t, openSink("stdout"))
	assert.NotNil(t, openSink("STDERR"))
	assert.NotNil(t, openSink(""))

	// Unwritable path falls back instead of failing startup
	assert.NotNil(t, openSink(filepath.Join(t.TempDir(), "missing", "nested", "sync.log")))
}

func TestOpenSinkAppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync.log")
	require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0644))

	sink := openSink(path)
	_, err := sink.Write([]byte("appended\n"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "existing\nappended\n", string(data))
}

func TestSync(t *testing.T) {
	log, err := New(&Config{Level: "info", Format: "json", Output: filepath.Join(t.TempDir(), "sync.log")})
	require.NoError(t, err)
	log.Info("flush me")
	assert.NoError(t, Sync(log))
}
