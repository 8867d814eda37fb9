package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{" warn ", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"quiet", zerolog.Disabled},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "bogus"} {
		_, err := ParseLevel(bad)
		assert.Error(t, err, bad)
	}
}

func TestTimeLayout(t *testing.T) {
	assert.Equal(t, time.Kitchen, timeLayout(""))
	assert.Equal(t, time.RFC3339, timeLayout("RFC3339"))
	assert.Equal(t, time.DateTime, timeLayout("datetime"))
	assert.Equal(t, "", timeLayout("unix"))
	assert.Equal(t, "2006-01-02", timeLayout("2006-01-02"))
	assert.Equal(t, time.Kitchen, timeLayout("nonsense"))
}

func TestNewLoggerFromConfigFile(t *testing.T) {
	oldLevel := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(oldLevel) })

	path := filepath.Join(t.TempDir(), "satmap.log")
	logger := NewLoggerFromConfig(&Config{
		Level:  "warning",
		Format: "json",
		Output: path,
		Fields: map[string]any{"schema": "catalogos"},
	})
	logger.Warn().Msg("hello")
	logger.Info().Msg("hidden")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"schema":"catalogos"`)
	assert.Contains(t, string(data), `"message":"hello"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNewLoggerFromConfigBadLevel(t *testing.T) {
	oldLevel := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(oldLevel) })

	logger := NewLoggerFromConfig(&Config{Level: "loud", Output: "discard"})
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestWriterConsole(t *testing.T) {
	w := (&Config{Output: "discard", Format: "console"}).writer()
	_, ok := w.(zerolog.ConsoleWriter)
	assert.True(t, ok)

	w = (&Config{Output: "discard", Format: "json"}).writer()
	_, ok = w.(zerolog.ConsoleWriter)
	assert.False(t, ok)

	var buf bytes.Buffer
	logger := New(&buf)
	logger.Error().Msg("x")
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestDestinationFallsBackToStderr(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no", "such", "dir", "satmap.log")
	assert.Equal(t, os.Stderr, (&Config{Output: missing}).destination())
}
