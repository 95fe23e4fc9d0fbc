package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/iburimskiy/landing-motion/internal/config"
)

type syncBuffer struct{ bytes.Buffer }

func (b *syncBuffer) Sync() error { return nil }

func TestConsoleLoggerColorsLevels(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf syncBuffer
	Initialize(config.LoggerConfig{
		Level:       "debug",
		Format:      "console",
		ServiceName: "landing",
		Colors:      config.ColorConfig{Info: "green"},
	}, &buf)

	GetLogger().Named("ticker").Info("carousel started", zap.Int("items", 3))
	Sync()

	out := buf.String()
	assert.Contains(t, out, colorGreen+"INFO"+colorReset)
	assert.Contains(t, out, "landing.ticker.")
	assert.Contains(t, out, "carousel started")
	assert.Contains(t, out, `"items": 3`)
}

func TestJSONLoggerRespectsLevel(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf syncBuffer
	Initialize(config.LoggerConfig{Level: "warn", Format: "json", ServiceName: "landing"}, &buf)

	log := GetLogger()
	log.Info("hidden")
	log.Warn("logo unavailable", zap.String("path", "logo.png"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "logo.png", entry["path"])
	assert.Equal(t, "landing", entry["logger"])
}

func TestInitializeRunsOnce(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var first, second syncBuffer
	Initialize(config.LoggerConfig{Level: "info", Format: "json"}, &first)
	Initialize(config.LoggerConfig{Level: "info", Format: "json"}, &second)
	GetLogger().Info("once")

	assert.NotEmpty(t, first.String())
	assert.Empty(t, second.String())
}

func TestFileOutputIsJSON(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	path := filepath.Join(t.TempDir(), "landing.log")
	Initialize(config.LoggerConfig{Level: "info", Format: "console", LogFile: path, MaxSize: 1},
		zapcore.AddSync(&syncBuffer{}))
	GetLogger().Info("to file")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "to file", entry["msg"])
}

func TestGetLoggerFallback(t *testing.T) {
	ResetForTest()
	assert.NotNil(t, GetLogger())
}
