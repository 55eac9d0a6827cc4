package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupJSONWithRunID(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	Setup("debug", "json", &buf)

	ctx := WithRunID(context.Background(), "run-1")
	FromContext(ctx).Debug("hello", "n", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "run-1", rec["run_id"])
	assert.Equal(t, float64(3), rec["n"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
	assert.Equal(t, slog.LevelWarn, parseLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}

func TestFromContextWithoutRunID(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	l := Setup("info", "JSON", &buf)
	assert.Same(t, l, slog.Default())
	FromContext(context.Background()).Info("plain")
	assert.NotContains(t, buf.String(), "run_id")
	assert.Contains(t, buf.String(), `"msg":"plain"`)
}

func TestInfoLevelDropsDebug(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	Setup("info", "text", &buf)
	WithComponent("test").Debug("hidden")
	assert.Empty(t, buf.String())
	WithComponent("test").Info("shown")
	assert.Contains(t, buf.String(), "component=test")
}
