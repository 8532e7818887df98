package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, level, mode, service string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	Setup(level, mode, service)
	t.Cleanup(func() {
		SetOutput(os.Stdout)
		Setup("info", "production", "")
	})
	return &buf
}

func TestTraceIDRoundTrip(t *testing.T) {
	ctx := WithTraceID(context.Background(), "trace-123")
	assert.Equal(t, "trace-123", TraceIDFromContext(ctx))
	assert.Equal(t, "", TraceIDFromContext(context.Background()))
}

func TestWithContext_IncludesTraceIDAndService(t *testing.T) {
	buf := capture(t, "info", "production", "energy-advisor")

	WithContext(WithTraceID(context.Background(), "abc")).Info("scored")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "abc", entry["trace_id"])
	assert.Equal(t, "scored", entry["msg"])
	assert.Equal(t, "energy-advisor", entry["service"])
}

func TestSetup_LevelFiltersDebug(t *testing.T) {
	buf := capture(t, "warn", "production", "")

	Infof("hidden %d", 1)
	assert.Zero(t, buf.Len())

	WithModel("m-1").Warn("visible")
	assert.Contains(t, buf.String(), `"model_id":"m-1"`)
	assert.NotContains(t, buf.String(), `"service"`)
}

func TestSetup_DevelopmentUsesText(t *testing.T) {
	buf := capture(t, "debug", "development", "advisor")

	Debugf("neighbors=%d", 3)
	out := buf.String()
	assert.Contains(t, out, "neighbors=3")
	assert.Contains(t, out, "service=advisor")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}
