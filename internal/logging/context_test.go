package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextKeys(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, "", Owner(ctx))
	assert.Equal(t, "", Operation(ctx))

	ctx = WithOwner(ctx, "alice")
	ctx = WithOperation(ctx, "create")

	assert.Equal(t, "alice", Owner(ctx))
	assert.Equal(t, "create", Operation(ctx))
}

func TestCorrelationHandler(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(NewCorrelationHandler(inner)).With("component", "vault")

	ctx := WithOperation(WithOwner(context.Background(), "bob"), "delete")
	logger.InfoContext(ctx, "entry deleted", "id", "e1")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "bob", rec["owner"])
	assert.Equal(t, "delete", rec["operation"])
	assert.Equal(t, "vault", rec["component"])
	assert.Equal(t, "e1", rec["id"])
}

func TestCorrelationHandler_Enabled(t *testing.T) {
	inner := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})
	h := NewCorrelationHandler(inner)

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestNewLogger_Redacts(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)

	logger.Info("oops", "passphrase", "hunter2", "masterPassphrase", "m", "secret_key", "k", "platform", "github")

	out := buf.String()
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "secret_key=k")
	assert.Contains(t, out, "passphrase="+Redacted)
	assert.Contains(t, out, "platform=github")
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelWarn)

	logger.Info("quiet")
	assert.Empty(t, buf.String())

	logger.Warn("loud")
	assert.Contains(t, buf.String(), "loud")
}
