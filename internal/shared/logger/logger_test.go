package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"careerhub-client/internal/shared/contextkeys"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerInterface_Contract(t *testing.T) {
	var _ Logger = NewLogger()
	var _ Logger = NewLoggerWithConfig("info", "json")
	var _ Logger = New(Config{Backend: BackendZap})
	var _ Logger = NewNop()
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	return entry
}

func TestLogrusLogger_JSONWithContext(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Backend: BackendLogrus, Level: "debug", Format: "json", Output: &buf})

	ctx := context.WithValue(context.Background(), contextkeys.UserIDKey, "42")
	ctx = context.WithValue(ctx, contextkeys.RequestIDKey, "req-1")
	log.WithContext(ctx).WithComponent("gateway").Info("request completed")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "request completed", entry["message"])
	assert.Equal(t, "42", entry["user_id"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "gateway", entry["component"])
}

func TestLogrusLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Format: "json", Output: &buf})
	log.Info("hidden")
	assert.Zero(t, buf.Len())
	log.Warnf("shown %d", 1)
	assert.Equal(t, "shown 1", decodeLine(t, &buf)["message"])
}

func TestZapLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Backend: "zap", Level: "debug", Format: "json", Output: &buf})
	log.WithFields(map[string]interface{}{"path": "/opportunities/all"}).Debugf("fetched %d", 3)

	entry := decodeLine(t, &buf)
	assert.Equal(t, "fetched 3", entry["message"])
	assert.Equal(t, "/opportunities/all", entry["path"])
	assert.Equal(t, "debug", entry["level"])
}

func TestZapLogger_WithComponentAndContext(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Backend: BackendZap, Format: "json", Output: &buf})
	ctx := context.WithValue(context.Background(), contextkeys.RouteKey, "coach")
	log.WithComponent("coach").WithContext(ctx).Error("send failed")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "coach", entry["component"])
	assert.Equal(t, "coach", entry["route"])
}

func TestDefaultLogger(t *testing.T) {
	prev := Default()
	defer SetDefault(prev)

	var buf bytes.Buffer
	SetDefault(New(Config{Format: "json", Output: &buf}))
	WithComponent("session").Infof("saved %s", "token")
	assert.Equal(t, "saved token", decodeLine(t, &buf)["message"])

	SetDefault(nil)
	assert.NotNil(t, Default())
}
