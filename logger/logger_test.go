package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"womart-storefront/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	for _, env := range []string{"production", "development", ""} {
		log, err := logger.New(env)
		require.NoError(t, err)
		assert.NotNil(t, log)
	}
}

func TestConfig_ProductionUsesTimestampKey(t *testing.T) {
	cfg := logger.Config("production")
	assert.Equal(t, "timestamp", cfg.EncoderConfig.TimeKey)
	assert.Equal(t, "json", cfg.Encoding)
	assert.Equal(t, zapcore.InfoLevel, cfg.Level.Level())

	dev := logger.Config("development")
	assert.Equal(t, zapcore.DebugLevel, dev.Level.Level())
}

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("production", &buf)
	log.Info("cart saved", zap.String("session_id", "abc"))
	log.Debug("dropped")
	require.NoError(t, log.Sync())

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "cart saved", line["msg"])
	assert.Equal(t, "abc", line["session_id"])
	assert.Equal(t, "info", line["level"])
	assert.Contains(t, line, "timestamp")
}

func TestNew_TeesToSinks(t *testing.T) {
	var a, b bytes.Buffer
	log, err := logger.New("production", &a, &b)
	require.NoError(t, err)

	log.Warn("order rejected", zap.Int("status", 422))
	_ = log.Sync()

	for _, buf := range []*bytes.Buffer{&a, &b} {
		var line map[string]any
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
		assert.Equal(t, "order rejected", line["msg"])
		assert.Equal(t, "warn", line["level"])
	}
}
