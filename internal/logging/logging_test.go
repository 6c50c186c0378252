package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("debug"))
	assert.Equal(t, InfoLevel, ParseLevel("INFO"))
	assert.Equal(t, WarnLevel, ParseLevel("warning"))
	assert.Equal(t, ErrorLevel, ParseLevel("error"))
	assert.Equal(t, InfoLevel, ParseLevel(""))
	assert.Equal(t, InfoLevel, ParseLevel("nonsense"))
}

func TestZapAdapter(t *testing.T) {
	newLogger := func(t *testing.T, level LogLevel) (Logger, *bytes.Buffer) {
		t.Helper()
		var buf bytes.Buffer
		logger, err := NewZapLogger(LogConfig{Level: level, Output: &buf})
		require.NoError(t, err)
		return logger, &buf
	}

	t.Run("writes structured fields", func(t *testing.T) {
		logger, buf := newLogger(t, InfoLevel)
		logger.Info("Webhook verified",
			Field{Key: "provider", Value: "github"},
			Field{Key: "bytes", Value: 19},
		)
		out := buf.String()
		assert.Contains(t, out, "Webhook verified")
		assert.Contains(t, out, "github")
	})

	t.Run("level filters lower severities", func(t *testing.T) {
		logger, buf := newLogger(t, WarnLevel)
		logger.Info("dropped")
		logger.Warn("kept")
		assert.NotContains(t, buf.String(), "dropped")
		assert.Contains(t, buf.String(), "kept")
	})

	t.Run("error logging includes the error", func(t *testing.T) {
		logger, buf := newLogger(t, ErrorLevel)
		logger.Error("Webhook rejected", errors.New("signature mismatch"))
		assert.Contains(t, buf.String(), "signature mismatch")
	})

	t.Run("WithFields carries context forward", func(t *testing.T) {
		logger, buf := newLogger(t, InfoLevel)
		scoped := logger.WithFields(Field{Key: "provider", Value: "stripe"})
		scoped.Info("Provider registered")
		assert.Contains(t, buf.String(), "stripe")
	})
}
