package logger

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_AddsServiceFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := NewWithZap("console", zap.New(core))

	log.Info("order_item_added", "Added Coffee", "req-1", map[string]interface{}{"category": "Beverages"})
	log.Error("payment_failed", "Payment failed", "req-2", errors.New("boom"), nil)

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "Added Coffee", entries[0].Message)
	assert.Equal(t, "console", first["service"])
	assert.Equal(t, "order_item_added", first["action"])
	assert.Equal(t, "req-1", first["request_id"])
	assert.Equal(t, "Beverages", first["category"])

	second := entries[1].ContextMap()
	assert.Equal(t, "boom", second["error"])
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New("console", Config{Level: "loud"})
	assert.Error(t, err)

	log, err := New("console", Config{Level: "warn", Env: "prod"})
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestGenerateRequestID(t *testing.T) {
	id := GenerateRequestID()
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.NotEqual(t, id, GenerateRequestID())
}
