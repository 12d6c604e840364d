package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafe-system/internal/logger"
	"cafe-system/internal/models"
)

type fakeAck struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeAck) Ack(bool) error {
	f.acked = true
	return nil
}

func (f *fakeAck) Nack(_, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

func newTestConsumer() *Consumer {
	return NewConsumer(nil, logger.Nop(), ReceiptsQueue, "test", 1)
}

func TestNewPublishing_Receipt(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
	receipt := &models.ReceiptMessage{
		OrderNumber: "ORD_20261019_001",
		Items:       []models.Line{{Name: "Coffee", UnitPrice: decimal.RequireFromString("2.50")}},
		TotalAmount: decimal.RequireFromString("2.50"),
		PaidAt:      now,
	}

	publishing, err := newPublishing(receipt, now)
	require.NoError(t, err)

	assert.Equal(t, "application/json", publishing.ContentType)
	assert.Equal(t, amqp091.Persistent, publishing.DeliveryMode)
	assert.Equal(t, now, publishing.Timestamp)

	var decoded models.ReceiptMessage
	require.NoError(t, json.Unmarshal(publishing.Body, &decoded))
	assert.Equal(t, "ORD_20261019_001", decoded.OrderNumber)
	require.Len(t, decoded.Items, 1)
	assert.True(t, decoded.TotalAmount.Equal(decimal.RequireFromString("2.5")))
}

func TestProcessMessage_AcksOnSuccess(t *testing.T) {
	ack := &fakeAck{}
	var got []byte

	newTestConsumer().processMessage(context.Background(), ack, []byte(`{}`), func(_ context.Context, body []byte) error {
		got = body
		return nil
	})

	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
	assert.Equal(t, []byte(`{}`), got)
}

func TestProcessMessage_RequeuesTransientFailure(t *testing.T) {
	ack := &fakeAck{}

	newTestConsumer().processMessage(context.Background(), ack, nil, func(context.Context, []byte) error {
		return errors.New("terminal busy")
	})

	assert.True(t, ack.nacked)
	assert.True(t, ack.requeue)
}

func TestProcessMessage_DropsPermanentFailure(t *testing.T) {
	ack := &fakeAck{}

	newTestConsumer().processMessage(context.Background(), ack, []byte("not json"), func(context.Context, []byte) error {
		return &PermanentError{Err: errors.New("malformed receipt")}
	})

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
}
