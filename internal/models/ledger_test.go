package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var paidAt = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

func TestOrderLedger_CommitCopiesOrder(t *testing.T) {
	ledger := NewOrderLedger(DefaultLedgerCapacity)
	order := NewOrder(DefaultOrderCapacity)
	require.NoError(t, order.AddLine(line("Coffee", "2.50")))
	require.NoError(t, order.AddLine(line("Coffee", "2.50")))

	receipt, err := ledger.Commit(order, paidAt)
	require.NoError(t, err)
	assert.Equal(t, "ORD_20261019_001", receipt.Number)
	assert.True(t, receipt.Total.Equal(decimal.RequireFromString("5.00")))

	// later changes to the order must not leak into history
	order.Clear()
	require.NoError(t, order.AddLine(line("Pizza", "8.00")))
	receipt.Lines[0].Name = "changed"

	var entries []FinalizedOrder
	for entry := range ledger.History() {
		entries = append(entries, entry)
	}
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Lines, 2)
	assert.Equal(t, "Coffee", entries[0].Lines[0].Name)
	assert.True(t, entries[0].Total.Equal(decimal.RequireFromString("5")))
}

func TestOrderLedger_FullLedgerIsUnchanged(t *testing.T) {
	ledger := NewOrderLedger(DefaultLedgerCapacity)
	for i := 0; i < DefaultLedgerCapacity; i++ {
		order := NewOrder(0)
		require.NoError(t, order.AddLine(line("Tea", "2.00")))
		_, err := ledger.Commit(order, paidAt)
		require.NoError(t, err)
	}

	order := NewOrder(0)
	require.NoError(t, order.AddLine(line("Burger", "7.00")))
	_, err := ledger.Commit(order, paidAt)
	require.ErrorIs(t, err, ErrLedgerFull)

	assert.Equal(t, 10, ledger.Len())
	for entry := range ledger.History() {
		assert.Equal(t, "Tea", entry.Lines[0].Name)
	}
	assert.Equal(t, 1, order.Len())
}

func TestReceiptMessage_JSON(t *testing.T) {
	msg := CreateReceiptMessage(FinalizedOrder{
		Number: "ORD_20261019_002",
		Lines:  []Line{line("Cake", "3.50")},
		Total:  decimal.RequireFromString("3.50"),
		PaidAt: paidAt,
	})

	body, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"order_number": "ORD_20261019_002",
		"items": [{"name": "Cake", "price": "3.5"}],
		"total_amount": "3.5",
		"paid_at": "2026-10-19T09:30:00Z"
	}`, string(body))
}
