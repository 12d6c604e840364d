package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptMessage represents a paid order sent to notification subscribers
type ReceiptMessage struct {
	OrderNumber string          `json:"order_number"`
	Items       []Line          `json:"items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaidAt      time.Time       `json:"paid_at"`
}

// CreateReceiptMessage creates a ReceiptMessage from a finalized order
func CreateReceiptMessage(order FinalizedOrder) *ReceiptMessage {
	return &ReceiptMessage{
		OrderNumber: order.Number,
		Items:       order.Lines,
		TotalAmount: order.Total,
		PaidAt:      order.PaidAt.UTC(),
	}
}
