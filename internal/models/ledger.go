package models

import (
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultLedgerCapacity is the number of paid orders kept in history
const DefaultLedgerCapacity = 10

// FinalizedOrder is a paid order as recorded in the ledger
type FinalizedOrder struct {
	Number string          `json:"order_number"`
	Lines  []Line          `json:"items"`
	Total  decimal.Decimal `json:"total_amount"`
	PaidAt time.Time       `json:"paid_at"`
}

func (f FinalizedOrder) clone() FinalizedOrder {
	f.Lines = slices.Clone(f.Lines)
	return f
}

// OrderLedger holds a bounded history of paid orders
type OrderLedger struct {
	history  []FinalizedOrder
	capacity int
}

// NewOrderLedger creates an empty ledger. A non-positive capacity falls back to the default.
func NewOrderLedger(capacity int) *OrderLedger {
	if capacity <= 0 {
		capacity = DefaultLedgerCapacity
	}
	return &OrderLedger{capacity: capacity}
}

func (l *OrderLedger) Len() int      { return len(l.history) }
func (l *OrderLedger) Capacity() int { return l.capacity }

// Commit records a copy of the order. A full ledger is left unchanged and the
// order is not touched either way.
func (l *OrderLedger) Commit(order *Order, paidAt time.Time) (FinalizedOrder, error) {
	if len(l.history) >= l.capacity {
		return FinalizedOrder{}, fmt.Errorf("%w: %d orders recorded", ErrLedgerFull, len(l.history))
	}

	entry := FinalizedOrder{
		Number: GenerateOrderNumber(paidAt, len(l.history)+1),
		Lines:  order.snapshotLines(),
		Total:  order.Total(),
		PaidAt: paidAt,
	}
	l.history = append(l.history, entry)

	return entry.clone(), nil
}

// History yields copies of the recorded orders, oldest first
func (l *OrderLedger) History() iter.Seq[FinalizedOrder] {
	return func(yield func(FinalizedOrder) bool) {
		for _, entry := range l.history {
			if !yield(entry.clone()) {
				return
			}
		}
	}
}
