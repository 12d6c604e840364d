package models

import (
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultOrderCapacity is the number of lines a single order can hold
const DefaultOrderCapacity = 10

// Order represents the in-progress selection of one customer
type Order struct {
	lines    []Line
	capacity int
}

// NewOrder creates an empty order. A non-positive capacity falls back to the default.
func NewOrder(capacity int) *Order {
	if capacity <= 0 {
		capacity = DefaultOrderCapacity
	}
	return &Order{capacity: capacity}
}

func (o *Order) Len() int       { return len(o.lines) }
func (o *Order) Capacity() int  { return o.capacity }
func (o *Order) Remaining() int { return o.capacity - len(o.lines) }
func (o *Order) IsEmpty() bool  { return len(o.lines) == 0 }

// AddLine appends a line, failing without changes once the order is full
func (o *Order) AddLine(line Line) error {
	if len(o.lines) >= o.capacity {
		return fmt.Errorf("%w: capacity is %d", ErrOrderFull, o.capacity)
	}
	o.lines = append(o.lines, line)
	return nil
}

// Total sums the unit prices of all lines
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range o.lines {
		total = total.Add(line.UnitPrice)
	}
	return total
}

// Lines yields the order lines in the order they were added
func (o *Order) Lines() iter.Seq[Line] {
	return func(yield func(Line) bool) {
		for _, line := range o.lines {
			if !yield(line) {
				return
			}
		}
	}
}

// Clear empties the order
func (o *Order) Clear() {
	o.lines = nil
}

// snapshotLines returns a copy of the lines that shares nothing with the order
func (o *Order) snapshotLines() []Line {
	return slices.Clone(o.lines)
}

// GenerateOrderNumber generates an order number in format ORD_YYYYMMDD_NNN
func GenerateOrderNumber(date time.Time, sequence int) string {
	dateStr := date.Format("20060102")
	return fmt.Sprintf("ORD_%s_%03d", dateStr, sequence)
}
