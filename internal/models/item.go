package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Item represents a purchasable menu entry and its remaining stock
type Item struct {
	name      string
	unitPrice decimal.Decimal
	stock     int
}

// Line is the copy of an item stored in an order. It keeps no link to the catalog.
type Line struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
}

// NewItem creates a menu item
func NewItem(name string, unitPrice decimal.Decimal, stock int) (*Item, error) {
	if unitPrice.IsNegative() {
		return nil, fmt.Errorf("item %q: price must not be negative", name)
	}
	if stock < 0 {
		return nil, fmt.Errorf("item %q: stock must not be negative", name)
	}
	return &Item{name: name, unitPrice: unitPrice, stock: stock}, nil
}

func (i *Item) Name() string               { return i.name }
func (i *Item) UnitPrice() decimal.Decimal { return i.unitPrice }
func (i *Item) Stock() int                 { return i.stock }

// ReduceStock takes amount units out of stock. Stock is left untouched on error.
func (i *Item) ReduceStock(amount int) error {
	if amount <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, amount)
	}
	if amount > i.stock {
		return fmt.Errorf("%w: %s has %d left, requested %d", ErrInsufficientStock, i.name, i.stock, amount)
	}
	i.stock -= amount
	return nil
}

// Snapshot copies the name and price for an order line
func (i *Item) Snapshot() Line {
	return Line{Name: i.name, UnitPrice: i.unitPrice}
}
