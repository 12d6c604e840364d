package models

import "errors"

// Errors returned by catalog, order and ledger operations. Callers match
// them with errors.Is; the returned errors carry extra context.
var (
	ErrUnknownCategory   = errors.New("unknown category")
	ErrIndexOutOfRange   = errors.New("item index out of range")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrOrderFull         = errors.New("order is full")
	ErrEmptyOrder        = errors.New("order is empty")
	ErrLedgerFull        = errors.New("maximum order limit reached")
)
