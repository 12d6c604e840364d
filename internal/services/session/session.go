// Package session holds the café order state machine: the catalog, the order
// being taken and the history of paid orders. It does no I/O and never logs;
// every failure is returned to the caller.
package session

import (
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"cafe-system/internal/models"
)

// CategoryView is what an operator sees after picking a category
type CategoryView struct {
	Name  string
	Items []ItemView
}

// ItemView is a read-only row of a category listing
type ItemView struct {
	Number    int
	Name      string
	UnitPrice decimal.Decimal
	Stock     int
}

// OrderView is a read-only copy of the pending order
type OrderView struct {
	Lines     []models.Line
	Total     decimal.Decimal
	Remaining int
}

// Option configures a Session
type Option func(*Session)

// WithOrderCapacity sets how many lines one order can hold
func WithOrderCapacity(capacity int) Option {
	return func(s *Session) { s.order = models.NewOrder(capacity) }
}

// WithLedgerCapacity sets how many paid orders are kept
func WithLedgerCapacity(capacity int) Option {
	return func(s *Session) { s.ledger = models.NewOrderLedger(capacity) }
}

// WithClock replaces the clock used to stamp paid orders
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// Session owns the catalog, the current order and the ledger for one run
type Session struct {
	catalog *models.Catalog
	order   *models.Order
	ledger  *models.OrderLedger
	now     func() time.Time

	state    State
	category string
}

// New creates a session over catalog
func New(catalog *models.Catalog, opts ...Option) *Session {
	s := &Session{
		catalog: catalog,
		order:   models.NewOrder(models.DefaultOrderCapacity),
		ledger:  models.NewOrderLedger(models.DefaultLedgerCapacity),
		now:     time.Now,
		state:   StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) State() State { return s.state }

// ActiveCategory is the category picked by the last SelectCategory call
func (s *Session) ActiveCategory() string { return s.category }

// HasPendingOrder reports whether there is anything to pay for
func (s *Session) HasPendingOrder() bool { return !s.order.IsEmpty() }

// ListMenu yields every category of the catalog
func (s *Session) ListMenu() iter.Seq2[string, *models.Category] {
	return s.catalog.AllCategories()
}

// SelectCategory validates name and returns its listing
func (s *Session) SelectCategory(name string) (CategoryView, error) {
	category, err := s.catalog.Category(name)
	if err != nil {
		return CategoryView{}, err
	}

	view := CategoryView{Name: category.Name()}
	for n, item := range category.Items() {
		view.Items = append(view.Items, ItemView{
			Number:    n,
			Name:      item.Name(),
			UnitPrice: item.UnitPrice(),
			Stock:     item.Stock(),
		})
	}

	s.state = StateBrowsingCategory
	s.category = name
	return view, nil
}

// OrderItem takes quantity units of the item at a 1-based position and adds
// one order line per unit. Stock and capacity are both checked before anything
// changes, so a rejected call leaves the catalog and the order as they were.
func (s *Session) OrderItem(categoryName string, oneBasedIndex, quantity int) (string, error) {
	item, err := s.catalog.ItemAt(categoryName, oneBasedIndex-1)
	if err != nil {
		return "", err
	}
	if quantity <= 0 {
		return "", fmt.Errorf("%w: got %d", models.ErrInvalidQuantity, quantity)
	}
	if quantity > item.Stock() {
		return "", fmt.Errorf("%w: %s has %d left, requested %d", models.ErrInsufficientStock, item.Name(), item.Stock(), quantity)
	}
	if quantity > s.order.Remaining() {
		return "", fmt.Errorf("%w: %d of %d lines used", models.ErrOrderFull, s.order.Len(), s.order.Capacity())
	}

	if err := item.ReduceStock(quantity); err != nil {
		return "", err
	}
	line := item.Snapshot()
	for range quantity {
		if err := s.order.AddLine(line); err != nil {
			// unreachable: capacity was checked above
			return "", err
		}
	}

	s.state = StateSelectingItems
	s.category = categoryName
	return item.Name(), nil
}

// FinishSelection ends the order-taking flow
func (s *Session) FinishSelection() {
	s.state = StateIdle
	s.category = ""
}

// CurrentOrder returns a copy of the pending order
func (s *Session) CurrentOrder() OrderView {
	return OrderView{
		Lines:     slices.Collect(s.order.Lines()),
		Total:     s.order.Total(),
		Remaining: s.order.Remaining(),
	}
}

// FinalizeOrder pays the pending order: it is recorded in the ledger and then
// cleared. When the ledger is full the order is kept so nothing is lost.
func (s *Session) FinalizeOrder() (models.FinalizedOrder, error) {
	s.FinishSelection()

	if s.order.IsEmpty() {
		return models.FinalizedOrder{}, models.ErrEmptyOrder
	}

	receipt, err := s.ledger.Commit(s.order, s.now())
	if err != nil {
		return models.FinalizedOrder{}, err
	}
	s.order.Clear()

	return receipt, nil
}

// ViewHistory yields the paid orders, oldest first
func (s *Session) ViewHistory() iter.Seq[models.FinalizedOrder] {
	return s.ledger.History()
}

// HistoryLen is the number of paid orders recorded so far
func (s *Session) HistoryLen() int {
	return s.ledger.Len()
}
