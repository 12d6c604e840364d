package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafe-system/internal/logger"
	"cafe-system/internal/models"
	"cafe-system/internal/services/session"
)

var paidAt = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

type fakePublisher struct {
	receipts []*models.ReceiptMessage
	err      error
}

func (f *fakePublisher) PublishReceipt(_ context.Context, receipt *models.ReceiptMessage) error {
	f.receipts = append(f.receipts, receipt)
	return f.err
}

func newSession(t *testing.T, opts ...session.Option) *session.Session {
	t.Helper()
	catalog, err := models.NewCatalog(models.DefaultSeed())
	require.NoError(t, err)
	opts = append([]session.Option{session.WithClock(func() time.Time { return paidAt })}, opts...)
	return session.New(catalog, opts...)
}

// run feeds the given input lines to a fresh console and returns its output
func run(t *testing.T, s *session.Session, input []string, opts ...Option) string {
	t.Helper()
	var out bytes.Buffer
	c := New(s, strings.NewReader(strings.Join(input, "\n")+"\n"), &out, logger.Nop(), opts...)
	require.NoError(t, c.Run(context.Background()))
	return out.String()
}

func TestConsole_ExitPrintsGoodbye(t *testing.T) {
	out := run(t, newSession(t), []string{"5"})

	assert.Contains(t, out, "Cafe Management System")
	assert.Contains(t, out, "Enter your choice: ")
	assert.Contains(t, out, "Exiting the cafe management system. Goodbye!")
}

func TestConsole_InvalidChoice(t *testing.T) {
	out := run(t, newSession(t), []string{"9", "abc", "5"})

	assert.Equal(t, 2, strings.Count(out, "Invalid choice. Please try again."))
}

func TestConsole_DisplayMenu(t *testing.T) {
	out := run(t, newSession(t), []string{"1", "5"})

	beverages := strings.Index(out, "Category: Beverages")
	snacks := strings.Index(out, "Category: Snacks")
	fastFood := strings.Index(out, "Category: Fast Food")
	require.NotEqual(t, -1, beverages)
	assert.Less(t, beverages, snacks)
	assert.Less(t, snacks, fastFood)

	assert.Contains(t, out, "1  Coffee  $2.50  50")
	assert.Contains(t, out, "2  Pizza   $8.00  15")
}

func TestConsole_TakeOrderAndPay(t *testing.T) {
	s := newSession(t)
	publisher := &fakePublisher{}

	out := run(t, s, []string{
		"2", "Beverages", "1", "1", "0",
		"3",
		"4",
		"5",
	}, WithPublisher(publisher))

	assert.Equal(t, 2, strings.Count(out, "Added Coffee to your order."))
	assert.Contains(t, out, "Total amount to pay: $5.00")
	assert.Contains(t, out, "Coffee - $2.50")
	assert.Contains(t, out, "Payment processed. Order cleared.")
	assert.Contains(t, out, "Receipt: ORD_20261019_001")
	assert.Contains(t, out, "Previous Orders:")
	assert.Contains(t, out, "Order 1 (ORD_20261019_001):")

	assert.Equal(t, 1, s.HistoryLen())
	assert.False(t, s.HasPendingOrder())

	require.Len(t, publisher.receipts, 1)
	assert.Equal(t, "ORD_20261019_001", publisher.receipts[0].OrderNumber)
	assert.True(t, publisher.receipts[0].TotalAmount.Equal(decimal.RequireFromString("5")))
}

func TestConsole_QuantityForm(t *testing.T) {
	s := newSession(t)

	out := run(t, s, []string{"2", "Snacks", "2x3", "0", "5"})

	assert.Contains(t, out, "Added 3 x Cake to your order.")
	assert.Len(t, s.CurrentOrder().Lines, 3)
	assert.True(t, s.CurrentOrder().Total.Equal(decimal.RequireFromString("10.50")))
}

func TestConsole_InvalidCategoryReprompts(t *testing.T) {
	s := newSession(t)

	out := run(t, s, []string{"2", "Desserts", "Fast Food", "2", "0", "5"})

	assert.Contains(t, out, "Invalid category. Please try again.")
	assert.Contains(t, out, "Added Pizza to your order.")
	assert.Equal(t, session.StateIdle, s.State())
}

func TestConsole_EmptyCategoryReturnsToMenu(t *testing.T) {
	s := newSession(t)

	out := run(t, s, []string{"2", "", "5"})

	assert.NotContains(t, out, "Enter the number of the item")
	assert.False(t, s.HasPendingOrder())
}

func TestConsole_RejectedSelections(t *testing.T) {
	s := newSession(t)

	out := run(t, s, []string{"2", "Snacks", "99", "2x21", "1x0", "-1", "0", "5"})

	assert.Equal(t, 2, strings.Count(out, "Invalid choice. Please try again."))
	assert.Contains(t, out, "Not enough stock for that item. Please try again.")
	assert.Contains(t, out, "Quantity must be at least 1. Please try again.")
	assert.False(t, s.HasPendingOrder())
}

func TestConsole_OrderFullEndsSelection(t *testing.T) {
	s := newSession(t, session.WithOrderCapacity(2))

	out := run(t, s, []string{"2", "Beverages", "1x2", "1", "5"})

	assert.Contains(t, out, "Order is full. Please process payment first.")
	assert.Len(t, s.CurrentOrder().Lines, 2)
}

func TestConsole_PaymentWithoutItems(t *testing.T) {
	s := newSession(t)
	publisher := &fakePublisher{}

	out := run(t, s, []string{"3", "5"}, WithPublisher(publisher))

	assert.Contains(t, out, "No items in the current order.")
	assert.Equal(t, 0, s.HistoryLen())
	assert.Empty(t, publisher.receipts)
}

func TestConsole_LedgerFullKeepsOrder(t *testing.T) {
	s := newSession(t, session.WithLedgerCapacity(1))

	out := run(t, s, []string{
		"2", "Beverages", "2", "0", "3",
		"2", "Beverages", "2", "0", "3",
		"5",
	})

	assert.Contains(t, out, "Maximum order limit reached.")
	assert.Equal(t, 1, strings.Count(out, "Payment processed. Order cleared."))
	assert.Equal(t, 1, s.HistoryLen())
	assert.True(t, s.HasPendingOrder())
}

func TestConsole_PublishFailureKeepsPayment(t *testing.T) {
	s := newSession(t)
	publisher := &fakePublisher{err: errors.New("broker down")}

	out := run(t, s, []string{"2", "Beverages", "1", "0", "3", "5"}, WithPublisher(publisher))

	assert.Contains(t, out, "Payment processed. Order cleared.")
	assert.Equal(t, 1, s.HistoryLen())
	assert.Len(t, publisher.receipts, 1)
}

func TestConsole_EndOfInputStops(t *testing.T) {
	var out bytes.Buffer
	c := New(newSession(t), strings.NewReader("2\nBeverages\n1\n"), &out, logger.Nop())

	require.NoError(t, c.Run(context.Background()))
	assert.Contains(t, out.String(), "Added Coffee to your order.")
}

func TestConsole_ContextCancelStops(t *testing.T) {
	reader, writer := io.Pipe()
	defer writer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	c := New(newSession(t), reader, io.Discard, logger.Nop())

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("console did not stop after cancel")
	}
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		number   int
		quantity int
		wantErr  bool
	}{
		{name: "single", input: "3", number: 3, quantity: 1},
		{name: "finish", input: "0", number: 0, quantity: 1},
		{name: "quantity form", input: "2x4", number: 2, quantity: 4},
		{name: "spaced upper case", input: " 2 X 4 ", number: 2, quantity: 4},
		{name: "zero quantity passes through", input: "1x0", number: 1, quantity: 0},
		{name: "negative number", input: "-1", wantErr: true},
		{name: "not a number", input: "coffee", wantErr: true},
		{name: "missing quantity", input: "2x", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			number, quantity, err := parseSelection(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.number, number)
			assert.Equal(t, tt.quantity, quantity)
		})
	}
}
