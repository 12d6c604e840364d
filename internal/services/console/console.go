package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"cafe-system/internal/logger"
	"cafe-system/internal/models"
	"cafe-system/internal/services/session"
)

// Main menu options
const (
	OptionDisplayMenu    = "1"
	OptionTakeOrder      = "2"
	OptionProcessPayment = "3"
	OptionViewOrders     = "4"
	OptionExit           = "5"
)

const publishTimeout = 10 * time.Second

// ReceiptPublisher sends paid orders to whoever listens for them
type ReceiptPublisher interface {
	PublishReceipt(ctx context.Context, receipt *models.ReceiptMessage) error
}

// Option configures a Console
type Option func(*Console)

// WithPublisher publishes a receipt after every payment
func WithPublisher(p ReceiptPublisher) Option {
	return func(c *Console) { c.publisher = p }
}

// Console is the operator terminal of the café
type Console struct {
	session   *session.Session
	in        io.Reader
	out       io.Writer
	logger    *logger.Logger
	publisher ReceiptPublisher

	lines   <-chan string
	readErr error
}

// New creates a console reading operator input from in and writing to out
func New(s *session.Session, in io.Reader, out io.Writer, log *logger.Logger, opts ...Option) *Console {
	c := &Console{
		session: s,
		in:      in,
		out:     out,
		logger:  log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run shows the main menu until the operator exits, input ends or ctx is done
func (c *Console) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.lines = c.readLines(ctx)

	requestID := logger.GenerateRequestID()
	c.logger.Info("console_started", "Console session started", requestID, nil)

	for {
		c.printOptions()

		choice, ok := c.readLine(ctx)
		if !ok {
			return c.stop(ctx, requestID)
		}

		switch strings.TrimSpace(choice) {
		case OptionDisplayMenu:
			c.displayMenu()
		case OptionTakeOrder:
			if !c.takeOrder(ctx) {
				return c.stop(ctx, requestID)
			}
		case OptionProcessPayment:
			c.processPayment(ctx)
		case OptionViewOrders:
			c.viewOrders()
		case OptionExit:
			fmt.Fprintln(c.out, "Exiting the cafe management system. Goodbye!")
			c.logger.Info("console_exited", "Operator exited the console", requestID, map[string]interface{}{
				"orders_paid":   c.session.HistoryLen(),
				"pending_order": c.session.HasPendingOrder(),
			})
			return nil
		default:
			fmt.Fprintln(c.out, "Invalid choice. Please try again.")
		}
	}
}

// stop reports why the loop ended without an explicit exit
func (c *Console) stop(ctx context.Context, requestID string) error {
	if err := ctx.Err(); err != nil {
		c.logger.Info("console_interrupted", "Console stopped by context", requestID, nil)
		return err
	}
	if c.readErr != nil {
		c.logger.Error("console_input_failed", "Failed to read operator input", requestID, c.readErr, nil)
		return fmt.Errorf("failed to read input: %w", c.readErr)
	}
	c.logger.Info("console_input_closed", "Operator input closed", requestID, nil)
	return nil
}

// readLines scans c.in in its own goroutine so a blocked read never holds up shutdown
func (c *Console) readLines(ctx context.Context) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		c.readErr = scanner.Err()
	}()
	return lines
}

func (c *Console) readLine(ctx context.Context) (string, bool) {
	select {
	case <-ctx.Done():
		return "", false
	case line, ok := <-c.lines:
		return line, ok
	}
}

func (c *Console) prompt(ctx context.Context, text string) (string, bool) {
	fmt.Fprint(c.out, text)
	return c.readLine(ctx)
}

func (c *Console) printOptions() {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "Cafe Management System")
	fmt.Fprintln(c.out, "1. Display Menu")
	fmt.Fprintln(c.out, "2. Take Order")
	fmt.Fprintln(c.out, "3. Process Payment")
	fmt.Fprintln(c.out, "4. View Orders")
	fmt.Fprintln(c.out, "5. Exit")
	fmt.Fprint(c.out, "Enter your choice: ")
}

func (c *Console) displayMenu() {
	for _, category := range c.session.ListMenu() {
		renderCategory(c.out, category)
	}
}

// takeOrder returns false when input ended in the middle of the flow
func (c *Console) takeOrder(ctx context.Context) bool {
	requestID := logger.GenerateRequestID()
	defer c.session.FinishSelection()

	var view session.CategoryView
	for {
		c.displayMenu()
		name, ok := c.prompt(ctx, "Enter the category of the item you want to order: ")
		if !ok {
			return false
		}
		if name == "" {
			return true
		}

		var err error
		view, err = c.session.SelectCategory(name)
		if err == nil {
			break
		}
		fmt.Fprintln(c.out, "Invalid category. Please try again.")
		c.logger.Debug("category_rejected", "Unknown category entered", requestID, map[string]interface{}{
			"category": name,
		})
	}

	for {
		input, ok := c.prompt(ctx, "Enter the number of the item you want to order (0 to finish): ")
		if !ok {
			return false
		}

		number, quantity, err := parseSelection(input)
		if err != nil {
			fmt.Fprintln(c.out, "Invalid choice. Please try again.")
			continue
		}
		if number == 0 {
			return true
		}

		name, err := c.session.OrderItem(view.Name, number, quantity)
		if err != nil {
			c.logger.Debug("item_rejected", "Item could not be ordered", requestID, map[string]interface{}{
				"category": view.Name,
				"number":   number,
				"quantity": quantity,
				"reason":   err.Error(),
			})
			fmt.Fprintln(c.out, orderErrorMessage(err))
			if errors.Is(err, models.ErrOrderFull) {
				return true
			}
			continue
		}

		if quantity == 1 {
			fmt.Fprintf(c.out, "Added %s to your order.\n", name)
		} else {
			fmt.Fprintf(c.out, "Added %d x %s to your order.\n", quantity, name)
		}
		c.logger.Info("item_ordered", "Item added to order", requestID, map[string]interface{}{
			"category": view.Name,
			"item":     name,
			"quantity": quantity,
		})
	}
}

func orderErrorMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrInsufficientStock):
		return "Not enough stock for that item. Please try again."
	case errors.Is(err, models.ErrInvalidQuantity):
		return "Quantity must be at least 1. Please try again."
	case errors.Is(err, models.ErrOrderFull):
		return "Order is full. Please process payment first."
	default:
		return "Invalid choice. Please try again."
	}
}

func (c *Console) processPayment(ctx context.Context) {
	requestID := logger.GenerateRequestID()

	pending := c.session.CurrentOrder()
	if len(pending.Lines) == 0 {
		fmt.Fprintln(c.out, "No items in the current order.")
		return
	}

	fmt.Fprintf(c.out, "Total amount to pay: $%s\n", pending.Total.StringFixed(2))
	renderOrder(c.out, pending.Lines, pending.Total)

	receipt, err := c.session.FinalizeOrder()
	switch {
	case errors.Is(err, models.ErrLedgerFull):
		fmt.Fprintln(c.out, "Maximum order limit reached.")
		c.logger.Warn("ledger_full", "Order kept because the ledger is full", requestID, map[string]interface{}{
			"orders_paid": c.session.HistoryLen(),
		})
		return
	case err != nil:
		fmt.Fprintln(c.out, "No items in the current order.")
		return
	}

	fmt.Fprintln(c.out, "Payment processed. Order cleared.")
	fmt.Fprintf(c.out, "Receipt: %s\n", receipt.Number)
	c.logger.Info("order_paid", "Order paid", requestID, map[string]interface{}{
		"order_number": receipt.Number,
		"items":        len(receipt.Lines),
		"total_amount": receipt.Total.StringFixed(2),
	})

	c.publishReceipt(ctx, receipt, requestID)
}

// publishReceipt is best effort: the order is already paid
func (c *Console) publishReceipt(ctx context.Context, receipt models.FinalizedOrder, requestID string) {
	if c.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := c.publisher.PublishReceipt(ctx, models.CreateReceiptMessage(receipt)); err != nil {
		c.logger.Error("receipt_publish_failed", "Failed to publish receipt", requestID, err, map[string]interface{}{
			"order_number": receipt.Number,
		})
		return
	}

	c.logger.Debug("receipt_published", "Receipt published", requestID, map[string]interface{}{
		"order_number": receipt.Number,
	})
}

func (c *Console) viewOrders() {
	fmt.Fprintln(c.out, "Previous Orders:")
	n := 0
	for order := range c.session.ViewHistory() {
		n++
		fmt.Fprintf(c.out, "Order %d (%s):\n", n, order.Number)
		renderOrder(c.out, order.Lines, order.Total)
	}
}
