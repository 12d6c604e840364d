package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"cafe-system/internal/logger"
	"cafe-system/internal/messaging"
	"cafe-system/internal/models"
)

// Consumer delivers raw message bodies to a handler until ctx ends
type Consumer interface {
	StartConsuming(ctx context.Context, handler messaging.MessageHandler) error
	Close() error
}

// Subscriber prints receipts of paid orders
type Subscriber struct {
	consumer Consumer
	logger   *logger.Logger
	out      io.Writer
}

// NewSubscriber creates a new receipt subscriber writing to out
func NewSubscriber(consumer Consumer, logger *logger.Logger, out io.Writer) *Subscriber {
	return &Subscriber{
		consumer: consumer,
		logger:   logger,
		out:      out,
	}
}

// Start consumes receipts until ctx is cancelled
func (s *Subscriber) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()

	s.logger.Info("service_started", "Notification subscriber started", requestID, nil)

	err := s.consumer.StartConsuming(ctx, s.handleReceipt)
	if err != nil {
		s.logger.Error("consumer_failed", "Receipt consumer failed", requestID, err, nil)
	}

	s.logger.Info("graceful_shutdown", "Stopping notification subscriber", requestID, nil)
	if closeErr := s.consumer.Close(); closeErr != nil {
		s.logger.Error("consumer_close_failed", "Failed to close consumer", requestID, closeErr, nil)
	}

	return err
}

// handleReceipt decodes one receipt and prints it
func (s *Subscriber) handleReceipt(ctx context.Context, body []byte) error {
	requestID := logger.GenerateRequestID()

	var receipt models.ReceiptMessage
	if err := json.Unmarshal(body, &receipt); err != nil {
		s.logger.Error("message_parsing_failed", "Failed to parse receipt message", requestID, err, nil)
		return &messaging.PermanentError{Err: fmt.Errorf("failed to parse receipt: %w", err)}
	}

	if _, err := io.WriteString(s.out, formatReceipt(&receipt)); err != nil {
		return fmt.Errorf("failed to print receipt: %w", err)
	}

	s.logger.Info("receipt_displayed", "Receipt displayed", requestID, map[string]interface{}{
		"order_number": receipt.OrderNumber,
		"items":        len(receipt.Items),
		"total_amount": receipt.TotalAmount.StringFixed(2),
	})

	return nil
}

// formatReceipt renders a receipt the way the console prints an order
func formatReceipt(receipt *models.ReceiptMessage) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] Order %s paid\n", receipt.PaidAt.Format("2006-01-02 15:04:05"), receipt.OrderNumber)
	for _, item := range receipt.Items {
		fmt.Fprintf(&b, "  - %s: $%s\n", item.Name, item.UnitPrice.StringFixed(2))
	}
	fmt.Fprintf(&b, "  Total: $%s\n", receipt.TotalAmount.StringFixed(2))

	return b.String()
}
