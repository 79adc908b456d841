// internal/repository/payment_store.go
package repository

import (
	"context"

	"payment-gateway/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentStore records payment state transitions. Callback correlation to a
// previously issued push is keyed by checkout request ID and lives entirely
// behind this interface.
type PaymentStore interface {
	RecordInitiated(ctx context.Context, req *domain.PaymentRequest, checkoutRequestID string) error
	RecordCompleted(ctx context.Context, payment *domain.CompletedPayment) error
	RecordFailed(ctx context.Context, payment *domain.FailedPayment) error
}

// LogStore is the shipped PaymentStore: every transition becomes one
// structured log event with a generated event ID. No state is retained.
type LogStore struct {
	logger *zap.Logger
}

var _ PaymentStore = (*LogStore)(nil)

func NewLogStore(logger *zap.Logger) *LogStore {
	return &LogStore{logger: logger}
}

func (s *LogStore) RecordInitiated(ctx context.Context, req *domain.PaymentRequest, checkoutRequestID string) error {
	s.logger.Info("payment initiated",
		zap.String("event_id", uuid.NewString()),
		zap.String("status", string(domain.PaymentStatusPending)),
		zap.String("checkout_request_id", checkoutRequestID),
		zap.String("phone", req.Phone),
		zap.Float64("amount", req.Amount),
		zap.String("account_reference", req.AccountReference))
	return nil
}

func (s *LogStore) RecordCompleted(ctx context.Context, payment *domain.CompletedPayment) error {
	s.logger.Info("payment completed",
		zap.String("event_id", uuid.NewString()),
		zap.String("status", string(domain.PaymentStatusCompleted)),
		zap.String("checkout_request_id", payment.CheckoutRequestID),
		zap.String("mpesa_receipt_number", payment.MpesaReceiptNumber),
		zap.Float64("amount", payment.Amount),
		zap.String("phone_number", payment.PhoneNumber))
	return nil
}

func (s *LogStore) RecordFailed(ctx context.Context, payment *domain.FailedPayment) error {
	s.logger.Info("payment failed",
		zap.String("event_id", uuid.NewString()),
		zap.String("status", string(domain.PaymentStatusFailed)),
		zap.String("checkout_request_id", payment.CheckoutRequestID),
		zap.String("reason", payment.Reason))
	return nil
}
