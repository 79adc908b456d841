// internal/usecase/callback_uc.go
package usecase

import (
	"context"

	"payment-gateway/internal/domain"
	"payment-gateway/internal/provider"
	"payment-gateway/internal/repository"

	"go.uber.org/zap"
)

// CallbackUsecase processes the provider's asynchronous payment results.
// Every failure here is captured and logged rather than returned upward, so
// the HTTP surface can always acknowledge the callback and the provider
// never retries on our internal problems.
type CallbackUsecase struct {
	stkProvider provider.STKProvider
	store       repository.PaymentStore
	logger      *zap.Logger
}

func NewCallbackUsecase(
	stkProvider provider.STKProvider,
	store repository.PaymentStore,
	logger *zap.Logger,
) *CallbackUsecase {
	return &CallbackUsecase{
		stkProvider: stkProvider,
		store:       store,
		logger:      logger,
	}
}

// HandleCallback parses one callback payload and forwards the outcome to the
// payment store.
func (uc *CallbackUsecase) HandleCallback(ctx context.Context, payload []byte) {
	result, err := uc.stkProvider.ParseSTKCallback(payload)
	if err != nil {
		uc.logger.Error("failed to parse STK callback",
			zap.Int("payload_size", len(payload)),
			zap.Error(err))
		return
	}

	if result.Success {
		uc.logger.Info("STK callback: payment successful",
			zap.String("checkout_request_id", result.CheckoutRequestID),
			zap.String("mpesa_receipt_number", result.MpesaReceiptNumber),
			zap.Float64("amount", result.Amount))

		completed := &domain.CompletedPayment{
			CheckoutRequestID:  result.CheckoutRequestID,
			MpesaReceiptNumber: result.MpesaReceiptNumber,
			Amount:             result.Amount,
			PhoneNumber:        result.PhoneNumber,
		}
		if err := uc.store.RecordCompleted(ctx, completed); err != nil {
			uc.logger.Error("failed to record completed payment",
				zap.String("checkout_request_id", result.CheckoutRequestID),
				zap.Error(err))
		}
		return
	}

	uc.logger.Warn("STK callback: payment failed",
		zap.String("checkout_request_id", result.CheckoutRequestID),
		zap.Int("result_code", result.ResultCode),
		zap.String("result_description", result.ResultDescription))

	failed := &domain.FailedPayment{
		CheckoutRequestID: result.CheckoutRequestID,
		Reason:            result.ResultDescription,
	}
	if err := uc.store.RecordFailed(ctx, failed); err != nil {
		uc.logger.Error("failed to record failed payment",
			zap.String("checkout_request_id", result.CheckoutRequestID),
			zap.Error(err))
	}
}
