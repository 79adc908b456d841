// internal/usecase/payment_uc.go
package usecase

import (
	"context"

	"payment-gateway/internal/domain"
	"payment-gateway/internal/provider"
	"payment-gateway/internal/repository"

	"go.uber.org/zap"
)

const (
	msgInitiated       = "Payment initiated successfully"
	msgInitiateFailure = "Payment initiation failed"
)

// PaymentUsecase orchestrates one outbound payment: acquire a token, build
// and send the STK push, map the provider response. Internal errors never
// propagate past this layer; callers always get a uniform Result.
type PaymentUsecase struct {
	stkProvider provider.STKProvider
	store       repository.PaymentStore
	logger      *zap.Logger
}

func NewPaymentUsecase(
	stkProvider provider.STKProvider,
	store repository.PaymentStore,
	logger *zap.Logger,
) *PaymentUsecase {
	return &PaymentUsecase{
		stkProvider: stkProvider,
		store:       store,
		logger:      logger,
	}
}

// InitiatePayment runs the STK push flow. A token failure short-circuits
// before any push request is sent.
func (uc *PaymentUsecase) InitiatePayment(ctx context.Context, req *domain.PaymentRequest) *domain.Result {
	if err := req.Validate(); err != nil {
		uc.logger.Warn("payment request validation failed",
			zap.String("phone", req.Phone),
			zap.Error(err))
		return &domain.Result{Success: false, Message: err.Error()}
	}

	uc.logger.Info("initiating payment",
		zap.String("phone", req.Phone),
		zap.Float64("amount", req.Amount),
		zap.String("account_reference", req.AccountReference))

	token, err := uc.stkProvider.AccessToken(ctx)
	if err != nil {
		uc.logger.Error("failed to get access token",
			zap.String("account_reference", req.AccountReference),
			zap.Error(err))
		return &domain.Result{Success: false, Message: msgInitiateFailure}
	}

	response, err := uc.stkProvider.InitiateSTKPush(ctx, req, token)
	if err != nil {
		uc.logger.Error("STK push request failed",
			zap.String("account_reference", req.AccountReference),
			zap.Error(err))
		return &domain.Result{Success: false, Message: msgInitiateFailure}
	}

	if response.ResponseCode != "0" {
		uc.logger.Warn("STK push rejected by provider",
			zap.String("account_reference", req.AccountReference),
			zap.String("response_code", response.ResponseCode),
			zap.String("response_description", response.ResponseDescription))

		message := response.ResponseDescription
		if message == "" {
			message = msgInitiateFailure
		}
		return &domain.Result{Success: false, Message: message}
	}

	uc.logger.Info("STK push accepted",
		zap.String("checkout_request_id", response.CheckoutRequestID),
		zap.String("customer_message", response.CustomerMessage))

	if err := uc.store.RecordInitiated(ctx, req, response.CheckoutRequestID); err != nil {
		uc.logger.Error("failed to record initiated payment",
			zap.String("checkout_request_id", response.CheckoutRequestID),
			zap.Error(err))
	}

	return &domain.Result{
		Success: true,
		Message: msgInitiated,
		Data: &domain.ResultData{
			CheckoutRequestID: response.CheckoutRequestID,
			CustomerMessage:   response.CustomerMessage,
		},
	}
}
