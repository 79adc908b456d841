// internal/handler/payment_handler.go
package handler

import (
	"encoding/json"
	"net/http"

	"payment-gateway/internal/domain"
	"payment-gateway/internal/usecase"

	"go.uber.org/zap"
)

type PaymentHandler struct {
	paymentUC *usecase.PaymentUsecase
	logger    *zap.Logger
}

func NewPaymentHandler(paymentUC *usecase.PaymentUsecase, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentUC: paymentUC,
		logger:    logger,
	}
}

// HandleInitiatePayment accepts a client STK push request. The result body
// is the same for 200 and 400; only the status code tracks success.
func (h *PaymentHandler) HandleInitiatePayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode payment request",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err))
		h.sendInternalError(w)
		return
	}

	result := h.paymentUC.InitiatePayment(ctx, &req)

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	h.sendJSON(w, status, result)
}

// HandleCardPayment is a placeholder; no card processing is performed.
func (h *PaymentHandler) HandleCardPayment(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("card payment request received",
		zap.String("remote_addr", r.RemoteAddr))

	h.sendJSON(w, http.StatusOK, &domain.Result{
		Success: true,
		Message: "Card payment processed successfully",
	})
}

// HandleBankTransfer is a placeholder; no bank transfer is performed.
func (h *PaymentHandler) HandleBankTransfer(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("bank transfer request received",
		zap.String("remote_addr", r.RemoteAddr))

	h.sendJSON(w, http.StatusOK, &domain.Result{
		Success: true,
		Message: "Bank transfer processed successfully",
	})
}

func (h *PaymentHandler) sendJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *PaymentHandler) sendInternalError(w http.ResponseWriter) {
	h.sendJSON(w, http.StatusInternalServerError, &domain.Result{
		Success: false,
		Message: "Internal server error",
	})
}
