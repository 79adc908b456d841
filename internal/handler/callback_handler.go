// internal/handler/callback_handler.go
package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"payment-gateway/internal/usecase"

	"go.uber.org/zap"
)

type CallbackHandler struct {
	callbackUC *usecase.CallbackUsecase
	logger     *zap.Logger
}

func NewCallbackHandler(callbackUC *usecase.CallbackUsecase, logger *zap.Logger) *CallbackHandler {
	return &CallbackHandler{
		callbackUC: callbackUC,
		logger:     logger,
	}
}

// HandleMpesaCallback receives the provider's asynchronous result. Processing
// failures are captured inside the usecase, so the provider always gets a
// 200 acknowledgement and never retries on our account.
func (h *CallbackHandler) HandleMpesaCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	h.logger.Info("received M-Pesa callback",
		zap.String("remote_addr", r.RemoteAddr))

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Error("failed to read callback payload", zap.Error(err))
		h.sendJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "Internal server error",
		})
		return
	}

	h.callbackUC.HandleCallback(ctx, payload)

	h.sendJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Callback handled successfully",
	})
}

func (h *CallbackHandler) sendJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode callback response", zap.Error(err))
	}
}
