// internal/provider/provider.go
package provider

import (
	"context"
	"fmt"

	"payment-gateway/internal/domain"
)

// STKProvider is the outbound contract to the mobile-money provider. The
// access token is acquired and passed explicitly so the orchestration layer
// owns the token-then-push ordering.
type STKProvider interface {
	// AccessToken exchanges the configured consumer credentials for a
	// bearer token. Failure means no push request may be sent.
	AccessToken(ctx context.Context) (string, error)

	// InitiateSTKPush posts the signed push payload and returns the raw
	// provider response without interpreting business success.
	InitiateSTKPush(ctx context.Context, req *domain.PaymentRequest, token string) (*STKPushResponse, error)

	// ParseSTKCallback decodes the provider's asynchronous result payload.
	ParseSTKCallback(payload []byte) (*CallbackResult, error)
}

// STKPushResponse is the provider's synchronous answer to a push request.
type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// CallbackResult is the parsed asynchronous payment result. Amount, receipt
// and phone number are only populated when Success is true.
type CallbackResult struct {
	CheckoutRequestID  string
	ResultCode         int
	ResultDescription  string
	Success            bool
	Amount             float64
	MpesaReceiptNumber string
	PhoneNumber        string
}

// AuthError reports a failed access-token exchange.
type AuthError struct {
	Status int
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("access token exchange failed (status %d): %s", e.Status, e.Reason)
}

// RequestError reports a transport or HTTP-level failure talking to the
// provider after authentication succeeded.
type RequestError struct {
	Status int
	Body   string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("provider request failed (status %d): %s", e.Status, e.Body)
}
