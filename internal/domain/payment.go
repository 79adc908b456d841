// internal/domain/payment.go
package domain

import "errors"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// PaymentRequest is one client-initiated STK push request. Nothing about it
// is persisted by the gateway itself.
type PaymentRequest struct {
	Phone            string  `json:"phone"`
	Amount           float64 `json:"amount"`
	AccountReference string  `json:"accountReference"`
	TransactionDesc  string  `json:"transactionDesc"`
}

func (r *PaymentRequest) Validate() error {
	if r.Phone == "" {
		return errors.New("phone is required")
	}
	if r.Amount <= 0 {
		return errors.New("amount must be greater than 0")
	}
	if r.AccountReference == "" {
		return errors.New("accountReference is required")
	}
	return nil
}

// Result is the uniform initiation outcome returned to callers. The gateway
// service never surfaces internal errors past this shape.
type Result struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    *ResultData `json:"data,omitempty"`
}

type ResultData struct {
	CheckoutRequestID string `json:"checkoutRequestID"`
	CustomerMessage   string `json:"customerMessage"`
}

// CompletedPayment carries the metadata of a successful STK push callback,
// keyed by the checkout request ID issued at initiation.
type CompletedPayment struct {
	CheckoutRequestID  string
	MpesaReceiptNumber string
	Amount             float64
	PhoneNumber        string
}

// FailedPayment carries the provider's reason for an unsuccessful push.
type FailedPayment struct {
	CheckoutRequestID string
	Reason            string
}
