// internal/provider/mpesa/mpesa.go
package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"payment-gateway/config"
	"payment-gateway/internal/domain"
	"payment-gateway/internal/provider"
)

const (
	sandboxBaseURL    = "https://sandbox.safaricom.co.ke"
	productionBaseURL = "https://api.safaricom.co.ke"

	// Daraja validates Password against Timestamp, so both must be built
	// from the same YYYYMMDDHHMMSS value.
	timestampLayout = "20060102150405"
)

// Client talks to the Daraja API: OAuth token exchange and STK push.
type Client struct {
	config     config.MpesaConfig
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

var _ provider.STKProvider = (*Client)(nil)

func NewClient(cfg config.MpesaConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = sandboxBaseURL
		if cfg.Environment == "production" {
			baseURL = productionBaseURL
		}
	}

	return &Client{
		config:     cfg,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}
}

// AccessToken performs the Basic-auth client-credentials exchange. A fresh
// token is fetched for every initiation; tokens are never cached.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/oauth/v1/generate?grant_type=client_credentials", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	auth := base64.StdEncoding.EncodeToString([]byte(
		c.config.ConsumerKey + ":" + c.config.ConsumerSecret,
	))
	req.Header.Set("Authorization", "Basic "+auth)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &provider.AuthError{Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &provider.AuthError{Status: resp.StatusCode, Reason: string(body)}
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &provider.AuthError{Status: resp.StatusCode, Reason: err.Error()}
	}
	if result.AccessToken == "" {
		return "", &provider.AuthError{Status: resp.StatusCode, Reason: "empty access token in response"}
	}

	return result.AccessToken, nil
}

// STKPushRequest is the Daraja push payload.
type STKPushRequest struct {
	BusinessShortCode string  `json:"BusinessShortCode"`
	Password          string  `json:"Password"`
	Timestamp         string  `json:"Timestamp"`
	TransactionType   string  `json:"TransactionType"`
	Amount            float64 `json:"Amount"`
	PartyA            string  `json:"PartyA"`
	PartyB            string  `json:"PartyB"`
	PhoneNumber       string  `json:"PhoneNumber"`
	CallBackURL       string  `json:"CallBackURL"`
	AccountReference  string  `json:"AccountReference"`
	TransactionDesc   string  `json:"TransactionDesc"`
}

// InitiateSTKPush posts a CustomerPayBillOnline push for the given request
// using an already-acquired bearer token. The raw provider response is
// returned uninterpreted; the caller decides business success.
func (c *Client) InitiateSTKPush(ctx context.Context, req *domain.PaymentRequest, token string) (*provider.STKPushResponse, error) {
	timestamp := c.now().Format(timestampLayout)
	password := base64.StdEncoding.EncodeToString([]byte(
		c.config.ShortCode + c.config.Passkey + timestamp,
	))

	payload := STKPushRequest{
		BusinessShortCode: c.config.ShortCode,
		Password:          password,
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            req.Amount,
		PartyA:            req.Phone,
		PartyB:            c.config.ShortCode,
		PhoneNumber:       req.Phone,
		CallBackURL:       c.config.CallbackURL,
		AccountReference:  req.AccountReference,
		TransactionDesc:   req.TransactionDesc,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/mpesa/stkpush/v1/processrequest", c.baseURL)
	apiReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	apiReq.Header.Set("Content-Type", "application/json")
	apiReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(apiReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &provider.RequestError{Status: resp.StatusCode, Body: string(respBody)}
	}

	var response provider.STKPushResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return nil, fmt.Errorf("failed to parse STK push response: %w", err)
	}

	return &response, nil
}

// STKCallbackRequest is the provider's asynchronous result envelope.
type STKCallbackRequest struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  struct {
				Item []struct {
					Name  string      `json:"Name"`
					Value interface{} `json:"Value"`
				} `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

// ParseSTKCallback decodes a callback payload. For a success result code the
// Amount, MpesaReceiptNumber and PhoneNumber metadata items are required; a
// missing item is an error rather than a silently zeroed field.
func (c *Client) ParseSTKCallback(payload []byte) (*provider.CallbackResult, error) {
	var callback STKCallbackRequest
	if err := json.Unmarshal(payload, &callback); err != nil {
		return nil, fmt.Errorf("failed to parse callback: %w", err)
	}

	stkCallback := callback.Body.StkCallback
	if stkCallback.CheckoutRequestID == "" {
		return nil, fmt.Errorf("callback missing CheckoutRequestID")
	}

	result := &provider.CallbackResult{
		CheckoutRequestID: stkCallback.CheckoutRequestID,
		ResultCode:        stkCallback.ResultCode,
		ResultDescription: stkCallback.ResultDesc,
		Success:           stkCallback.ResultCode == 0,
	}

	if !result.Success {
		return result, nil
	}

	var haveAmount, haveReceipt, havePhone bool
	for _, item := range stkCallback.CallbackMetadata.Item {
		switch item.Name {
		case "Amount":
			if val, ok := item.Value.(float64); ok {
				result.Amount = val
				haveAmount = true
			}
		case "MpesaReceiptNumber":
			if val, ok := item.Value.(string); ok {
				result.MpesaReceiptNumber = val
				haveReceipt = true
			}
		case "PhoneNumber":
			// Daraja sends the MSISDN as a JSON number.
			switch val := item.Value.(type) {
			case float64:
				result.PhoneNumber = fmt.Sprintf("%.0f", val)
				havePhone = true
			case string:
				result.PhoneNumber = val
				havePhone = true
			}
		}
	}

	if !haveAmount || !haveReceipt || !havePhone {
		return nil, fmt.Errorf("callback %s: incomplete metadata (amount=%t receipt=%t phone=%t)",
			stkCallback.CheckoutRequestID, haveAmount, haveReceipt, havePhone)
	}

	return result, nil
}
