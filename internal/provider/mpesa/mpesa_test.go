package mpesa

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"payment-gateway/config"
	"payment-gateway/internal/domain"
	"payment-gateway/internal/provider"
)

func testConfig(baseURL string) config.MpesaConfig {
	return config.MpesaConfig{
		Environment:    "sandbox",
		ConsumerKey:    "test-key",
		ConsumerSecret: "test-secret",
		ShortCode:      "174379",
		Passkey:        "test-passkey",
		CallbackURL:    "https://example.com/mpesa/callback",
		BaseURL:        baseURL,
	}
}

func TestAccessToken(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/oauth/v1/generate" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			if r.URL.Query().Get("grant_type") != "client_credentials" {
				t.Errorf("unexpected grant_type: %s", r.URL.Query().Get("grant_type"))
			}
			wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("test-key:test-secret"))
			if got := r.Header.Get("Authorization"); got != wantAuth {
				t.Errorf("unexpected Authorization header: %s", got)
			}
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-123", "expires_in": "3599"})
		}))
		defer srv.Close()

		client := NewClient(testConfig(srv.URL))
		token, err := client.AccessToken(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "tok-123" {
			t.Fatalf("expected tok-123, got %q", token)
		}
	})

	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"errorMessage":"Bad Request - Invalid Credentials"}`, http.StatusBadRequest)
		}))
		defer srv.Close()

		client := NewClient(testConfig(srv.URL))
		_, err := client.AccessToken(context.Background())
		var authErr *provider.AuthError
		if !errors.As(err, &authErr) {
			t.Fatalf("expected AuthError, got %v", err)
		}
		if authErr.Status != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", authErr.Status)
		}
	})

	t.Run("empty token body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{})
		}))
		defer srv.Close()

		client := NewClient(testConfig(srv.URL))
		_, err := client.AccessToken(context.Background())
		var authErr *provider.AuthError
		if !errors.As(err, &authErr) {
			t.Fatalf("expected AuthError, got %v", err)
		}
	})
}

func TestInitiateSTKPush(t *testing.T) {
	req := &domain.PaymentRequest{
		Phone:            "254712345678",
		Amount:           100,
		AccountReference: "INV001",
		TransactionDesc:  "Test",
	}

	t.Run("builds signed payload", func(t *testing.T) {
		fixed := time.Date(2024, 3, 15, 9, 30, 5, 0, time.UTC)

		var got STKPushRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/mpesa/stkpush/v1/processrequest" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			if auth := r.Header.Get("Authorization"); auth != "Bearer tok-123" {
				t.Errorf("unexpected Authorization header: %s", auth)
			}
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("unexpected Content-Type: %s", ct)
			}
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Errorf("failed to decode push payload: %v", err)
			}
			json.NewEncoder(w).Encode(provider.STKPushResponse{
				MerchantRequestID: "mr-1",
				CheckoutRequestID: "ws_CO_123",
				ResponseCode:      "0",
				CustomerMessage:   "Success. Request accepted",
			})
		}))
		defer srv.Close()

		client := NewClient(testConfig(srv.URL))
		client.now = func() time.Time { return fixed }

		resp, err := client.InitiateSTKPush(context.Background(), req, "tok-123")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.CheckoutRequestID != "ws_CO_123" {
			t.Fatalf("expected ws_CO_123, got %q", resp.CheckoutRequestID)
		}

		if got.Timestamp != "20240315093005" {
			t.Errorf("unexpected timestamp: %s", got.Timestamp)
		}
		wantPassword := base64.StdEncoding.EncodeToString([]byte("174379" + "test-passkey" + "20240315093005"))
		if got.Password != wantPassword {
			t.Errorf("password does not match its timestamp component")
		}
		if got.TransactionType != "CustomerPayBillOnline" {
			t.Errorf("unexpected transaction type: %s", got.TransactionType)
		}
		if got.BusinessShortCode != "174379" || got.PartyB != "174379" {
			t.Errorf("short code not applied: %+v", got)
		}
		if got.PartyA != "254712345678" || got.PhoneNumber != "254712345678" {
			t.Errorf("phone not applied: %+v", got)
		}
		if got.Amount != 100 {
			t.Errorf("unexpected amount: %v", got.Amount)
		}
		if got.CallBackURL != "https://example.com/mpesa/callback" {
			t.Errorf("unexpected callback URL: %s", got.CallBackURL)
		}
		if got.AccountReference != "INV001" || got.TransactionDesc != "Test" {
			t.Errorf("reference fields not applied: %+v", got)
		}
	})

	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"errorMessage":"Invalid Access Token"}`, http.StatusUnauthorized)
		}))
		defer srv.Close()

		client := NewClient(testConfig(srv.URL))
		_, err := client.InitiateSTKPush(context.Background(), req, "stale")
		var reqErr *provider.RequestError
		if !errors.As(err, &reqErr) {
			t.Fatalf("expected RequestError, got %v", err)
		}
		if reqErr.Status != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", reqErr.Status)
		}
	})
}

func TestParseSTKCallback(t *testing.T) {
	client := NewClient(testConfig(""))

	t.Run("successful payment", func(t *testing.T) {
		payload := []byte(`{
			"Body": {
				"stkCallback": {
					"MerchantRequestID": "mr-1",
					"CheckoutRequestID": "ws_CO_123",
					"ResultCode": 0,
					"ResultDesc": "The service request is processed successfully.",
					"CallbackMetadata": {
						"Item": [
							{"Name": "Amount", "Value": 100.0},
							{"Name": "MpesaReceiptNumber", "Value": "RCP123XYZ"},
							{"Name": "TransactionDate", "Value": 20240315093015},
							{"Name": "PhoneNumber", "Value": 254712345678}
						]
					}
				}
			}
		}`)

		result, err := client.ParseSTKCallback(payload)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Success {
			t.Fatal("expected success")
		}
		if result.CheckoutRequestID != "ws_CO_123" {
			t.Errorf("unexpected checkout request ID: %s", result.CheckoutRequestID)
		}
		if result.Amount != 100 {
			t.Errorf("unexpected amount: %v", result.Amount)
		}
		if result.MpesaReceiptNumber != "RCP123XYZ" {
			t.Errorf("unexpected receipt: %s", result.MpesaReceiptNumber)
		}
		if result.PhoneNumber != "254712345678" {
			t.Errorf("unexpected phone: %s", result.PhoneNumber)
		}
	})

	t.Run("failed payment skips metadata", func(t *testing.T) {
		payload := []byte(`{
			"Body": {
				"stkCallback": {
					"MerchantRequestID": "mr-2",
					"CheckoutRequestID": "ws_CO_456",
					"ResultCode": 1032,
					"ResultDesc": "Request cancelled by user"
				}
			}
		}`)

		result, err := client.ParseSTKCallback(payload)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Success {
			t.Fatal("expected failure")
		}
		if result.ResultCode != 1032 {
			t.Errorf("unexpected result code: %d", result.ResultCode)
		}
		if result.ResultDescription != "Request cancelled by user" {
			t.Errorf("unexpected description: %s", result.ResultDescription)
		}
		if result.Amount != 0 || result.MpesaReceiptNumber != "" || result.PhoneNumber != "" {
			t.Errorf("metadata extracted for failed payment: %+v", result)
		}
	})

	t.Run("incomplete metadata is an error", func(t *testing.T) {
		payload := []byte(`{
			"Body": {
				"stkCallback": {
					"CheckoutRequestID": "ws_CO_789",
					"ResultCode": 0,
					"ResultDesc": "Success",
					"CallbackMetadata": {
						"Item": [
							{"Name": "Amount", "Value": 50.0}
						]
					}
				}
			}
		}`)

		if _, err := client.ParseSTKCallback(payload); err == nil {
			t.Fatal("expected error for incomplete metadata")
		}
	})

	t.Run("missing checkout request ID is an error", func(t *testing.T) {
		payload := []byte(`{"Body": {"stkCallback": {"ResultCode": 0}}}`)
		if _, err := client.ParseSTKCallback(payload); err == nil {
			t.Fatal("expected error for missing CheckoutRequestID")
		}
	})

	t.Run("malformed payload is an error", func(t *testing.T) {
		if _, err := client.ParseSTKCallback([]byte(`{`)); err == nil {
			t.Fatal("expected error for malformed payload")
		}
	})
}

func TestNewClientBaseURL(t *testing.T) {
	cfg := testConfig("")
	if got := NewClient(cfg).baseURL; got != sandboxBaseURL {
		t.Errorf("expected sandbox base URL, got %s", got)
	}

	cfg.Environment = "production"
	if got := NewClient(cfg).baseURL; got != productionBaseURL {
		t.Errorf("expected production base URL, got %s", got)
	}
}
