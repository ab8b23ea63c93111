package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"gym-membership-platform/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*RazorpayGateway)(nil)

// RazorpayGateway implements PaymentGateway using direct HTTP calls against
// the Razorpay REST API with basic auth.
type RazorpayGateway struct {
	keyID         string
	keySecret     string
	webhookSecret string
	baseURL       string
	client        *http.Client
}

// NewRazorpayGateway creates a new direct Razorpay gateway.
func NewRazorpayGateway(keyID, keySecret, webhookSecret string) *RazorpayGateway {
	return &RazorpayGateway{
		keyID:         keyID,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
		baseURL:       "https://api.razorpay.com/v1",
		client:        &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *RazorpayGateway) Name() string { return "razorpay" }

// razorpayOrderResponse represents the response from the order creation API
type razorpayOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// razorpayPaymentResponse represents the response from the payment fetch API
type razorpayPaymentResponse struct {
	ID      string `json:"id"`
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Method  string `json:"method"`
}

type razorpayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder implements PaymentGateway.CreateOrder.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (adapter.Order, error) {
	requestData := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}

	jsonData, err := json.Marshal(requestData)
	if err != nil {
		return adapter.Order{}, fmt.Errorf("failed to marshal request data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.baseURL+"/orders", bytes.NewBuffer(jsonData))
	if err != nil {
		return adapter.Order{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.client.Do(req)
	if err != nil {
		return adapter.Order{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return adapter.Order{}, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr razorpayError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Code != "" {
			return adapter.Order{}, fmt.Errorf("razorpay error: code %s, message: %s", apiErr.Error.Code, apiErr.Error.Description)
		}
		return adapter.Order{}, fmt.Errorf("razorpay error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var response razorpayOrderResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return adapter.Order{}, fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(body))
	}

	return adapter.Order{
		ID:       response.ID,
		Amount:   response.Amount,
		Currency: response.Currency,
		Receipt:  response.Receipt,
	}, nil
}

// FetchPayment implements PaymentGateway.FetchPayment.
func (g *RazorpayGateway) FetchPayment(ctx context.Context, paymentID string) (adapter.PaymentInfo, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", g.baseURL+"/payments/"+paymentID, nil)
	if err != nil {
		return adapter.PaymentInfo{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.client.Do(req)
	if err != nil {
		return adapter.PaymentInfo{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return adapter.PaymentInfo{}, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr razorpayError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Code != "" {
			return adapter.PaymentInfo{}, fmt.Errorf("razorpay error: code %s, message: %s", apiErr.Error.Code, apiErr.Error.Description)
		}
		return adapter.PaymentInfo{}, fmt.Errorf("razorpay error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var response razorpayPaymentResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return adapter.PaymentInfo{}, fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(body))
	}

	return adapter.PaymentInfo{
		ID:      response.ID,
		OrderID: response.OrderID,
		Status:  response.Status,
		Method:  response.Method,
	}, nil
}

// FetchPaymentsForOrder implements PaymentGateway.FetchPaymentsForOrder.
func (g *RazorpayGateway) FetchPaymentsForOrder(ctx context.Context, orderID string) ([]adapter.PaymentInfo, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", g.baseURL+"/orders/"+orderID+"/payments", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("razorpay error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Items []razorpayPaymentResponse `json:"items"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(body))
	}

	out := make([]adapter.PaymentInfo, 0, len(response.Items))
	for _, it := range response.Items {
		out = append(out, adapter.PaymentInfo{
			ID:      it.ID,
			OrderID: it.OrderID,
			Status:  it.Status,
			Method:  it.Method,
		})
	}
	return out, nil
}

// VerifyCallbackSignature checks the checkout redirect signature: HMAC-SHA256
// over "orderID|paymentID" keyed with the API key secret.
func (g *RazorpayGateway) VerifyCallbackSignature(orderID, paymentID, signature string) bool {
	return verifyHMAC([]byte(orderID+"|"+paymentID), signature, g.keySecret)
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header: HMAC-SHA256
// over the raw request body keyed with the webhook secret. The body must not
// be re-serialized before hashing.
func (g *RazorpayGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	return verifyHMAC(body, signature, g.webhookSecret)
}

func verifyHMAC(payload []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
