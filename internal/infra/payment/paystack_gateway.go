package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"smallbiz-billing/internal/domain"
	"smallbiz-billing/internal/domain/ports/adapter"
)

// PaystackDirectGateway implements PaymentGateway using direct HTTP calls
// against the Paystack REST API. Amounts cross the wire in the currency's
// minor unit (kobo for NGN), so the adapter multiplies by 100 on the way out
// and reports minor units back on verification.
type PaystackDirectGateway struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

// NewPaystackDirectGateway creates a new direct Paystack gateway.
func NewPaystackDirectGateway(secretKey, baseURL string) *PaystackDirectGateway {
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}
	return &PaystackDirectGateway{
		secretKey: secretKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{},
	}
}

var _ adapter.PaymentGateway = (*PaystackDirectGateway)(nil)

func (g *PaystackDirectGateway) Name() string { return "paystack" }

// paystackInitializeResponse represents the response from the transaction
// initialize API.
type paystackInitializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

// paystackVerifyResponse represents the response from the transaction verify
// API.
type paystackVerifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status    string `json:"status"` // "success", "failed", "abandoned"
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"` // minor units
		Currency  string `json:"currency"`
		Metadata  struct {
			UserID string `json:"user_id"`
		} `json:"metadata"`
	} `json:"data"`
}

// Initialize implements PaymentGateway.Initialize using direct HTTP calls.
func (g *PaystackDirectGateway) Initialize(ctx context.Context, email string, amountMajor int64, currency, reference, callbackURL, userID string) (string, error) {
	if email == "" {
		return "", fmt.Errorf("%w: checkout requires a billing email", domain.ErrInvalidArgument)
	}

	requestData := map[string]interface{}{
		"email":        email,
		"amount":       amountMajor * 100,
		"currency":     currency,
		"reference":    reference,
		"callback_url": callbackURL,
		"metadata":     map[string]interface{}{"user_id": userID},
	}

	jsonData, err := json.Marshal(requestData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request data: %w", err)
	}

	url := g.baseURL + "/transaction/initialize"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.secretKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var response paystackInitializeResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(body))
	}

	if !response.Status || response.Data.AuthorizationURL == "" {
		return "", fmt.Errorf("paystack initialize error: %s", response.Message)
	}

	return response.Data.AuthorizationURL, nil
}

// Verify implements PaymentGateway.Verify using direct HTTP calls.
func (g *PaystackDirectGateway) Verify(ctx context.Context, reference string) (adapter.VerifyResult, error) {
	url := g.baseURL + "/transaction/verify/" + reference
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return adapter.VerifyResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return adapter.VerifyResult{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return adapter.VerifyResult{}, fmt.Errorf("failed to read response body: %w", err)
	}

	var response paystackVerifyResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return adapter.VerifyResult{}, fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(body))
	}

	result := adapter.VerifyResult{
		Succeeded:   response.Status && response.Data.Status == "success",
		Reference:   response.Data.Reference,
		AmountMinor: response.Data.Amount,
		Currency:    response.Data.Currency,
		UserID:      response.Data.Metadata.UserID,
	}
	return result, nil
}
