package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"smallbiz-billing/internal/config"
	"smallbiz-billing/internal/domain/ports/adapter"
)

// HTTPMailer sends transactional email through a Resend-style HTTP API using
// direct HTTP calls.
type HTTPMailer struct {
	apiKey  string
	baseURL string
	from    string
	client  *http.Client
}

func NewHTTPMailer(cfg *config.EmailConfig) *HTTPMailer {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.resend.com"
	}
	return &HTTPMailer{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		from:    cfg.From,
		client:  &http.Client{},
	}
}

var _ adapter.Mailer = (*HTTPMailer)(nil)

type sendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Send implements Mailer.Send using direct HTTP calls.
func (m *HTTPMailer) Send(ctx context.Context, to, subject, html, text string) error {
	requestData := map[string]interface{}{
		"from":    m.from,
		"to":      []string{to},
		"subject": subject,
	}
	if html != "" {
		requestData["html"] = html
	}
	if text != "" {
		requestData["text"] = text
	}

	jsonData, err := json.Marshal(requestData)
	if err != nil {
		return fmt.Errorf("failed to marshal request data: %w", err)
	}

	url := m.baseURL + "/emails"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		var sr sendResponse
		_ = json.Unmarshal(body, &sr)
		if sr.Message != "" {
			return fmt.Errorf("email provider error: status %d, message: %s", resp.StatusCode, sr.Message)
		}
		return fmt.Errorf("email provider error: status %d", resp.StatusCode)
	}
	return nil
}
