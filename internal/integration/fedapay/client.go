// internal/integration/fedapay/client.go
package fedapay

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
)

// Client is a thin wrapper over the FedaPay REST API. Only the operations
// the subscription checkout flow needs are implemented.
type Client struct {
	baseURL       string
	secretKey     string
	webhookSecret string
	httpClient    *http.Client
}

func NewClient(baseURL, secretKey, webhookSecret string) *Client {
	return &Client{
		baseURL:       baseURL,
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		httpClient:    &http.Client{Timeout: 15 * time.Second},
	}
}

type CreateTransactionRequest struct {
	Description string
	Amount      int64
	Currency    string
	CallbackURL string
	CustomerEmail string
	CustomerName  string
	Reference     string
}

type Transaction struct {
	ID          int64  `json:"id"`
	Reference   string `json:"reference"`
	Status      string `json:"status"`
	CheckoutURL string `json:"checkout_url"`
}

// CreateTransaction opens a checkout transaction and returns its hosted
// payment URL.
func (c *Client) CreateTransaction(ctx context.Context, req *CreateTransactionRequest) (*Transaction, error) {
	payload := map[string]interface{}{
		"description": req.Description,
		"amount":      req.Amount,
		"currency":    map[string]string{"iso": req.Currency},
		"callback_url": req.CallbackURL,
		"custom_metadata": map[string]string{
			"reference": req.Reference,
		},
		"customer": map[string]string{
			"email":     req.CustomerEmail,
			"firstname": req.CustomerName,
		},
	}

	body, err := json.Marshal(map[string]interface{}{"transaction": payload})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transaction: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/transactions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fedapay request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fedapay returned %d: %s", resp.StatusCode, raw)
	}

	var out struct {
		Transaction Transaction `json:"v1/transaction"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode fedapay response: %w", err)
	}
	return &out.Transaction, nil
}

// WebhookEvent is the payload FedaPay posts to the callback URL.
type WebhookEvent struct {
	Name   string `json:"name"`
	Entity struct {
		ID             int64   `json:"id"`
		Reference      string  `json:"reference"`
		Status         string  `json:"status"`
		Amount         float64 `json:"amount"`
		Mode           string  `json:"mode"`
		CustomMetadata struct {
			Reference string `json:"reference"`
		} `json:"custom_metadata"`
	} `json:"entity"`
}

// VerifySignature checks the X-FedaPay-Signature HMAC over the raw body.
func (c *Client) VerifySignature(body []byte, signature string) bool {
	if c.webhookSecret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ParseWebhook decodes a verified webhook body.
func ParseWebhook(body []byte) (*WebhookEvent, error) {
	var ev WebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("failed to decode webhook: %w", err)
	}
	return &ev, nil
}
