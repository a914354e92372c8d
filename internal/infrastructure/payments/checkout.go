package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"ferreinti-backend/internal/domain"
)

// CheckoutClient talks to the hosted-checkout gateway over HTTP. A nil
// client is legal and means payments are disabled (missing config).
type CheckoutClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewCheckoutClient returns nil when the gateway is not configured.
func NewCheckoutClient(baseURL, apiKey string) *CheckoutClient {
	if baseURL == "" || apiKey == "" {
		log.Println("[PAYMENTS] Checkout API URL or key not configured. Payments disabled.")
		return nil
	}
	return &CheckoutClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type sessionResponse struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

// CreateSession opens a hosted-checkout session for the given amount.
func (c *CheckoutClient) CreateSession(ctx context.Context, req domain.CheckoutSessionRequest) (*domain.CheckoutSession, error) {
	var resp sessionResponse
	if err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", req, &resp); err != nil {
		return nil, err
	}
	return &domain.CheckoutSession{SessionID: resp.ID, URL: resp.URL}, nil
}

// SessionStatus fetches the current state of a session.
func (c *CheckoutClient) SessionStatus(ctx context.Context, sessionID string) (*domain.CheckoutStatus, error) {
	var resp sessionResponse
	path := "/v1/checkout/sessions/" + sessionID
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &domain.CheckoutStatus{
		SessionID:     resp.ID,
		Status:        resp.Status,
		PaymentStatus: resp.PaymentStatus,
	}, nil
}

// do runs one gateway call with up to 3 attempts. 4xx responses other
// than 429 are not retried; the payload will not get better.
func (c *CheckoutClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	var lastErr error
	for i := 0; i < 3; i++ {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("checkout request failed: %w", err)
			time.Sleep(time.Duration(i+1) * time.Second)
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
			if out != nil {
				if err := json.Unmarshal(respBody, out); err != nil {
					return fmt.Errorf("failed to decode response: %w", err)
				}
			}
			return nil
		}

		lastErr = fmt.Errorf("checkout error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			break
		}
		time.Sleep(time.Duration(i+1) * time.Second)
	}

	return lastErr
}
