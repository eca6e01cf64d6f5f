// Package payments wraps the external payment processor. The core's only
// contract with it is creating a hosted checkout session from an amount and
// the contributor's email; reconciliation is the processor's problem.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client calls the payment processor's checkout API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *zap.Logger
}

// New builds a payments client. timeout bounds each outbound call.
func New(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		log:     logger,
	}
}

// CheckoutSession is the processor's answer: where to send the browser.
type CheckoutSession struct {
	Reference   string `json:"reference"`
	RedirectURL string `json:"redirect_url"`
}

type checkoutRequest struct {
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Email     string `json:"email"`
	Name      string `json:"name"`
}

// CreateCheckoutSession asks the processor for a hosted checkout page.
// The reference is generated here so the confirm callback can be correlated
// even if the processor's own id scheme changes.
func (c *Client) CreateCheckoutSession(ctx context.Context, amount int64, name, email string) (*CheckoutSession, error) {
	ref := uuid.NewString()

	body, err := json.Marshal(checkoutRequest{
		Reference: ref,
		Amount:    amount,
		Currency:  "BDT",
		Email:     email,
		Name:      name,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal checkout request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build checkout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("checkout call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.log.Warn("payment processor rejected checkout",
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("payment processor returned %d", resp.StatusCode)
	}

	var out struct {
		RedirectURL string `json:"redirect_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode checkout response: %w", err)
	}

	return &CheckoutSession{Reference: ref, RedirectURL: out.RedirectURL}, nil
}
