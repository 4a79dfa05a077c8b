// Package gateway is the client for the hosted-payment provider. It creates
// payment sessions (hosted links the customer pays through out-of-band) and
// verifies transaction status by reference.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusSuccessful = "successful"
	StatusFailed     = "failed"
	StatusPending    = "pending"
)

type Client struct {
	BaseURL   string
	SecretKey string
	HTTP      *http.Client
}

func NewClient(baseURL, secretKey string) *Client {
	return &Client{
		BaseURL:   baseURL,
		SecretKey: secretKey,
		HTTP:      &http.Client{Timeout: 15 * time.Second},
	}
}

type PaymentRequest struct {
	TxRef          string          `json:"tx_ref"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	PaymentOptions string          `json:"payment_options"`
	RedirectURL    string          `json:"redirect_url"`
	Customer       Customer        `json:"customer"`
	Meta           Meta            `json:"meta"`
}

type Customer struct {
	Email string `json:"email"`
}

type Meta struct {
	OrderID int `json:"order_id"`
}

type paymentResp struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Link string `json:"link"`
	} `json:"data"`
}

type transactionResp struct {
	Status string `json:"status"`
	Data   []struct {
		Status string `json:"status"`
	} `json:"data"`
}

// CreatePayment opens a payment session and returns the hosted link the
// customer completes the payment through.
func (c *Client) CreatePayment(ctx context.Context, p PaymentRequest) (string, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/payments", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out paymentResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Status != "success" {
		return "", fmt.Errorf("gateway payment init failed: %s", out.Message)
	}
	if out.Data.Link == "" {
		return "", fmt.Errorf("gateway payment init returned no link")
	}

	return out.Data.Link, nil
}

// VerifyTransaction returns the gateway's current status for a tx_ref:
// successful, failed or pending. An unknown reference reports pending so
// callers keep the local state unchanged.
func (c *Client) VerifyTransaction(ctx context.Context, txRef string) (string, error) {
	u := c.BaseURL + "/transactions?tx_ref=" + url.QueryEscape(txRef)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out transactionResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Status != "success" || len(out.Data) == 0 {
		return StatusPending, nil
	}

	return out.Data[0].Status, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return &http.Client{Timeout: 15 * time.Second}
}
