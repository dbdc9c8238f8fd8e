package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vibhu-thankii/aether-ai/internal/pkg/env"
)

const defaultRazorpayBaseURL = "https://api.razorpay.com"

// RazorpayClient talks to the payment gateway's REST API. Only order
// creation is used here; collection and confirmation stay on the gateway's
// side of the fence.
type RazorpayClient struct {
	KeyID     string
	KeySecret string
	BaseURL   string

	HTTPClient *http.Client
}

// NewRazorpayClientFromEnv builds a client from RAZORPAY_* configuration.
func NewRazorpayClientFromEnv() *RazorpayClient {
	return &RazorpayClient{
		KeyID:     strings.TrimSpace(env.GetEnv("RAZORPAY_KEY_ID", "")),
		KeySecret: strings.TrimSpace(env.GetEnv("RAZORPAY_KEY_SECRET", "")),
		BaseURL:   strings.TrimRight(env.GetEnv("RAZORPAY_API_BASE_URL", defaultRazorpayBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreateOrder creates a gateway order carrying the correlation notes.
func (c *RazorpayClient) CreateOrder(ctx context.Context, in OrderRequest) (*Order, error) {
	if strings.TrimSpace(c.KeyID) == "" || strings.TrimSpace(c.KeySecret) == "" {
		return nil, errors.New("RAZORPAY_KEY_ID/RAZORPAY_KEY_SECRET are not configured")
	}

	payload, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.KeyID, c.KeySecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("razorpay order create failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out Order
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.ID) == "" {
		return nil, errors.New("razorpay order create returned empty order id")
	}
	return &out, nil
}
