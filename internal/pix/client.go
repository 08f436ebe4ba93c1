package pix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/granpix/granpix-services/internal/stagesvc/apperr"
)

// Client talks to the payment provider's REST API. One retry on transport
// errors; anything else surfaces as ErrExternalFailure.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// FromEnv builds the configured provider. Without PIX_API_URL the stub is
// used, which approves everything a moment after creation.
func FromEnv() Provider {
	baseURL := os.Getenv("PIX_API_URL")
	if baseURL == "" {
		logrus.Warn("PIX_API_URL not set, using stub payment provider")
		return NewStub()
	}
	return NewClient(baseURL, os.Getenv("PIX_API_TOKEN"))
}

type createChargeRequest struct {
	Reference   string `json:"reference"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

type chargeResponse struct {
	ID        string `json:"id"`
	QRCode    string `json:"qr_code"`
	QRCodeURL string `json:"qr_code_url"`
	Status    string `json:"status"`
}

func (c *Client) CreateCharge(ctx context.Context, reference string, amount decimal.Decimal, description string) (*Charge, error) {
	body, err := json.Marshal(createChargeRequest{
		Reference:   reference,
		Amount:      amount.StringFixed(2),
		Description: description,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal charge request: %w", err)
	}

	var resp chargeResponse
	if err := c.do(ctx, http.MethodPost, "/v1/charges", body, &resp); err != nil {
		return nil, err
	}
	return &Charge{
		ProviderID: resp.ID,
		QRCode:     resp.QRCode,
		QRCodeURL:  resp.QRCodeURL,
		Status:     resp.Status,
	}, nil
}

func (c *Client) ChargeStatus(ctx context.Context, providerID string) (string, error) {
	var resp chargeResponse
	if err := c.do(ctx, http.MethodGet, "/v1/charges/"+providerID, nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("build pix request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		res, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		func() {
			defer res.Body.Close()
			if res.StatusCode >= 300 {
				lastErr = fmt.Errorf("pix provider returned %d", res.StatusCode)
				return
			}
			lastErr = json.NewDecoder(res.Body).Decode(out)
		}()
		if lastErr == nil {
			return nil
		}
	}
	logrus.WithError(lastErr).Error("pix provider request failed")
	return fmt.Errorf("%w: %v", apperr.ErrExternalFailure, lastErr)
}
