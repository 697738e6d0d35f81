package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrVerificationFailed = errors.New("payment verification failed")
	ErrAmountMismatch     = errors.New("paid amount does not match order total")
)

// Verifier confirms a provider reference out of band before the callback is
// trusted. expectedSubunits is the order total in the currency's minor unit.
type Verifier interface {
	VerifyTransaction(ctx context.Context, reference string, expectedSubunits int64) error
}

// PaystackClient calls the Paystack transaction-verify endpoint with the
// secret key. The inbound callback only proves someone knows a reference;
// this proves Paystack settled it for the right amount.
type PaystackClient struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

func NewPaystackClient(secretKey string) *PaystackClient {
	return &PaystackClient{
		baseURL:   "https://api.paystack.co",
		secretKey: secretKey,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type verifyResponse struct {
	Status bool   `json:"status"`
	Msg    string `json:"message"`
	Data   struct {
		Status string          `json:"status"`
		Amount decimal.Decimal `json:"amount"` // subunits (kobo)
	} `json:"data"`
}

func (p *PaystackClient) VerifyTransaction(ctx context.Context, reference string, expectedSubunits int64) error {
	endpoint := fmt.Sprintf("%s/transaction/verify/%s", p.baseURL, url.PathEscape(reference))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("verify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", ErrVerificationFailed, resp.StatusCode)
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode verify response: %w", err)
	}

	if !body.Status || body.Data.Status != "success" {
		return fmt.Errorf("%w: transaction status %q", ErrVerificationFailed, body.Data.Status)
	}

	if body.Data.Amount.IntPart() != expectedSubunits {
		return fmt.Errorf("%w: got %s subunits, want %d", ErrAmountMismatch, body.Data.Amount, expectedSubunits)
	}

	return nil
}
