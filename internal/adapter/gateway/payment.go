package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/user/storefront/internal/domain"
)

// PaymentClient implements domain.PaymentGateway against an HTTP charge
// endpoint. It issues exactly one request per call: no idempotency key is
// attached and nothing is retried here, so ambiguity is reported to the
// caller instead of being papered over.
type PaymentClient struct {
	baseURL   string
	secretKey string
	client    *http.Client
	logger    *slog.Logger
}

// NewPaymentClient creates a charge client. timeout bounds the whole
// request; hitting it surfaces as domain.ErrPaymentUncertain.
func NewPaymentClient(baseURL, secretKey string, timeout time.Duration, logger *slog.Logger) *PaymentClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &PaymentClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		client:    &http.Client{Timeout: timeout},
		logger:    logger.With("component", "payment_gateway"),
	}
}

// Charge creates a one-shot charge. A 4xx from the provider means the
// charge was rejected before capture (ErrPaymentDeclined, retry-safe with a
// new source); a timeout or 5xx means the outcome is unknown
// (ErrPaymentUncertain, not retry-safe).
func (c *PaymentClient) Charge(ctx context.Context, req domain.ChargeRequest) (*domain.ChargeResult, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.Amount, 10))
	form.Set("currency", req.Currency)
	form.Set("source", req.Source)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/charges", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build charge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		// The request may or may not have reached the provider.
		c.logger.Warn("charge request did not complete", "error", err, "amount", req.Amount)
		return nil, fmt.Errorf("%w: %v", domain.ErrPaymentUncertain, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var result domain.ChargeResult
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			// The provider accepted the charge but we could not read its id.
			return nil, fmt.Errorf("%w: undecodable charge response: %v", domain.ErrPaymentUncertain, err)
		}
		return &result, nil

	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		c.logger.Info("charge declined", "status", resp.StatusCode, "amount", req.Amount)
		return nil, fmt.Errorf("%w: provider status %d", domain.ErrPaymentDeclined, resp.StatusCode)

	default:
		c.logger.Warn("ambiguous charge response", "status", resp.StatusCode, "amount", req.Amount)
		return nil, fmt.Errorf("%w: provider status %d", domain.ErrPaymentUncertain, resp.StatusCode)
	}
}
