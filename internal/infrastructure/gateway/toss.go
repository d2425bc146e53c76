package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"kabb-server/internal/domain"
)

// tossClient talks to the Toss Payments confirm API. The secret key goes in a
// Basic auth header with an empty password, per the Toss contract.
type tossClient struct {
	baseURL   string
	authToken string
	client    *http.Client
}

func NewTossClient(baseURL, secretKey string, timeout time.Duration) PaymentGateway {
	return &tossClient{
		baseURL:   baseURL,
		authToken: base64.StdEncoding.EncodeToString([]byte(secretKey + ":")),
		client:    &http.Client{Timeout: timeout},
	}
}

type confirmRequest struct {
	PaymentKey string `json:"paymentKey"`
	OrderID    string `json:"orderId"`
	Amount     string `json:"amount"`
}

func (c *tossClient) Confirm(ctx context.Context, paymentKey, orderNumber string, amount decimal.Decimal) (*ConfirmResult, error) {
	body, err := json.Marshal(confirmRequest{
		PaymentKey: paymentKey,
		OrderID:    orderNumber,
		Amount:     amount.StringFixed(2),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/payments/confirm", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Basic "+c.authToken)
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *tossClient) Lookup(ctx context.Context, orderNumber string) (*ConfirmResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/payments/orders/"+orderNumber, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Basic "+c.authToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	return decodeResult(resp)
}

func (c *tossClient) do(req *http.Request) (*ConfirmResult, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		// network error or timeout; no gateway decision exists
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: gateway returned %d", domain.ErrGatewayUnavailable, resp.StatusCode)
	}
	return decodeResult(resp)
}

func decodeResult(resp *http.Response) (*ConfirmResult, error) {
	var result ConfirmResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: malformed gateway response: %v", domain.ErrGatewayUnavailable, err)
	}
	if result.Status == "" {
		return nil, fmt.Errorf("%w: gateway response missing status", domain.ErrGatewayUnavailable)
	}
	return &result, nil
}
