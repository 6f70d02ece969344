package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"sharewardrobe-backend/internal/logger"
)

// HTTPPaymentGateway posts payment requests as JSON to a provider endpoint
// and expects a PaymentResult body back.
type HTTPPaymentGateway struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewHTTPPaymentGateway(endpoint, apiKey string, timeout time.Duration) *HTTPPaymentGateway {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPPaymentGateway{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

func (g *HTTPPaymentGateway) CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	logger.ExternalServiceCall("PaymentProvider", "CreatePayment", "orderID", req.OrderID, "amount", req.Amount.StringFixed(2))

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if req.IdempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)
	}
	if g.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		logger.ExternalServiceResult("PaymentProvider", "CreatePayment", err, "orderID", req.OrderID)
		return nil, fmt.Errorf("payment provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		err := fmt.Errorf("payment provider returned status %d", resp.StatusCode)
		logger.ExternalServiceResult("PaymentProvider", "CreatePayment", err, "orderID", req.OrderID)
		return nil, err
	}

	var result PaymentResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode payment provider response: %w", err)
	}
	logger.ExternalServiceResult("PaymentProvider", "CreatePayment", nil, "orderID", req.OrderID, "success", result.Success)
	return &result, nil
}
