// Package gateway defines the payment and delivery providers the order and
// rental flows call outside their database transactions.
package gateway

import (
	"context"

	"github.com/shopspring/decimal"
)

// PaymentRequest.IdempotencyKey is stable per order so the provider can
// deduplicate a repeated capture of the same order.
type PaymentRequest struct {
	OrderID        int32           `json:"order_id"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency,omitempty"`
	Description    string          `json:"description"`
	IdempotencyKey string          `json:"idempotency_key"`
}

type PaymentResult struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transaction_id,omitempty"`
	PaymentURL    string `json:"payment_url,omitempty"`
	Error         string `json:"error,omitempty"`
}

// PaymentGateway captures order payments. Implementations may fail or time
// out; callers treat any non-success as "still pending".
type PaymentGateway interface {
	CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error)
}

type DeliveryRequest struct {
	OrderID     int32  `json:"order_id"`
	FromAddress string `json:"from_address"`
	ToAddress   string `json:"to_address"`
	IsReturn    bool   `json:"is_return"`
}

type DeliveryResult struct {
	Success    bool   `json:"success"`
	TrackingID string `json:"tracking_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

// DeliveryGateway books pickups and drop-offs. Best-effort.
type DeliveryGateway interface {
	RequestDelivery(ctx context.Context, req DeliveryRequest) (*DeliveryResult, error)
}
