package gateway

import (
	"context"
	"fmt"

	"sharewardrobe-backend/internal/logger"

	"github.com/google/uuid"
)

// MockPaymentGateway approves every payment. Used for local runs and demos.
type MockPaymentGateway struct {
	baseURL string
}

func NewMockPaymentGateway(baseURL string) *MockPaymentGateway {
	if baseURL == "" {
		baseURL = "https://payment.example.com"
	}
	return &MockPaymentGateway{baseURL: baseURL}
}

func (g *MockPaymentGateway) CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	logger.ExternalServiceCall("MockPayment", "CreatePayment", "orderID", req.OrderID, "amount", req.Amount.StringFixed(2))
	res := &PaymentResult{
		Success:       true,
		TransactionID: "TXN_" + uuid.New().String(),
		PaymentURL:    fmt.Sprintf("%s/pay/%d", g.baseURL, req.OrderID),
	}
	logger.ExternalServiceResult("MockPayment", "CreatePayment", nil, "transactionID", res.TransactionID)
	return res, nil
}

// MockDeliveryGateway accepts every delivery request.
type MockDeliveryGateway struct{}

func NewMockDeliveryGateway() *MockDeliveryGateway {
	return &MockDeliveryGateway{}
}

func (g *MockDeliveryGateway) RequestDelivery(ctx context.Context, req DeliveryRequest) (*DeliveryResult, error) {
	logger.ExternalServiceCall("MockDelivery", "RequestDelivery", "orderID", req.OrderID, "isReturn", req.IsReturn)
	res := &DeliveryResult{
		Success:    true,
		TrackingID: "TRK_" + uuid.New().String(),
	}
	logger.ExternalServiceResult("MockDelivery", "RequestDelivery", nil, "trackingID", res.TrackingID)
	return res, nil
}
