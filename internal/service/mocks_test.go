package service

import (
	"context"
	"sync"

	"sharewardrobe-backend/internal/domain"
	"sharewardrobe-backend/internal/gateway"

	"github.com/stretchr/testify/mock"
)

// MockPaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreatePayment(ctx context.Context, req gateway.PaymentRequest) (*gateway.PaymentResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.PaymentResult), args.Error(1)
}

// MockDeliveryGateway
type MockDeliveryGateway struct {
	mock.Mock
}

func (m *MockDeliveryGateway) RequestDelivery(ctx context.Context, req gateway.DeliveryRequest) (*gateway.DeliveryResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.DeliveryResult), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendNotificationEmail(ctx context.Context, toEmail, toName, subject, body string) error {
	args := m.Called(ctx, toEmail, toName, subject, body)
	return args.Error(0)
}

type sentNotification struct {
	UserID  int32
	Type    domain.NotificationType
	Message string
}

// recordingNotifier keeps every notification in memory.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (n *recordingNotifier) Notify(ctx context.Context, userID int32, notifType domain.NotificationType, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{UserID: userID, Type: notifType, Message: message})
}

func (n *recordingNotifier) to(userID int32) []sentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []sentNotification
	for _, s := range n.sent {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out
}
