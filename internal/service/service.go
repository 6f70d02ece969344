package service

import (
	"context"
	"time"

	"sharewardrobe-backend/internal/domain"
	"sharewardrobe-backend/internal/repository"

	"github.com/shopspring/decimal"
)

// Store is the repository set bound to the pool plus the unit of work used
// for multi-row changes.
type Store interface {
	repository.Repos
	repository.Transactor
}

type CartService interface {
	AddToCart(ctx context.Context, userID, itemID, quantity int32, lineType domain.LineType) (*domain.CartLine, error)
	GetCart(ctx context.Context, userID int32) ([]domain.CartLine, error)
	UpdateCartLine(ctx context.Context, userID, lineID, quantity int32) (*domain.CartLine, error)
	RemoveCartLine(ctx context.Context, userID, lineID int32) error
	ClearCart(ctx context.Context, userID int32) error
}

type OrderService interface {
	// Checkout converts the buyer's cart into an order in one transaction.
	Checkout(ctx context.Context, buyerID int32, method domain.PaymentMethod) (*domain.Order, error)
	GetOrder(ctx context.Context, requester *domain.User, orderID int32) (*domain.Order, error)
	ListOrders(ctx context.Context, buyerID int32, page, pageSize int32) ([]domain.Order, int32, error)
	UpdateOrderStatus(ctx context.Context, orderID int32, status domain.OrderStatus) (*domain.Order, error)
	RetryPendingPayments(ctx context.Context) (int, error)
}

type NegotiationService interface {
	CreateNegotiation(ctx context.Context, buyerID, itemID int32, offerPrice decimal.Decimal, expiresAt *time.Time) (*domain.Negotiation, error)
	RespondToNegotiation(ctx context.Context, ownerID, negotiationID int32, accept bool) (*domain.Negotiation, error)
	GetNegotiation(ctx context.Context, requester *domain.User, negotiationID int32) (*domain.Negotiation, error)
	ListNegotiations(ctx context.Context, buyerID int32, page, pageSize int32) ([]domain.Negotiation, int32, error)
	ExpireNegotiationHolds(ctx context.Context) (int64, error)
}

// InspectionInput carries the admin's inspection verdict. A null LateFee
// keeps the fee computed when the return was initiated.
type InspectionInput struct {
	Result       string
	RefundAmount decimal.Decimal
	LateFee      decimal.NullDecimal
}

type RentalService interface {
	InitiateReturn(ctx context.Context, requesterID, rentalID int32) (*domain.Rental, error)
	InspectReturn(ctx context.Context, rentalID int32, in InspectionInput) (*domain.Rental, error)
	GetRental(ctx context.Context, requester *domain.User, rentalID int32) (*domain.RentalDetail, error)
	ListRentals(ctx context.Context, buyerID int32, page, pageSize int32) ([]domain.RentalDetail, int32, error)
	SendDueReminders(ctx context.Context, within time.Duration) (int, error)
}

type CreateDeliveryInput struct {
	OrderID     int32
	FromAddress string
	ToAddress   string
	IsReturn    bool
}

type DeliveryService interface {
	CreateDelivery(ctx context.Context, requester *domain.User, in CreateDeliveryInput) (*domain.Delivery, error)
	ListDeliveries(ctx context.Context, requester *domain.User, orderID int32, page, pageSize int32) ([]domain.Delivery, int32, error)
	GetDelivery(ctx context.Context, requester *domain.User, id int32) (*domain.Delivery, error)
	UpdateDeliveryStatus(ctx context.Context, id int32, status domain.DeliveryStatus, trackingID *string) (*domain.Delivery, error)
}

type LedgerService interface {
	GetTransactions(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Transaction, int32, error)
	RequestWithdrawal(ctx context.Context, userID int32, amount decimal.Decimal) (*domain.WithdrawalRequest, error)
	ProcessWithdrawal(ctx context.Context, withdrawalID int32, approve bool) (*domain.WithdrawalRequest, error)
	ListWithdrawals(ctx context.Context, userID int32, page, pageSize int32) ([]domain.WithdrawalRequest, int32, error)
	ListAllWithdrawals(ctx context.Context, status domain.WithdrawalStatus, page, pageSize int32) ([]domain.WithdrawalRequest, int32, error)
}

// Notifier is the fire-and-forget notification sink.
type Notifier interface {
	Notify(ctx context.Context, userID int32, notifType domain.NotificationType, message string)
}

type NotificationService interface {
	Notifier
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type RevenueReport struct {
	From  time.Time            `json:"from"`
	To    time.Time            `json:"to"`
	Lines []domain.RevenueLine `json:"lines"`
	Total decimal.Decimal      `json:"total"`
}

type AdminService interface {
	GetConfig(ctx context.Context, key string) (*domain.AdminConfig, error)
	ListConfigs(ctx context.Context) ([]domain.AdminConfig, error)
	UpsertConfig(ctx context.Context, key, value, description string) (*domain.AdminConfig, error)
	RevenueReport(ctx context.Context, from, to time.Time) (*RevenueReport, error)
	TransactionLedger(ctx context.Context, filter domain.TransactionFilter, page, pageSize int32) ([]domain.Transaction, int32, error)
}

type EmailService interface {
	SendNotificationEmail(ctx context.Context, toEmail, toName, subject, body string) error
}
