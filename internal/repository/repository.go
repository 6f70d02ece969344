package repository

import (
	"context"
	"database/sql"
	"time"

	"sharewardrobe-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type UserRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	// GetByIDForUpdate locks the user row until the enclosing transaction ends.
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.User, error)
	UpdateBalance(ctx context.Context, id int32, balance decimal.Decimal) error
}

type ItemRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Item, error)
	// GetByIDForUpdate locks the item row until the enclosing transaction ends.
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.Item, error)
	// DecrementQuantity fails with a validation error instead of letting
	// quantity drop below zero.
	DecrementQuantity(ctx context.Context, id int32, by int32) error
}

type CartRepository interface {
	ListByUser(ctx context.Context, userID int32) ([]domain.CartLine, error)
	GetByKey(ctx context.Context, userID, itemID int32, lineType domain.LineType) (*domain.CartLine, error)
	Create(ctx context.Context, line *domain.CartLine) error
	UpdateQuantity(ctx context.Context, id, userID, quantity int32) (*domain.CartLine, error)
	Delete(ctx context.Context, id, userID int32) error
	ClearByUser(ctx context.Context, userID int32) error
	// UpsertNegotiated creates or overwrites the (user, item, type) line with a locked price.
	UpsertNegotiated(ctx context.Context, line *domain.CartLine) error
	ClearExpiredNegotiations(ctx context.Context, now time.Time) (int64, error)
}

type NegotiationRepository interface {
	Create(ctx context.Context, n *domain.Negotiation) error
	GetByID(ctx context.Context, id int32) (*domain.Negotiation, error)
	// GetByIDForUpdate row-locks the negotiation until the transaction ends.
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.Negotiation, error)
	UpdateStatus(ctx context.Context, id int32, status domain.NegotiationStatus) error
	ListByBuyer(ctx context.Context, buyerID int32, page, pageSize int32) ([]domain.Negotiation, int32, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	CreateLine(ctx context.Context, line *domain.OrderLine) error
	GetByID(ctx context.Context, id int32) (*domain.Order, error)
	ListLines(ctx context.Context, orderID int32) ([]domain.OrderLine, error)
	ListByBuyer(ctx context.Context, buyerID int32, page, pageSize int32) ([]domain.Order, int32, error)
	UpdatePaymentState(ctx context.Context, id int32, status domain.OrderStatus, deliveryChargePaid bool) error
	UpdateStatus(ctx context.Context, id int32, status domain.OrderStatus) error
	ListPendingOnline(ctx context.Context, now time.Time) ([]domain.Order, error)
	// ClaimPayment stamps a pending online order as having a capture in
	// flight. It reports false when the order is no longer pending or holds
	// a claim taken at or after staleBefore.
	ClaimPayment(ctx context.Context, id int32, now, staleBefore time.Time) (bool, error)
	ReleasePaymentClaim(ctx context.Context, id int32) error
	// MarkPaid moves a pending order to paid. It reports false when the
	// order was not pending.
	MarkPaid(ctx context.Context, id int32) (bool, error)
}

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetDetailByID(ctx context.Context, id int32) (*domain.RentalDetail, error)
	// GetDetailByIDForUpdate locks the rental row until the enclosing transaction ends.
	GetDetailByIDForUpdate(ctx context.Context, id int32) (*domain.RentalDetail, error)
	Update(ctx context.Context, rental *domain.Rental) error
	ListByBuyer(ctx context.Context, buyerID int32, page, pageSize int32) ([]domain.RentalDetail, int32, error)
	ListDueBetween(ctx context.Context, from, to time.Time) ([]domain.RentalDetail, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, txn *domain.Transaction) error
	ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Transaction, int32, error)
	List(ctx context.Context, filter domain.TransactionFilter, page, pageSize int32) ([]domain.Transaction, int32, error)
	UpdateStatusByWithdrawal(ctx context.Context, withdrawalID int32, status domain.TransactionStatus) error
	RevenueByType(ctx context.Context, txnType domain.TransactionType, from, to time.Time) ([]domain.RevenueLine, error)
}

type WithdrawalRepository interface {
	Create(ctx context.Context, w *domain.WithdrawalRequest) error
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.WithdrawalRequest, error)
	UpdateStatus(ctx context.Context, id int32, status domain.WithdrawalStatus, processedAt time.Time) error
	ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.WithdrawalRequest, int32, error)
	List(ctx context.Context, status domain.WithdrawalStatus, page, pageSize int32) ([]domain.WithdrawalRequest, int32, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	List(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}

type AdminConfigRepository interface {
	Get(ctx context.Context, key string) (*domain.AdminConfig, error)
	List(ctx context.Context) ([]domain.AdminConfig, error)
	Upsert(ctx context.Context, cfg *domain.AdminConfig) error
}

// Repos is the set of repositories bound to one connection or one transaction.
type DeliveryRepository interface {
	Create(ctx context.Context, d *domain.Delivery) error
	GetByID(ctx context.Context, id int32) (*domain.Delivery, error)
	List(ctx context.Context, f domain.DeliveryFilter, page, pageSize int32) ([]domain.Delivery, int32, error)
	// UpdateStatus keeps the stored tracking id when trackingID is nil.
	UpdateStatus(ctx context.Context, id int32, status domain.DeliveryStatus, trackingID *string) error
}

type Repos interface {
	Users() UserRepository
	Items() ItemRepository
	Carts() CartRepository
	Negotiations() NegotiationRepository
	Orders() OrderRepository
	Rentals() RentalRepository
	Deliveries() DeliveryRepository
	Transactions() TransactionRepository
	Withdrawals() WithdrawalRepository
	Notifications() NotificationRepository
	AdminConfigs() AdminConfigRepository
}

// Transactor runs fn inside one database transaction. The transaction commits
// when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithTx(ctx context.Context, fn func(tx Repos) error) error
}
