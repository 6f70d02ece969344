package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypePayment    TransactionType = "payment"
	TransactionTypeRefund     TransactionType = "refund"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeFee        TransactionType = "fee"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// Transaction is an append-only ledger row. Only withdrawal rows change
// status after insert.
type Transaction struct {
	ID           int32             `json:"id"`
	UserID       int32             `json:"user_id"`
	OrderID      *int32            `json:"order_id,omitempty"`
	WithdrawalID *int32            `json:"withdrawal_id,omitempty"`
	Amount       decimal.Decimal   `json:"amount"` // negative for withdrawals
	Type         TransactionType   `json:"type"`
	Status       TransactionStatus `json:"status"`
	Description  string            `json:"description"`
	CreatedAt    time.Time         `json:"created_at"`
}

type TransactionFilter struct {
	Type   TransactionType
	Status TransactionStatus
	From   *time.Time
	To     *time.Time
}

type RevenueLine struct {
	Type  TransactionType `json:"type"`
	Total decimal.Decimal `json:"total"`
	Count int32           `json:"count"`
}

type WithdrawalStatus string

const (
	WithdrawalStatusPending   WithdrawalStatus = "pending"
	WithdrawalStatusProcessed WithdrawalStatus = "processed"
	WithdrawalStatusRejected  WithdrawalStatus = "rejected"
)

type WithdrawalRequest struct {
	ID          int32            `json:"id"`
	UserID      int32            `json:"user_id"`
	Amount      decimal.Decimal  `json:"amount"`
	Status      WithdrawalStatus `json:"status"`
	ProcessedAt *time.Time       `json:"processed_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
