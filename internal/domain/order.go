package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending           OrderStatus = "pending"
	OrderStatusPaid              OrderStatus = "paid"
	OrderStatusShipped           OrderStatus = "shipped"
	OrderStatusDelivered         OrderStatus = "delivered"
	OrderStatusReturned          OrderStatus = "returned"
	OrderStatusPartiallyReturned OrderStatus = "partially_returned"
	OrderStatusCancelled         OrderStatus = "cancelled"
	OrderStatusRefunded          OrderStatus = "refunded"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusDelivered,
		OrderStatusReturned, OrderStatusPartiallyReturned, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "cod"
	PaymentMethodOnline PaymentMethod = "online"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCOD || m == PaymentMethodOnline
}

// Order totals are computed once at checkout and never recomputed.
type Order struct {
	ID                 int32           `json:"id"`
	BuyerID            int32           `json:"buyer_id"`
	Status             OrderStatus     `json:"status"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	DeliveryCharge     decimal.Decimal `json:"delivery_charge"`
	SafetyDeposit      decimal.Decimal `json:"safety_deposit"`
	DeliveryChargePaid bool            `json:"delivery_charge_paid"`
	PaymentMethod      PaymentMethod   `json:"payment_method"`
	PaymentDueAt       time.Time       `json:"payment_due_at"`
	Lines              []OrderLine     `json:"lines,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// OrderLine is a frozen snapshot of what was bought at checkout time.
type OrderLine struct {
	ID        int32           `json:"id"`
	OrderID   int32           `json:"order_id"`
	ItemID    int32           `json:"item_id"`
	Quantity  int32           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Type      LineType        `json:"type"`
	CreatedAt time.Time       `json:"created_at"`
}

func (l *OrderLine) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt32(l.Quantity))
}
