package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReturnStatus string

const (
	ReturnStatusPending   ReturnStatus = "pending"
	ReturnStatusInitiated ReturnStatus = "return_initiated"
	ReturnStatusInspected ReturnStatus = "inspected"
	ReturnStatusRefunded  ReturnStatus = "refunded"
	ReturnStatusCompleted ReturnStatus = "completed"
	ReturnStatusRejected  ReturnStatus = "rejected"
)

// Rental is 1:1 with an order line of type rent.
type Rental struct {
	ID               int32           `json:"id"`
	OrderLineID      int32           `json:"order_line_id"`
	RentalStart      time.Time       `json:"rental_start"`
	RentalEnd        time.Time       `json:"rental_end"`
	ReturnStatus     ReturnStatus    `json:"return_status"`
	InspectionResult string          `json:"inspection_result,omitempty"`
	RefundAmount     decimal.Decimal `json:"refund_amount"`
	LateFee          decimal.Decimal `json:"late_fee"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// RentalDetail joins a rental with the order line and order it belongs to.
type RentalDetail struct {
	Rental
	OrderID   int32           `json:"order_id"`
	BuyerID   int32           `json:"buyer_id"`
	ItemID    int32           `json:"item_id"`
	LinePrice decimal.Decimal `json:"line_price"`
}
