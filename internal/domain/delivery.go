package domain

import "time"

type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "pending"
	DeliveryStatusPickedUp  DeliveryStatus = "picked_up"
	DeliveryStatusInTransit DeliveryStatus = "in_transit"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusFailed    DeliveryStatus = "failed"
)

func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryStatusPending, DeliveryStatusPickedUp, DeliveryStatusInTransit,
		DeliveryStatusDelivered, DeliveryStatusFailed:
		return true
	}
	return false
}

// Delivery records one courier booking for an order. TrackingID is nil when
// the courier could not be reached at booking time.
type Delivery struct {
	ID          int32          `json:"id"`
	OrderID     int32          `json:"order_id"`
	BuyerID     int32          `json:"buyer_id"`
	FromAddress string         `json:"from_address"`
	ToAddress   string         `json:"to_address"`
	TrackingID  *string        `json:"tracking_id"`
	IsReturn    bool           `json:"is_return"`
	Status      DeliveryStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// DeliveryFilter narrows a delivery listing. Zero fields match everything.
type DeliveryFilter struct {
	OrderID int32
	BuyerID int32
}
