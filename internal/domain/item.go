package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ItemAvailability string

const (
	AvailabilitySellOnly ItemAvailability = "sell_only"
	AvailabilityRentOnly ItemAvailability = "rent_only"
	AvailabilityBoth     ItemAvailability = "both"
)

type ItemStatus string

const (
	ItemStatusPendingApproval ItemStatus = "pending_approval"
	ItemStatusAvailable       ItemStatus = "available"
	ItemStatusInWarehouse     ItemStatus = "in_warehouse"
	ItemStatusRented          ItemStatus = "rented"
	ItemStatusSold            ItemStatus = "sold"
	ItemStatusReturnedPending ItemStatus = "returned_pending"
	ItemStatusDamaged         ItemStatus = "damaged"
	ItemStatusRejected        ItemStatus = "rejected"
)

// Item is a listed garment. Quantity is the reservable stock.
type Item struct {
	ID           int32               `json:"id"`
	OwnerID      int32               `json:"owner_id"`
	Title        string              `json:"title"`
	Availability ItemAvailability    `json:"availability"`
	SellPrice    decimal.NullDecimal `json:"sell_price"`
	RentPrice    decimal.NullDecimal `json:"rent_price"`
	Quantity     int32               `json:"quantity"`
	Status       ItemStatus          `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// Supports reports whether the item can be transacted as t.
func (i *Item) Supports(t LineType) bool {
	switch t {
	case LineTypeBuy:
		return i.Availability != AvailabilityRentOnly
	case LineTypeRent:
		return i.Availability != AvailabilitySellOnly
	}
	return false
}

// CatalogPrice returns the listed price for t, which may be null.
func (i *Item) CatalogPrice(t LineType) decimal.NullDecimal {
	if t == LineTypeRent {
		return i.RentPrice
	}
	return i.SellPrice
}
