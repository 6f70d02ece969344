package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type NegotiationStatus string

const (
	NegotiationStatusPending  NegotiationStatus = "pending"
	NegotiationStatusAccepted NegotiationStatus = "accepted"
	NegotiationStatusRejected NegotiationStatus = "rejected"
)

type Negotiation struct {
	ID         int32             `json:"id"`
	ItemID     int32             `json:"item_id"`
	BuyerID    int32             `json:"buyer_id"`
	OfferPrice decimal.Decimal   `json:"offer_price"`
	Status     NegotiationStatus `json:"status"`
	ExpiresAt  *time.Time        `json:"expires_at,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}
