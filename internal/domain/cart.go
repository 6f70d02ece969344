package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type LineType string

const (
	LineTypeBuy  LineType = "buy"
	LineTypeRent LineType = "rent"
)

func (t LineType) Valid() bool {
	return t == LineTypeBuy || t == LineTypeRent
}

// CartLine is unique per (UserID, ItemID, Type).
type CartLine struct {
	ID                  int32               `json:"id"`
	UserID              int32               `json:"user_id"`
	ItemID              int32               `json:"item_id"`
	Quantity            int32               `json:"quantity"`
	Type                LineType            `json:"type"`
	NegotiatedPrice     decimal.NullDecimal `json:"negotiated_price"`
	NegotiatedExpiresAt *time.Time          `json:"negotiated_expires_at,omitempty"`
	NegotiationID       *int32              `json:"negotiation_id,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// ActiveNegotiatedPrice returns the locked price if one is set and its hold
// has not passed at now.
func (c *CartLine) ActiveNegotiatedPrice(now time.Time) (decimal.Decimal, bool) {
	if !c.NegotiatedPrice.Valid {
		return decimal.Zero, false
	}
	if c.NegotiatedExpiresAt != nil && !now.Before(*c.NegotiatedExpiresAt) {
		return decimal.Zero, false
	}
	return c.NegotiatedPrice.Decimal, true
}
