package pricing

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineTotal is unit price times quantity.
func LineTotal(price decimal.Decimal, quantity int32) decimal.Decimal {
	return price.Mul(decimal.NewFromInt32(quantity))
}

// Percent returns pct percent of amount, rounded to cents.
func Percent(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(hundred).Round(2)
}

// DaysLate counts started days past end; zero when now is not after end.
func DaysLate(end, now time.Time) int64 {
	if !now.After(end) {
		return 0
	}
	return int64(math.Ceil(now.Sub(end).Hours() / 24))
}

// LateFee charges ratePerDay percent of price for every started late day.
// There is no cap.
func LateFee(end, now time.Time, price, ratePerDay decimal.Decimal) decimal.Decimal {
	days := DaysLate(end, now)
	if days == 0 {
		return decimal.Zero
	}
	return Percent(price.Mul(decimal.NewFromInt(days)), ratePerDay)
}

// NetRefund is the balance credit for an inspected return.
func NetRefund(refund, lateFee decimal.Decimal) decimal.Decimal {
	return refund.Sub(lateFee)
}
