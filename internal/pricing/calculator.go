// Package pricing turns cart lines and a discount context into a PriceQuote.
package pricing

import (
	"fmt"

	"canteen-ordering/internal/discount"
	"canteen-ordering/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Calculator is stateless apart from its promo policy and safe for concurrent use.
type Calculator struct {
	policy *discount.Policy
}

// New returns a Calculator using policy for promo lookups.
func New(policy *discount.Policy) *Calculator {
	if policy == nil {
		policy = discount.NewDefault()
	}
	return &Calculator{policy: policy}
}

// Quote prices lines. An unknown promo code contributes nothing.
//
// The promo percentage and the loyalty balance both apply to the undiscounted
// subtotal rather than one after the other, so on its own redemption would be
// min(balance, subtotal). That cap is tightened to what the promo left of the
// subtotal, keeping PromoDiscount+LoyaltyDiscount <= Subtotal and
// Subtotal-PromoDiscount-LoyaltyDiscount == Total.
func (c *Calculator) Quote(lines []domain.CartLine, promoCode string, redeemLoyalty bool, pointBalance decimal.Decimal) (domain.PriceQuote, error) {
	subtotal, err := Subtotal(lines)
	if err != nil {
		return domain.PriceQuote{}, err
	}

	q := domain.PriceQuote{
		Subtotal:        subtotal,
		PromoPercent:    decimal.Zero,
		PromoDiscount:   decimal.Zero,
		LoyaltyDiscount: decimal.Zero,
	}

	if res := c.policy.Validate(promoCode); res.Valid {
		q.PromoCode = res.Code
		q.PromoPercent = res.Percentage
		q.PromoDiscount = subtotal.Mul(res.Percentage).Div(hundred).Round(2)
	}

	if redeemLoyalty && c.policy.CanRedeem(pointBalance) {
		remaining := subtotal.Sub(q.PromoDiscount)
		q.LoyaltyDiscount = decimal.Max(decimal.Zero, decimal.Min(pointBalance, remaining))
	}

	q.Total = decimal.Max(decimal.Zero, subtotal.Sub(q.PromoDiscount).Sub(q.LoyaltyDiscount))
	return q, nil
}

// Subtotal sums price times quantity, rejecting lines that break cart invariants.
func Subtotal(lines []domain.CartLine) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, l := range lines {
		if l.Quantity < 1 {
			return decimal.Zero, fmt.Errorf("%w: item %s has quantity %d", domain.ErrInvalidCart, l.Item.ID, l.Quantity)
		}
		if l.Item.Price.IsNegative() {
			return decimal.Zero, fmt.Errorf("%w: item %s has negative price %s", domain.ErrInvalidCart, l.Item.ID, l.Item.Price)
		}
		total = total.Add(l.LineTotal())
	}
	return total, nil
}
