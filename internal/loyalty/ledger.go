// Package loyalty applies point accrual and redemption to a LoyaltyProfile.
package loyalty

import (
	"errors"
	"time"

	"canteen-ordering/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrNegativeAmount is returned when a redemption or order total is below zero.
var ErrNegativeAmount = errors.New("loyalty amount must not be negative")

// Ledger computes profile deltas. It holds no state besides its clock.
type Ledger struct {
	now func() time.Time
}

// NewLedger returns a Ledger stamping profiles with now, or time.Now when nil.
func NewLedger(now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{now: now}
}

// Earned is the number of points a paid total accrues: one per whole currency unit.
func (l *Ledger) Earned(total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	return total.Floor()
}

// ApplyCheckout returns the profile after redeeming pointsRedeemed and earning on orderTotal.
// Redemption is capped to the balance so the result is never negative.
func (l *Ledger) ApplyCheckout(profile domain.LoyaltyProfile, pointsRedeemed, orderTotal decimal.Decimal) (domain.LoyaltyProfile, error) {
	if pointsRedeemed.IsNegative() || orderTotal.IsNegative() {
		return profile, ErrNegativeAmount
	}
	redeemed := decimal.Min(pointsRedeemed, profile.Points)
	if redeemed.IsNegative() {
		redeemed = decimal.Zero
	}

	next := profile
	next.Points = decimal.Max(decimal.Zero, profile.Points.Sub(redeemed).Add(l.Earned(orderTotal)))
	next.TotalOrders = profile.TotalOrders + 1
	next.UpdatedAt = l.now().UTC()
	return next, nil
}
