package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoyaltyProfile is the per-customer point balance, keyed by email.
type LoyaltyProfile struct {
	Email       string          `json:"email"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone,omitempty"`
	Points      decimal.Decimal `json:"loyaltyPoints"`
	TotalOrders int             `json:"totalOrders"`
	Version     int64           `json:"version"`
	UpdatedAt   time.Time       `json:"updatedAt,omitempty"`
}
