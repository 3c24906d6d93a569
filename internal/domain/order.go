package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is the closed set of accepted payment options.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "Cash"
	PaymentCard PaymentMethod = "Card"
	PaymentUPI  PaymentMethod = "UPI"
)

// ParsePaymentMethod accepts the canonical names case-insensitively.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	for _, m := range []PaymentMethod{PaymentCash, PaymentCard, PaymentUPI} {
		if strings.EqualFold(strings.TrimSpace(s), string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

// Status is the fulfillment state of an order.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusPreparing Status = "Preparing"
	StatusReady     Status = "Ready"
	StatusCompleted Status = "Completed"
)

// Statuses lists every status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusPreparing, StatusReady, StatusCompleted}
}

// ParseStatus accepts the canonical names case-insensitively.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses() {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Customer is the identity captured at checkout.
type Customer struct {
	Name  string `json:"customerName"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Order is created once at checkout; afterwards only Status may change.
type Order struct {
	ID                  string          `json:"id"`
	CustomerName        string          `json:"customerName"`
	Email               string          `json:"email"`
	Phone               string          `json:"phone,omitempty"`
	PickupTime          string          `json:"pickupTime"`
	Items               []CartLine      `json:"items"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	Discount            decimal.Decimal `json:"discount"`
	PromoCode           string          `json:"promoCode,omitempty"`
	LoyaltyPointsUsed   decimal.Decimal `json:"loyaltyPointsUsed"`
	LoyaltyPointsEarned decimal.Decimal `json:"loyaltyPointsEarned"`
	Total               decimal.Decimal `json:"total"`
	PaymentMethod       PaymentMethod   `json:"paymentMethod"`
	Status              Status          `json:"status"`
	PlacedAt            time.Time       `json:"placedAt"`
	Version             int64           `json:"version"`
}

// Clone returns a deep copy of the order.
func (o Order) Clone() Order {
	o.Items = CloneLines(o.Items)
	return o
}
