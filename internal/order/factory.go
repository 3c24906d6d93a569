// Package order assembles immutable Order snapshots at checkout.
package order

import (
	"strings"
	"time"

	"canteen-ordering/internal/domain"
	"github.com/google/uuid"
)

// Factory builds orders. Clock and id source are injectable for tests.
type Factory struct {
	now   func() time.Time
	newID func() string
}

// Option customises a Factory.
type Option func(*Factory)

// WithClock overrides the PlacedAt source.
func WithClock(now func() time.Time) Option {
	return func(f *Factory) { f.now = now }
}

// WithIDSource overrides order id generation.
func WithIDSource(next func() string) Option {
	return func(f *Factory) { f.newID = next }
}

// NewFactory returns a Factory issuing ORD-prefixed time-ordered ids.
func NewFactory(opts ...Option) *Factory {
	f := &Factory{now: time.Now, newID: NewID}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewID returns "ORD-" followed by a UUIDv7, falling back to v4 if the clock source fails.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return "ORD-" + id.String()
}

// ValidateCustomer reports every missing or malformed checkout field at once.
func ValidateCustomer(c domain.Customer, pickupTime string, method domain.PaymentMethod) error {
	verr := domain.NewValidationError()
	if strings.TrimSpace(c.Name) == "" {
		verr.Add("customerName", "required")
	}
	email := strings.TrimSpace(c.Email)
	switch {
	case email == "":
		verr.Add("email", "required")
	case !domain.ValidEmail(email):
		verr.Add("email", "invalid format")
	}
	if strings.TrimSpace(c.Phone) == "" {
		verr.Add("phone", "required")
	}
	if strings.TrimSpace(pickupTime) == "" {
		verr.Add("pickupTime", "required")
	}
	if _, err := domain.ParsePaymentMethod(string(method)); err != nil {
		verr.Add("paymentMethod", "must be one of Cash, Card, UPI")
	}
	return verr.OrNil()
}

// Build validates the input and returns a Pending order whose items share no memory with lines.
func (f *Factory) Build(customer domain.Customer, pickupTime string, lines []domain.CartLine, quote domain.PriceQuote, method domain.PaymentMethod) (*domain.Order, error) {
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}
	if err := ValidateCustomer(customer, pickupTime, method); err != nil {
		return nil, err
	}
	pm, _ := domain.ParsePaymentMethod(string(method))

	return &domain.Order{
		ID:                f.newID(),
		CustomerName:      strings.TrimSpace(customer.Name),
		Email:             NormalizeEmail(customer.Email),
		Phone:             strings.TrimSpace(customer.Phone),
		PickupTime:        strings.TrimSpace(pickupTime),
		Items:             domain.CloneLines(lines),
		Subtotal:          quote.Subtotal,
		Discount:          quote.Discount(),
		PromoCode:         quote.PromoCode,
		LoyaltyPointsUsed: quote.LoyaltyDiscount,
		Total:             quote.Total,
		PaymentMethod:     pm,
		Status:            domain.StatusPending,
		PlacedAt:          f.now().UTC(),
		Version:           1,
	}, nil
}

// NormalizeEmail is the canonical key form of an email used by orders and loyalty profiles.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
