// Package checkout turns a session cart into a persisted order and loyalty update.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"canteen-ordering/internal/discount"
	"canteen-ordering/internal/domain"
	"canteen-ordering/internal/events"
	"canteen-ordering/internal/loyalty"
	"canteen-ordering/internal/order"
	"canteen-ordering/internal/pricing"
	checkoutrepo "canteen-ordering/internal/repository/checkout"
	"go.uber.org/zap"
)

const maxAttempts = 3

type cartStore interface {
	Get(ctx context.Context, sessionID string) (domain.Cart, error)
	GetDiscount(ctx context.Context, sessionID string) (domain.DiscountContext, error)
	Clear(ctx context.Context, sessionID string) error
}

type Service struct {
	carts     cartStore
	uow       checkoutrepo.UnitOfWork
	calc      *pricing.Calculator
	factory   *order.Factory
	ledger    *loyalty.Ledger
	publisher events.Publisher
	producer  string
	logger    *zap.Logger
}

// Options carries the collaborators that have sensible defaults.
type Options struct {
	Policy    *discount.Policy
	Factory   *order.Factory
	Ledger    *loyalty.Ledger
	Publisher events.Publisher
	Producer  string
	Logger    *zap.Logger
}

func New(carts cartStore, uow checkoutrepo.UnitOfWork, opts Options) *Service {
	s := &Service{
		carts:     carts,
		uow:       uow,
		calc:      pricing.New(opts.Policy),
		factory:   opts.Factory,
		ledger:    opts.Ledger,
		publisher: opts.Publisher,
		producer:  opts.Producer,
		logger:    opts.Logger,
	}
	if s.factory == nil {
		s.factory = order.NewFactory()
	}
	if s.ledger == nil {
		s.ledger = loyalty.NewLedger(nil)
	}
	if s.publisher == nil {
		s.publisher = events.Nop{}
	}
	if s.producer == "" {
		s.producer = "canteen-api"
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Input is the customer data collected at checkout.
type Input struct {
	CustomerName  string `json:"customerName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	PickupTime    string `json:"pickupTime"`
	PaymentMethod string `json:"paymentMethod"`
}

func (in Input) customer() domain.Customer {
	return domain.Customer{Name: in.CustomerName, Email: in.Email, Phone: in.Phone}
}

// PlaceOrder creates the order for sessionID. The order and the loyalty profile are
// written together or not at all; the cart is cleared only after they are.
func (s *Service) PlaceOrder(ctx context.Context, sessionID string, in Input) (*domain.Order, *domain.LoyaltyProfile, error) {
	if strings.TrimSpace(sessionID) == "" {
		verr := domain.NewValidationError()
		verr.Add("sessionId", "required")
		return nil, nil, verr
	}
	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if len(c.Lines) == 0 {
		return nil, nil, domain.ErrEmptyCart
	}
	dc, err := s.carts.GetDiscount(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	method := domain.PaymentMethod(strings.TrimSpace(in.PaymentMethod))
	if err := order.ValidateCustomer(in.customer(), in.PickupTime, method); err != nil {
		return nil, nil, err
	}
	email := order.NormalizeEmail(in.Email)
	// malformed carts fail here, before a transaction is opened
	if _, err := pricing.Subtotal(c.Lines); err != nil {
		return nil, nil, err
	}

	place := func(current domain.LoyaltyProfile) (*domain.Order, domain.LoyaltyProfile, error) {
		quote, err := s.calc.Quote(c.Lines, dc.PromoCode, dc.RedeemLoyalty, current.Points)
		if err != nil {
			return nil, current, err
		}
		o, err := s.factory.Build(in.customer(), in.PickupTime, c.Lines, quote, method)
		if err != nil {
			return nil, current, err
		}
		next, err := s.ledger.ApplyCheckout(current, quote.LoyaltyDiscount, quote.Total)
		if err != nil {
			return nil, current, err
		}
		o.LoyaltyPointsEarned = s.ledger.Earned(quote.Total)
		next.Email = email
		next.Name = o.CustomerName
		next.Phone = o.Phone
		return o, next, nil
	}

	var (
		placed  *domain.Order
		profile *domain.LoyaltyProfile
	)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		placed, profile, err = s.uow.Commit(ctx, email, place)
		if !errors.Is(err, domain.ErrConflict) {
			break
		}
		s.logger.Warn("checkout: concurrent loyalty update", zap.String("email", email), zap.Int("attempt", attempt))
	}
	if err != nil {
		return nil, nil, fmt.Errorf("checkout for %s: %w", email, err)
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		s.logger.Warn("checkout: clear cart", zap.String("session_id", sessionID), zap.String("order_id", placed.ID), zap.Error(err))
	}
	s.publish(ctx, placed)

	s.logger.Info("checkout: order placed",
		zap.String("order_id", placed.ID),
		zap.String("email", placed.Email),
		zap.String("total", placed.Total.String()),
		zap.String("points_used", placed.LoyaltyPointsUsed.String()),
		zap.String("points_earned", placed.LoyaltyPointsEarned.String()))
	return placed, profile, nil
}

func (s *Service) publish(ctx context.Context, o *domain.Order) {
	env, err := events.OrderPlaced(s.producer, o)
	if err == nil {
		err = s.publisher.Publish(ctx, env)
	}
	if err != nil {
		s.logger.Warn("checkout: publish OrderPlaced", zap.String("order_id", o.ID), zap.Error(err))
	}
}
