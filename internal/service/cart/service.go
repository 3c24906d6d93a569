package cart

import (
	"context"
	"errors"
	"strings"

	"canteen-ordering/internal/discount"
	"canteen-ordering/internal/domain"
	"canteen-ordering/internal/pricing"
	cartrepo "canteen-ordering/internal/repository/cart"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service struct {
	carts    cartrepo.Repository
	items    itemGetter
	profiles profileGetter
	calc     *pricing.Calculator
	policy   *discount.Policy
	logger   *zap.Logger
}

type itemGetter interface {
	Get(ctx context.Context, id string) (*domain.MenuItem, error)
}

type profileGetter interface {
	Get(ctx context.Context, email string) (*domain.LoyaltyProfile, error)
}

func New(carts cartrepo.Repository, items itemGetter, profiles profileGetter, policy *discount.Policy, logger *zap.Logger) *Service {
	if policy == nil {
		policy = discount.NewDefault()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		carts:    carts,
		items:    items,
		profiles: profiles,
		calc:     pricing.New(policy),
		policy:   policy,
		logger:   logger,
	}
}

// View is a cart together with its discount selection and current price.
type View struct {
	Cart     domain.Cart            `json:"cart"`
	Discount domain.DiscountContext `json:"discount"`
	Quote    domain.PriceQuote      `json:"quote"`
	Balance  decimal.Decimal        `json:"loyaltyBalance"`
}

func (s *Service) Get(ctx context.Context, sessionID string) (domain.Cart, error) {
	if err := requireSession(sessionID); err != nil {
		return domain.Cart{}, err
	}
	return s.carts.Get(ctx, sessionID)
}

// AddItem adds quantity of itemID, merging into an existing line for the same item.
func (s *Service) AddItem(ctx context.Context, sessionID, itemID string, quantity int) (domain.Cart, error) {
	if err := requireSession(sessionID); err != nil {
		return domain.Cart{}, err
	}
	if quantity < 1 {
		verr := domain.NewValidationError()
		verr.Add("quantity", "must be at least 1")
		return domain.Cart{}, verr
	}
	item, err := s.items.Get(ctx, strings.TrimSpace(itemID))
	if err != nil {
		return domain.Cart{}, err
	}
	if !item.Available {
		return domain.Cart{}, domain.ErrUnavailable
	}

	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return c, err
	}
	if i := indexOf(c.Lines, item.ID); i >= 0 {
		c.Lines[i].Quantity += quantity
	} else {
		c.Lines = append(c.Lines, domain.CartLine{Item: *item, Quantity: quantity})
	}
	if err := s.carts.Save(ctx, c); err != nil {
		return c, err
	}
	s.logger.Debug("cart: item added", zap.String("session_id", sessionID), zap.String("item_id", item.ID), zap.Int("qty", quantity))
	return c, nil
}

// ChangeQuantity adjusts a line by delta. A result below 1 removes the line.
func (s *Service) ChangeQuantity(ctx context.Context, sessionID, itemID string, delta int) (domain.Cart, error) {
	return s.mutateLine(ctx, sessionID, itemID, func(cur int) int { return cur + delta })
}

// SetQuantity replaces a line's quantity. A value below 1 removes the line.
func (s *Service) SetQuantity(ctx context.Context, sessionID, itemID string, quantity int) (domain.Cart, error) {
	return s.mutateLine(ctx, sessionID, itemID, func(int) int { return quantity })
}

// Remove drops the line for itemID if present.
func (s *Service) Remove(ctx context.Context, sessionID, itemID string) (domain.Cart, error) {
	c, err := s.mutateLine(ctx, sessionID, itemID, func(int) int { return 0 })
	if errors.Is(err, domain.ErrNotFound) {
		return s.carts.Get(ctx, sessionID)
	}
	return c, err
}

func (s *Service) mutateLine(ctx context.Context, sessionID, itemID string, next func(int) int) (domain.Cart, error) {
	if err := requireSession(sessionID); err != nil {
		return domain.Cart{}, err
	}
	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return c, err
	}
	i := indexOf(c.Lines, strings.TrimSpace(itemID))
	if i < 0 {
		return c, domain.ErrNotFound
	}
	if q := next(c.Lines[i].Quantity); q >= 1 {
		c.Lines[i].Quantity = q
	} else {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	}
	if err := s.carts.Save(ctx, c); err != nil {
		return c, err
	}
	return c, nil
}

// ApplyPromo replaces the session's promo code. An unknown code clears any previous one
// and is reported as a validation error on promoCode.
func (s *Service) ApplyPromo(ctx context.Context, sessionID, code string) (domain.DiscountContext, error) {
	if err := requireSession(sessionID); err != nil {
		return domain.DiscountContext{}, err
	}
	dc, err := s.carts.GetDiscount(ctx, sessionID)
	if err != nil {
		return dc, err
	}
	res := s.policy.Validate(code)
	dc.PromoCode = res.Code
	if err := s.carts.SaveDiscount(ctx, sessionID, dc); err != nil {
		return dc, err
	}
	if !res.Valid {
		verr := domain.NewValidationError()
		verr.Add("promoCode", "invalid promo code")
		return dc, verr
	}
	return dc, nil
}

func (s *Service) ClearPromo(ctx context.Context, sessionID string) (domain.DiscountContext, error) {
	if err := requireSession(sessionID); err != nil {
		return domain.DiscountContext{}, err
	}
	dc, err := s.carts.GetDiscount(ctx, sessionID)
	if err != nil {
		return dc, err
	}
	dc.PromoCode = ""
	return dc, s.carts.SaveDiscount(ctx, sessionID, dc)
}

func (s *Service) SetRedeemLoyalty(ctx context.Context, sessionID string, redeem bool) (domain.DiscountContext, error) {
	if err := requireSession(sessionID); err != nil {
		return domain.DiscountContext{}, err
	}
	dc, err := s.carts.GetDiscount(ctx, sessionID)
	if err != nil {
		return dc, err
	}
	dc.RedeemLoyalty = redeem
	return dc, s.carts.SaveDiscount(ctx, sessionID, dc)
}

// Quote prices the session's cart. The loyalty balance of email is used when given;
// an unknown email has a zero balance.
func (s *Service) Quote(ctx context.Context, sessionID, email string) (View, error) {
	if err := requireSession(sessionID); err != nil {
		return View{}, err
	}
	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	dc, err := s.carts.GetDiscount(ctx, sessionID)
	if err != nil {
		return View{}, err
	}

	balance := decimal.Zero
	if email = strings.TrimSpace(email); email != "" && s.profiles != nil {
		p, err := s.profiles.Get(ctx, email)
		switch {
		case err == nil:
			balance = p.Points
		case !errors.Is(err, domain.ErrNotFound):
			return View{}, err
		}
	}

	q, err := s.calc.Quote(c.Lines, dc.PromoCode, dc.RedeemLoyalty, balance)
	if err != nil {
		return View{}, err
	}
	return View{Cart: c, Discount: dc, Quote: q, Balance: balance}, nil
}

func requireSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		verr := domain.NewValidationError()
		verr.Add("sessionId", "required")
		return verr
	}
	return nil
}

func indexOf(lines []domain.CartLine, itemID string) int {
	for i, l := range lines {
		if l.Item.ID == itemID {
			return i
		}
	}
	return -1
}
