package checkout

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"canteen-ordering/internal/domain"
	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
)

const featureSession = "feature-session"

type checkoutTestContext struct {
	f     *fixture
	dc    domain.DiscountContext
	lines []domain.CartLine
	order *domain.Order
	err   error
}

func (c *checkoutTestContext) reset() {
	c.f = newFixture()
	c.dc = domain.DiscountContext{}
	c.lines = nil
	c.order = nil
	c.err = nil
}

func (c *checkoutTestContext) customerHasPoints(email string, points int) error {
	c.f.uow.profiles[email] = domain.LoyaltyProfile{Email: email, Points: decimal.NewFromInt(int64(points))}
	return nil
}

func (c *checkoutTestContext) cartHolds(qty int, id string, price int) error {
	c.lines = append(c.lines, domain.CartLine{
		Item:     domain.MenuItem{ID: id, Name: id, Price: decimal.NewFromInt(int64(price)), Available: true},
		Quantity: qty,
	})
	return nil
}

func (c *checkoutTestContext) appliedPromo(code string) error {
	c.dc.PromoCode = code
	return nil
}

func (c *checkoutTestContext) redeemsPoints() error {
	c.dc.RedeemLoyalty = true
	return nil
}

func (c *checkoutTestContext) checksOut(email, method string) error {
	ctx := context.Background()
	if err := c.f.carts.Save(ctx, domain.Cart{SessionID: featureSession, Lines: c.lines}); err != nil {
		return err
	}
	if err := c.f.carts.SaveDiscount(ctx, featureSession, c.dc); err != nil {
		return err
	}
	c.order, _, c.err = c.f.svc.PlaceOrder(ctx, featureSession, Input{
		CustomerName:  "Asha",
		Email:         email,
		Phone:         "98450",
		PickupTime:    "12:30",
		PaymentMethod: method,
	})
	return nil
}

func (c *checkoutTestContext) orderTotalIs(total int) error {
	if c.err != nil {
		return fmt.Errorf("checkout failed: %w", c.err)
	}
	if !c.order.Total.Equal(decimal.NewFromInt(int64(total))) {
		return fmt.Errorf("expected total %d, got %s", total, c.order.Total)
	}
	return nil
}

func (c *checkoutTestContext) orderStatusIs(status string) error {
	if c.order == nil || string(c.order.Status) != status {
		return fmt.Errorf("expected status %s, got %+v", status, c.order)
	}
	return nil
}

func (c *checkoutTestContext) orderUsedPoints(points int) error {
	if c.order == nil || !c.order.LoyaltyPointsUsed.Equal(decimal.NewFromInt(int64(points))) {
		return fmt.Errorf("expected %d points used, got %+v", points, c.order)
	}
	return nil
}

func (c *checkoutTestContext) customerNowHasPoints(email string, points int) error {
	p := c.f.uow.profiles[email]
	if !p.Points.Equal(decimal.NewFromInt(int64(points))) {
		return fmt.Errorf("expected %d points, got %s", points, p.Points)
	}
	return nil
}

func (c *checkoutTestContext) cartIsEmpty() error {
	cart, err := c.f.carts.Get(context.Background(), featureSession)
	if err != nil {
		return err
	}
	if len(cart.Lines) != 0 {
		return fmt.Errorf("expected empty cart, got %d lines", len(cart.Lines))
	}
	return nil
}

func (c *checkoutTestContext) failsEmptyCart() error {
	if !errors.Is(c.err, domain.ErrEmptyCart) {
		return fmt.Errorf("expected ErrEmptyCart, got %v", c.err)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &checkoutTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.Step(`^customer "([^"]*)" has (\d+) loyalty points$`, tc.customerHasPoints)
	ctx.Step(`^the session cart holds (\d+) x "([^"]*)" at (\d+)$`, tc.cartHolds)
	ctx.Step(`^the session applied promo code "([^"]*)"$`, tc.appliedPromo)
	ctx.Step(`^the session redeems loyalty points$`, tc.redeemsPoints)

	ctx.Step(`^"([^"]*)" checks out paying by "([^"]*)"$`, tc.checksOut)

	ctx.Step(`^the order total is (\d+)$`, tc.orderTotalIs)
	ctx.Step(`^the order status is "([^"]*)"$`, tc.orderStatusIs)
	ctx.Step(`^the order used (\d+) loyalty points$`, tc.orderUsedPoints)
	ctx.Step(`^customer "([^"]*)" now has (\d+) loyalty points$`, tc.customerNowHasPoints)
	ctx.Step(`^the session cart is empty$`, tc.cartIsEmpty)
	ctx.Step(`^checkout fails because the cart is empty$`, tc.failsEmptyCart)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/checkout.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
