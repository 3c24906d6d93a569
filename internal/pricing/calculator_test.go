package pricing

import (
	"errors"
	"testing"

	"canteen-ordering/internal/discount"
	"canteen-ordering/internal/domain"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(id, price string, qty int) domain.CartLine {
	return domain.CartLine{Item: domain.MenuItem{ID: id, Price: dec(price), Available: true}, Quantity: qty}
}

func assertDec(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("%s: expected %s, got %s", name, want, got)
	}
}

func TestQuote_PromoOnly(t *testing.T) {
	calc := New(discount.NewDefault())
	q, err := calc.Quote([]domain.CartLine{line("dosa", "100", 2)}, "WELCOME10", false, decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDec(t, "subtotal", q.Subtotal, "200")
	assertDec(t, "promo", q.PromoDiscount, "20")
	assertDec(t, "loyalty", q.LoyaltyDiscount, "0")
	assertDec(t, "total", q.Total, "180")
	if q.PromoCode != "WELCOME10" {
		t.Fatalf("expected canonical promo code, got %q", q.PromoCode)
	}
}

func TestQuote_LoyaltyCoversSubtotal(t *testing.T) {
	calc := New(nil)
	q, err := calc.Quote([]domain.CartLine{line("dosa", "100", 2)}, "", true, dec("250"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDec(t, "loyalty", q.LoyaltyDiscount, "200")
	assertDec(t, "total", q.Total, "0")
}

func TestQuote_PromoAndLoyaltyBothUseSubtotal(t *testing.T) {
	calc := New(discount.NewDefault())
	q, err := calc.Quote([]domain.CartLine{line("dosa", "100", 2)}, "WELCOME10", true, dec("250"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDec(t, "promo", q.PromoDiscount, "20")
	assertDec(t, "loyalty", q.LoyaltyDiscount, "180")
	assertDec(t, "total", q.Total, "0")
	if !q.Subtotal.Sub(q.PromoDiscount).Sub(q.LoyaltyDiscount).Equal(q.Total) {
		t.Fatalf("discounts do not reconcile: %+v", q)
	}
}

func TestQuote_LoyaltyPartial(t *testing.T) {
	calc := New(nil)
	q, err := calc.Quote([]domain.CartLine{line("tea", "15", 4)}, "", true, dec("25"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDec(t, "loyalty", q.LoyaltyDiscount, "25")
	assertDec(t, "total", q.Total, "35")
}

func TestQuote_RedeemWithZeroBalanceIsNoop(t *testing.T) {
	calc := New(nil)
	q, err := calc.Quote([]domain.CartLine{line("tea", "15", 1)}, "", true, decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDec(t, "loyalty", q.LoyaltyDiscount, "0")
	assertDec(t, "total", q.Total, "15")
}

func TestQuote_LoyaltyIgnoredWhenNotRequested(t *testing.T) {
	calc := New(nil)
	q, err := calc.Quote([]domain.CartLine{line("tea", "15", 1)}, "", false, dec("500"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDec(t, "loyalty", q.LoyaltyDiscount, "0")
}

func TestQuote_PromoAndLoyaltyCombineWithoutOvershoot(t *testing.T) {
	calc := New(nil)
	q, err := calc.Quote([]domain.CartLine{line("thali", "100", 2)}, "FRIEND20", true, dec("1000"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDec(t, "promo", q.PromoDiscount, "40")
	assertDec(t, "loyalty", q.LoyaltyDiscount, "160")
	assertDec(t, "total", q.Total, "0")
	if q.Discount().GreaterThan(q.Subtotal) {
		t.Fatalf("discount %s exceeds subtotal %s", q.Discount(), q.Subtotal)
	}
}

func TestQuote_PromoAppliesToFullSubtotal(t *testing.T) {
	calc := New(nil)
	// promo is computed on the subtotal, not on the post-loyalty amount
	q, err := calc.Quote([]domain.CartLine{line("thali", "100", 2)}, "WELCOME10", true, dec("50"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDec(t, "promo", q.PromoDiscount, "20")
	assertDec(t, "loyalty", q.LoyaltyDiscount, "50")
	assertDec(t, "total", q.Total, "130")
}

func TestQuote_InvalidPromoIsNoop(t *testing.T) {
	calc := New(nil)
	for _, code := range []string{"BOGUS", "welcome", "FRIEND2"} {
		q, err := calc.Quote([]domain.CartLine{line("tea", "10", 3)}, code, false, decimal.Zero)
		if err != nil {
			t.Fatalf("code %q: unexpected error: %v", code, err)
		}
		assertDec(t, "promo", q.PromoDiscount, "0")
		assertDec(t, "total", q.Total, "30")
		if q.PromoCode != "" {
			t.Fatalf("code %q: expected no applied promo, got %q", code, q.PromoCode)
		}
	}
}

func TestQuote_CaseInsensitivePromoIdentical(t *testing.T) {
	calc := New(nil)
	lines := []domain.CartLine{line("tea", "12.50", 3)}
	a, _ := calc.Quote(lines, "welcome10", false, decimal.Zero)
	b, _ := calc.Quote(lines, "WELCOME10", false, decimal.Zero)
	if !a.Total.Equal(b.Total) || !a.PromoDiscount.Equal(b.PromoDiscount) || a.PromoCode != b.PromoCode {
		t.Fatalf("expected identical quotes, got %+v and %+v", a, b)
	}
}

func TestQuote_PromoRoundsToCents(t *testing.T) {
	calc := New(nil)
	q, err := calc.Quote([]domain.CartLine{line("samosa", "19.99", 1)}, "STUDENT15", false, decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDec(t, "promo", q.PromoDiscount, "3")
	assertDec(t, "total", q.Total, "16.99")
}

func TestQuote_Deterministic(t *testing.T) {
	calc := New(nil)
	lines := []domain.CartLine{line("a", "33.33", 3), line("b", "7.25", 2)}
	first, err := calc.Quote(lines, "STUDENT15", true, dec("12"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, _ := calc.Quote(lines, "STUDENT15", true, dec("12"))
		if again.Total.String() != first.Total.String() ||
			again.Subtotal.String() != first.Subtotal.String() ||
			again.PromoDiscount.String() != first.PromoDiscount.String() ||
			again.LoyaltyDiscount.String() != first.LoyaltyDiscount.String() {
			t.Fatalf("quote changed between calls: %+v vs %+v", first, again)
		}
	}
}

func TestQuote_InvariantsHoldAcrossInputs(t *testing.T) {
	calc := New(nil)
	carts := [][]domain.CartLine{
		nil,
		{line("a", "0", 1)},
		{line("a", "5", 1)},
		{line("a", "99.99", 7), line("b", "0.01", 1)},
	}
	codes := []string{"", "WELCOME10", "student15", "FRIEND20", "nope"}
	balances := []string{"0", "1", "50", "10000"}
	for _, cart := range carts {
		for _, code := range codes {
			for _, bal := range balances {
				for _, redeem := range []bool{false, true} {
					q, err := calc.Quote(cart, code, redeem, dec(bal))
					if err != nil {
						t.Fatalf("unexpected error: %v", err)
					}
					expected := decimal.Max(decimal.Zero, q.Subtotal.Sub(q.PromoDiscount).Sub(q.LoyaltyDiscount))
					if !q.Total.Equal(expected) || q.Total.IsNegative() {
						t.Fatalf("total invariant broken: %+v", q)
					}
					if q.LoyaltyDiscount.GreaterThan(decimal.Min(dec(bal), q.Subtotal)) {
						t.Fatalf("loyalty discount exceeds cap: %+v", q)
					}
					if q.Discount().GreaterThan(q.Subtotal) {
						t.Fatalf("discount exceeds subtotal: %+v", q)
					}
					if !q.Subtotal.Sub(q.Discount()).Equal(q.Total) {
						t.Fatalf("subtotal - discount != total: %+v", q)
					}
				}
			}
		}
	}
}

func TestQuote_RejectsInvalidLines(t *testing.T) {
	calc := New(nil)
	if _, err := calc.Quote([]domain.CartLine{line("a", "10", 0)}, "", false, decimal.Zero); !errors.Is(err, domain.ErrInvalidCart) {
		t.Fatalf("expected ErrInvalidCart for zero qty, got %v", err)
	}
	if _, err := calc.Quote([]domain.CartLine{line("a", "-1", 1)}, "", false, decimal.Zero); !errors.Is(err, domain.ErrInvalidCart) {
		t.Fatalf("expected ErrInvalidCart for negative price, got %v", err)
	}
}
