package domain

import "github.com/shopspring/decimal"

// CartLine is a menu item snapshot taken at add-to-cart time plus a quantity.
type CartLine struct {
	Item     MenuItem `json:"item"`
	Quantity int      `json:"qty"`
}

// LineTotal is the unit price times the quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the ordered set of lines for one session, at most one line per item id.
type Cart struct {
	SessionID string     `json:"sessionId"`
	Lines     []CartLine `json:"lines"`
}

// ItemCount sums the quantities of all lines.
func (c Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// CloneLines deep-copies lines so the result shares no memory with the input.
func CloneLines(lines []CartLine) []CartLine {
	if lines == nil {
		return nil
	}
	out := make([]CartLine, len(lines))
	for i, l := range lines {
		out[i] = l
		if l.Item.Rating != nil {
			r := *l.Item.Rating
			out[i].Item.Rating = &r
		}
	}
	return out
}

// DiscountContext is the transient discount selection of a session.
type DiscountContext struct {
	PromoCode     string `json:"promoCode,omitempty"`
	RedeemLoyalty bool   `json:"redeemLoyalty"`
}

// PriceQuote is derived from a cart and discount context and never persisted.
type PriceQuote struct {
	Subtotal        decimal.Decimal `json:"subtotal"`
	PromoCode       string          `json:"promoCode,omitempty"`
	PromoPercent    decimal.Decimal `json:"promoPercent"`
	PromoDiscount   decimal.Decimal `json:"promoDiscount"`
	LoyaltyDiscount decimal.Decimal `json:"loyaltyDiscount"`
	Total           decimal.Decimal `json:"total"`
}

// Discount is the combined promo and loyalty reduction.
func (q PriceQuote) Discount() decimal.Decimal {
	return q.PromoDiscount.Add(q.LoyaltyDiscount)
}
