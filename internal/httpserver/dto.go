package httpserver

import (
	"canteen-ordering/internal/domain"
	cartsvc "canteen-ordering/internal/service/cart"
	"github.com/shopspring/decimal"
)

type addItemRequest struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

type updateItemRequest struct {
	Quantity *int `json:"quantity"`
	Delta    *int `json:"delta"`
}

type promoRequest struct {
	Code string `json:"code"`
}

type loyaltyRequest struct {
	Redeem bool `json:"redeem"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type cartLineResponse struct {
	domain.CartLine
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type cartResponse struct {
	SessionID string             `json:"sessionId"`
	Lines     []cartLineResponse `json:"lines"`
	ItemCount int                `json:"itemCount"`
}

type quoteResponse struct {
	Cart           cartResponse           `json:"cart"`
	Discount       domain.DiscountContext `json:"discount"`
	Quote          domain.PriceQuote      `json:"quote"`
	LoyaltyBalance decimal.Decimal        `json:"loyaltyBalance"`
}

type checkoutResponse struct {
	Order   *domain.Order          `json:"order"`
	Loyalty *domain.LoyaltyProfile `json:"loyalty"`
}

func toCartResponse(c domain.Cart) cartResponse {
	lines := make([]cartLineResponse, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, cartLineResponse{CartLine: l, LineTotal: l.LineTotal()})
	}
	return cartResponse{SessionID: c.SessionID, Lines: lines, ItemCount: c.ItemCount()}
}

func toQuoteResponse(v cartsvc.View) quoteResponse {
	return quoteResponse{
		Cart:           toCartResponse(v.Cart),
		Discount:       v.Discount,
		Quote:          v.Quote,
		LoyaltyBalance: v.Balance,
	}
}
