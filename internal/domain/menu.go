package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItem is a catalog entry. The pricing engine never mutates it.
type MenuItem struct {
	ID          string           `json:"id"`
	Category    string           `json:"category"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	Available   bool             `json:"availability"`
	Rating      *decimal.Decimal `json:"rating,omitempty"`
	ReviewCount int              `json:"reviews,omitempty"`
	CreatedAt   time.Time        `json:"createdAt,omitempty"`
}

// Review is a customer rating left on a menu item.
type Review struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"itemId"`
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"date"`
}
