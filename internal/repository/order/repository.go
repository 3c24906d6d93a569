package order

import (
	"context"

	"canteen-ordering/internal/domain"
	"github.com/shopspring/decimal"
)

// Summary aggregates every stored order.
type Summary struct {
	Revenue      decimal.Decimal
	Orders       int
	Customers    int
	StatusCounts map[domain.Status]int
}

// ItemSales is the quantity and revenue sold for one menu item.
type ItemSales struct {
	ItemID   string
	Name     string
	Quantity int
	Revenue  decimal.Decimal
}

type Repository interface {
	Get(ctx context.Context, id string) (*domain.Order, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Order, error)
	ListByStatus(ctx context.Context, statuses ...domain.Status) ([]domain.Order, error)
	// ListRecent returns at most limit orders, newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.Order, error)
	Summary(ctx context.Context) (Summary, error)
	// TopItems ranks items by quantity sold, ties broken by item id.
	TopItems(ctx context.Context, limit int) ([]ItemSales, error)
	// UpdateStatus moves id from from to to, failing with domain.ErrConflict when the
	// stored status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to domain.Status) (*domain.Order, error)
}
