package review

import (
	"context"

	"canteen-ordering/internal/domain"
	"github.com/shopspring/decimal"
)

// Stats aggregates the reviews of one item.
type Stats struct {
	Average decimal.Decimal
	Count   int
}

type Repository interface {
	Create(ctx context.Context, r domain.Review) (*domain.Review, error)
	ListByItem(ctx context.Context, itemID string) ([]domain.Review, error)
	Stats(ctx context.Context, itemID string) (Stats, error)
}
