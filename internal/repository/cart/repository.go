package cart

import (
	"context"

	"canteen-ordering/internal/domain"
)

// Repository holds the transient per-session cart and discount selection.
// Missing sessions read as an empty cart and a zero DiscountContext.
type Repository interface {
	Get(ctx context.Context, sessionID string) (domain.Cart, error)
	Save(ctx context.Context, cart domain.Cart) error
	GetDiscount(ctx context.Context, sessionID string) (domain.DiscountContext, error)
	SaveDiscount(ctx context.Context, sessionID string, dc domain.DiscountContext) error
	// Clear drops both the cart and the discount context.
	Clear(ctx context.Context, sessionID string) error
}
