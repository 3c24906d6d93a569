package loyalty

import (
	"context"

	"canteen-ordering/internal/domain"
)

type Repository interface {
	// Get returns domain.ErrNotFound when the email has never checked out.
	Get(ctx context.Context, email string) (*domain.LoyaltyProfile, error)
}
