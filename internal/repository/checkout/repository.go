// Package checkout persists an order and its loyalty effect as one atomic unit.
package checkout

import (
	"context"

	"canteen-ordering/internal/domain"
)

// PlaceFunc builds the order and the next loyalty profile from the locked current profile.
// It runs inside the transaction and must not perform I/O.
type PlaceFunc func(current domain.LoyaltyProfile) (*domain.Order, domain.LoyaltyProfile, error)

type UnitOfWork interface {
	// Commit either stores both the order and the profile or neither.
	Commit(ctx context.Context, email string, fn PlaceFunc) (*domain.Order, *domain.LoyaltyProfile, error)
}
