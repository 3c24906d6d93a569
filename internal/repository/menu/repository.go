package menu

import (
	"context"

	"canteen-ordering/internal/domain"
)

// ListFilter narrows List. Empty fields match everything.
type ListFilter struct {
	Category string
	Query    string
}

type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]domain.MenuItem, error)
	Get(ctx context.Context, id string) (*domain.MenuItem, error)
	Categories(ctx context.Context) ([]string, error)
	Upsert(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error)
}
