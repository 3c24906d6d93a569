package seed

import (
	"context"
	"fmt"

	"canteen-ordering/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type MenuWriter interface {
	Upsert(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error)
}

type itemSeed struct {
	ID          string
	Category    string
	Name        string
	Description string
	Price       string
	Rating      string
}

var defaultMenu = []itemSeed{
	{ID: "masala-dosa", Category: "Breakfast", Name: "Masala Dosa", Description: "Crisp rice crepe with spiced potato filling", Price: "60", Rating: "4.6"},
	{ID: "idli-sambar", Category: "Breakfast", Name: "Idli Sambar", Description: "Steamed rice cakes with lentil stew", Price: "40", Rating: "4.3"},
	{ID: "poha", Category: "Breakfast", Name: "Poha", Description: "Flattened rice with peanuts and curry leaves", Price: "35", Rating: "4.1"},
	{ID: "veg-thali", Category: "Lunch", Name: "Veg Thali", Description: "Rice, two curries, dal, roti and salad", Price: "120", Rating: "4.5"},
	{ID: "paneer-wrap", Category: "Lunch", Name: "Paneer Wrap", Description: "Grilled paneer tikka in a whole wheat wrap", Price: "90", Rating: "4.4"},
	{ID: "veg-biryani", Category: "Lunch", Name: "Veg Biryani", Description: "Basmati rice layered with vegetables and spices", Price: "110", Rating: "4.2"},
	{ID: "samosa", Category: "Snacks", Name: "Samosa", Description: "Fried pastry with spiced potato and peas", Price: "20", Rating: "4.7"},
	{ID: "vada-pav", Category: "Snacks", Name: "Vada Pav", Description: "Potato fritter in a soft bun with chutney", Price: "25", Rating: "4.5"},
	{ID: "masala-chai", Category: "Drinks", Name: "Masala Chai", Description: "Spiced milk tea", Price: "15", Rating: "4.8"},
	{ID: "cold-coffee", Category: "Drinks", Name: "Cold Coffee", Description: "Chilled coffee blended with milk", Price: "50", Rating: "4.3"},
	{ID: "sweet-lassi", Category: "Drinks", Name: "Sweet Lassi", Description: "Churned yogurt drink", Price: "40", Rating: "4.4"},
}

// DefaultMenu returns the starter canteen catalog.
func DefaultMenu() []domain.MenuItem {
	items := make([]domain.MenuItem, 0, len(defaultMenu))
	for _, s := range defaultMenu {
		rating := decimal.RequireFromString(s.Rating)
		items = append(items, domain.MenuItem{
			ID:          s.ID,
			Category:    s.Category,
			Name:        s.Name,
			Description: s.Description,
			Price:       decimal.RequireFromString(s.Price),
			Available:   true,
			Rating:      &rating,
		})
	}
	return items
}

// Apply upserts the default menu. It is idempotent.
func Apply(ctx context.Context, w MenuWriter, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := 0
	for _, item := range DefaultMenu() {
		if _, err := w.Upsert(ctx, item); err != nil {
			return n, fmt.Errorf("upsert menu item %s: %w", item.ID, err)
		}
		n++
	}
	logger.Info("seed: menu applied", zap.Int("items", n))
	return n, nil
}
