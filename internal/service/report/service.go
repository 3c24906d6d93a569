// Package report computes the admin dashboard from placed orders.
package report

import (
	"context"

	"canteen-ordering/internal/domain"
	orderrepo "canteen-ordering/internal/repository/order"
	"github.com/shopspring/decimal"
)

const (
	topItemLimit     = 5
	recentOrderLimit = 10
)

type orderStats interface {
	Summary(ctx context.Context) (orderrepo.Summary, error)
	TopItems(ctx context.Context, limit int) ([]orderrepo.ItemSales, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Order, error)
}

type Service struct {
	orders orderStats
}

func New(orders orderStats) *Service {
	return &Service{orders: orders}
}

type ItemStat struct {
	ItemID   string          `json:"itemId"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type Dashboard struct {
	TotalRevenue      decimal.Decimal       `json:"totalRevenue"`
	OrderCount        int                   `json:"orderCount"`
	CustomerCount     int                   `json:"customerCount"`
	AverageOrderValue decimal.Decimal       `json:"averageOrderValue"`
	StatusCounts      map[domain.Status]int `json:"statusCounts"`
	TopItems          []ItemStat            `json:"topItems"`
	RecentOrders      []domain.Order        `json:"recentOrders"`
}

// Dashboard is restricted to admins. Totals are aggregated by the store, so only
// the recent orders are loaded.
func (s *Service) Dashboard(ctx context.Context, actor domain.Actor) (*Dashboard, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	sum, err := s.orders.Summary(ctx)
	if err != nil {
		return nil, err
	}
	top, err := s.orders.TopItems(ctx, topItemLimit)
	if err != nil {
		return nil, err
	}
	recent, err := s.orders.ListRecent(ctx, recentOrderLimit)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		TotalRevenue:      sum.Revenue,
		OrderCount:        sum.Orders,
		CustomerCount:     sum.Customers,
		AverageOrderValue: decimal.Zero,
		StatusCounts:      make(map[domain.Status]int),
		TopItems:          make([]ItemStat, 0, len(top)),
		RecentOrders:      recent,
	}
	for _, st := range domain.Statuses() {
		d.StatusCounts[st] = sum.StatusCounts[st]
	}
	if d.OrderCount > 0 {
		d.AverageOrderValue = d.TotalRevenue.Div(decimal.NewFromInt(int64(d.OrderCount))).Round(2)
	}
	for _, it := range top {
		d.TopItems = append(d.TopItems, ItemStat{ItemID: it.ItemID, Name: it.Name, Quantity: it.Quantity, Revenue: it.Revenue})
	}
	return d, nil
}
