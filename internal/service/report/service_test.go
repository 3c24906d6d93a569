package report

import (
	"context"
	"errors"
	"testing"

	"canteen-ordering/internal/domain"
	orderrepo "canteen-ordering/internal/repository/order"
	"github.com/shopspring/decimal"
)

type stubOrders struct {
	summary     orderrepo.Summary
	top         []orderrepo.ItemSales
	recent      []domain.Order
	err         error
	topLimit    int
	recentLimit int
}

func (s *stubOrders) Summary(context.Context) (orderrepo.Summary, error) {
	return s.summary, s.err
}

func (s *stubOrders) TopItems(_ context.Context, limit int) ([]orderrepo.ItemSales, error) {
	s.topLimit = limit
	return s.top, nil
}

func (s *stubOrders) ListRecent(_ context.Context, limit int) ([]domain.Order, error) {
	s.recentLimit = limit
	return s.recent, nil
}

var admin = domain.Actor{Role: domain.RoleAdmin}

func TestDashboard(t *testing.T) {
	orders := &stubOrders{
		summary: orderrepo.Summary{
			Revenue:      decimal.NewFromInt(175),
			Orders:       3,
			Customers:    2,
			StatusCounts: map[domain.Status]int{domain.StatusPending: 1, domain.StatusCompleted: 2},
		},
		top: []orderrepo.ItemSales{
			{ItemID: "chai", Name: "Chai", Quantity: 12, Revenue: decimal.NewFromInt(120)},
			{ItemID: "dosa", Name: "Dosa", Quantity: 1, Revenue: decimal.NewFromInt(50)},
		},
		recent: []domain.Order{{ID: "3"}, {ID: "2"}},
	}
	d, err := New(orders).Dashboard(context.Background(), admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !d.TotalRevenue.Equal(decimal.NewFromInt(175)) || d.OrderCount != 3 || d.CustomerCount != 2 {
		t.Fatalf("unexpected totals %+v", d)
	}
	if !d.AverageOrderValue.Equal(decimal.RequireFromString("58.33")) {
		t.Fatalf("unexpected average %s", d.AverageOrderValue)
	}
	if d.StatusCounts[domain.StatusPending] != 1 || d.StatusCounts[domain.StatusPreparing] != 0 || len(d.StatusCounts) != len(domain.Statuses()) {
		t.Fatalf("unexpected status counts %v", d.StatusCounts)
	}
	if len(d.TopItems) != 2 || d.TopItems[0].ItemID != "chai" || !d.TopItems[0].Revenue.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("unexpected top items %+v", d.TopItems)
	}
	if len(d.RecentOrders) != 2 || d.RecentOrders[0].ID != "3" {
		t.Fatalf("unexpected recent orders %+v", d.RecentOrders)
	}
	if orders.topLimit != topItemLimit || orders.recentLimit != recentOrderLimit {
		t.Fatalf("expected bounded queries, got top=%d recent=%d", orders.topLimit, orders.recentLimit)
	}
}

func TestDashboard_Empty(t *testing.T) {
	d, err := New(&stubOrders{}).Dashboard(context.Background(), admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.OrderCount != 0 || !d.AverageOrderValue.IsZero() || d.TopItems == nil || len(d.TopItems) != 0 || d.StatusCounts[domain.StatusReady] != 0 {
		t.Fatalf("unexpected empty dashboard %+v", d)
	}
}

func TestDashboard_PropagatesStoreError(t *testing.T) {
	boom := errors.New("db down")
	if _, err := New(&stubOrders{err: boom}).Dashboard(context.Background(), admin); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestDashboard_AdminOnly(t *testing.T) {
	svc := New(&stubOrders{})
	if _, err := svc.Dashboard(context.Background(), domain.Actor{Role: domain.RoleStaff}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for staff, got %v", err)
	}
	if _, err := svc.Dashboard(context.Background(), admin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
