package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"canteen-ordering/internal/db/dbtest"
	"canteen-ordering/internal/domain"
	"canteen-ordering/internal/repository/loyalty"
	"canteen-ordering/internal/repository/order"
	"github.com/shopspring/decimal"
)

func placeFunc(id string, total, redeem int64) PlaceFunc {
	return func(cur domain.LoyaltyProfile) (*domain.Order, domain.LoyaltyProfile, error) {
		o := &domain.Order{
			ID:                id,
			CustomerName:      "Kiran",
			Email:             cur.Email,
			Items:             []domain.CartLine{{Item: domain.MenuItem{ID: "poha", Price: decimal.NewFromInt(total)}, Quantity: 1}},
			Subtotal:          decimal.NewFromInt(total),
			Total:             decimal.NewFromInt(total - redeem),
			Discount:          decimal.NewFromInt(redeem),
			LoyaltyPointsUsed: decimal.NewFromInt(redeem),
			PaymentMethod:     domain.PaymentCash,
			Status:            domain.StatusPending,
			PlacedAt:          time.Now().UTC(),
			Version:           1,
		}
		next := cur
		next.Points = cur.Points.Sub(decimal.NewFromInt(redeem)).Add(decimal.NewFromInt(total - redeem))
		next.TotalOrders++
		next.UpdatedAt = time.Now().UTC()
		return o, next, nil
	}
}

func TestPostgres_CommitStoresOrderAndProfile(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)
	uow := NewPostgres(pool, nil)

	o, p, err := uow.Commit(ctx, "kiran@example.com", placeFunc("ORD-A", 100, 0))
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if o.ID != "ORD-A" || !p.Points.Equal(decimal.NewFromInt(100)) || p.Version != 1 {
		t.Fatalf("unexpected result order=%+v profile=%+v", o, p)
	}

	if _, _, err := uow.Commit(ctx, "kiran@example.com", placeFunc("ORD-B", 50, 30)); err != nil {
		t.Fatalf("second Commit: %v", err)
	}
	stored, err := loyalty.NewPostgres(pool, nil).Get(ctx, "kiran@example.com")
	if err != nil {
		t.Fatalf("Get profile: %v", err)
	}
	if !stored.Points.Equal(decimal.NewFromInt(90)) || stored.TotalOrders != 2 {
		t.Fatalf("unexpected stored profile %+v", stored)
	}
}

func TestPostgres_FailureLeavesNothing(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)
	uow := NewPostgres(pool, nil)

	if _, _, err := uow.Commit(ctx, "kiran@example.com", placeFunc("ORD-DUP", 100, 0)); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	// same order id forces the insert to fail after the profile row was locked
	if _, _, err := uow.Commit(ctx, "kiran@example.com", placeFunc("ORD-DUP", 500, 0)); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	stored, err := loyalty.NewPostgres(pool, nil).Get(ctx, "kiran@example.com")
	if err != nil {
		t.Fatalf("Get profile: %v", err)
	}
	if !stored.Points.Equal(decimal.NewFromInt(100)) || stored.TotalOrders != 1 {
		t.Fatalf("profile changed by failed checkout: %+v", stored)
	}

	boom := errors.New("boom")
	_, _, err = uow.Commit(ctx, "other@example.com", func(domain.LoyaltyProfile) (*domain.Order, domain.LoyaltyProfile, error) {
		return nil, domain.LoyaltyProfile{}, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
}

func TestPostgres_ConcurrentCheckoutsSerialize(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)
	uow := NewPostgres(pool, nil)

	if _, _, err := uow.Commit(ctx, "race@example.com", placeFunc("ORD-SEED", 100, 0)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = uow.Commit(ctx, "race@example.com", placeFunc("ORD-R"+string(rune('0'+i)), 10, 0))
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("checkout %d: %v", i, err)
		}
	}

	stored, err := loyalty.NewPostgres(pool, nil).Get(ctx, "race@example.com")
	if err != nil {
		t.Fatalf("Get profile: %v", err)
	}
	if !stored.Points.Equal(decimal.NewFromInt(150)) || stored.TotalOrders != 6 {
		t.Fatalf("lost update: %+v", stored)
	}
	orders, err := order.NewPostgres(pool, nil).ListByEmail(ctx, "race@example.com")
	if err != nil || len(orders) != 6 {
		t.Fatalf("expected 6 orders, got %d (%v)", len(orders), err)
	}
}
