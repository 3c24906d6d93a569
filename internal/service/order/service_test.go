package order

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"canteen-ordering/internal/domain"
	"canteen-ordering/internal/events"
	"github.com/shopspring/decimal"
)

type memoryRepo struct {
	mu     sync.Mutex
	orders map[string]domain.Order
	// getHook runs after Get reads, before the caller continues
	getHook func()
}

func newMemoryRepo(orders ...domain.Order) *memoryRepo {
	m := &memoryRepo{orders: map[string]domain.Order{}}
	for _, o := range orders {
		m.orders[o.ID] = o
	}
	return m
}

func (m *memoryRepo) Get(_ context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	o, ok := m.orders[id]
	m.mu.Unlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	if m.getHook != nil {
		m.getHook()
	}
	c := o.Clone()
	return &c, nil
}

func (m *memoryRepo) ListByEmail(_ context.Context, email string) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, o := range m.orders {
		if o.Email == email {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memoryRepo) ListByStatus(_ context.Context, statuses ...domain.Status) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, o := range m.orders {
		for _, s := range statuses {
			if o.Status == s {
				out = append(out, o)
			}
		}
	}
	return out, nil
}

func (m *memoryRepo) UpdateStatus(_ context.Context, id string, from, to domain.Status) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if o.Status != from {
		return nil, fmt.Errorf("%w: %s", domain.ErrConflict, id)
	}
	o.Status = to
	o.Version++
	m.orders[id] = o
	return &o, nil
}

var (
	staff    = domain.Actor{Role: domain.RoleStaff}
	customer = domain.Actor{Role: domain.RoleCustomer}
)

func pending(id, email string) domain.Order {
	return domain.Order{ID: id, Email: email, Status: domain.StatusPending, Total: decimal.NewFromInt(90), Version: 1}
}

func TestUpdateStatus_AdvancesAndPublishes(t *testing.T) {
	repo := newMemoryRepo(pending("ORD-1", "a@example.com"))
	rec := &events.Recorder{}
	svc := New(repo, rec, "test", nil)

	got, err := svc.UpdateStatus(context.Background(), staff, "ORD-1", domain.StatusPreparing)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if got.Status != domain.StatusPreparing || got.Version != 2 {
		t.Fatalf("unexpected order %+v", got)
	}
	sent := rec.Sent()
	if len(sent) != 1 || sent[0].EventType != events.EventOrderStatusChanged {
		t.Fatalf("expected one status event, got %+v", sent)
	}
	p, err := events.DecodePayload[events.OrderStatusChangedPayload](sent[0])
	if err != nil || p.From != "Pending" || p.To != "Preparing" || p.ChangedBy != "staff" {
		t.Fatalf("unexpected payload %+v (%v)", p, err)
	}
}

func TestUpdateStatus_Rejections(t *testing.T) {
	repo := newMemoryRepo(pending("ORD-1", "a@example.com"))
	svc := New(repo, nil, "", nil)
	ctx := context.Background()

	if _, err := svc.UpdateStatus(ctx, customer, "ORD-1", domain.StatusPreparing); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, staff, "ORD-1", domain.StatusCompleted); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, staff, "ORD-404", domain.StatusPreparing); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if repo.orders["ORD-1"].Status != domain.StatusPending {
		t.Fatalf("rejected transitions changed the order")
	}
}

func TestUpdateStatus_CompletedIsTerminal(t *testing.T) {
	o := pending("ORD-1", "a@example.com")
	o.Status = domain.StatusCompleted
	svc := New(newMemoryRepo(o), nil, "", nil)
	for _, to := range domain.Statuses() {
		if _, err := svc.UpdateStatus(context.Background(), staff, "ORD-1", to); !errors.Is(err, domain.ErrInvalidTransition) {
			t.Fatalf("Completed -> %s: expected ErrInvalidTransition, got %v", to, err)
		}
	}
}

func TestUpdateStatus_LostRaceIsConflict(t *testing.T) {
	repo := newMemoryRepo(pending("ORD-1", "a@example.com"))
	svc := New(repo, nil, "", nil)
	// another staff member moves the order between our read and our write
	repo.getHook = func() {
		repo.getHook = nil
		if _, err := repo.UpdateStatus(context.Background(), "ORD-1", domain.StatusPending, domain.StatusPreparing); err != nil {
			t.Errorf("concurrent update: %v", err)
		}
	}

	if _, err := svc.UpdateStatus(context.Background(), staff, "ORD-1", domain.StatusPreparing); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if repo.orders["ORD-1"].Version != 2 {
		t.Fatalf("expected exactly one applied transition, version=%d", repo.orders["ORD-1"].Version)
	}
}

func TestBoard_GroupsByStatus(t *testing.T) {
	a := pending("ORD-1", "a@example.com")
	b := pending("ORD-2", "b@example.com")
	b.Status = domain.StatusReady
	c := pending("ORD-3", "c@example.com")
	c.Status = domain.StatusCompleted
	svc := New(newMemoryRepo(a, b, c), nil, "", nil)

	board, err := svc.Board(context.Background(), staff)
	if err != nil {
		t.Fatalf("Board: %v", err)
	}
	if len(board[domain.StatusPending]) != 1 || len(board[domain.StatusReady]) != 1 || len(board[domain.StatusPreparing]) != 0 {
		t.Fatalf("unexpected board %+v", board)
	}
	if _, ok := board[domain.StatusCompleted]; ok {
		t.Fatalf("completed orders should not be on the default board")
	}
	if _, err := svc.Board(context.Background(), customer); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestListByEmail(t *testing.T) {
	svc := New(newMemoryRepo(pending("ORD-1", "a@example.com"), pending("ORD-2", "b@example.com")), nil, "", nil)
	got, err := svc.ListByEmail(context.Background(), " A@Example.com ")
	if err != nil || len(got) != 1 || got[0].ID != "ORD-1" {
		t.Fatalf("unexpected orders %+v (%v)", got, err)
	}
	var verr *domain.ValidationError
	if _, err := svc.ListByEmail(context.Background(), ""); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
