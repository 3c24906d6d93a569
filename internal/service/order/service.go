// Package order serves order reads and staff-driven status transitions.
package order

import (
	"context"
	"strings"

	"canteen-ordering/internal/domain"
	"canteen-ordering/internal/events"
	"canteen-ordering/internal/lifecycle"
	"go.uber.org/zap"
)

type orderRepo interface {
	Get(ctx context.Context, id string) (*domain.Order, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Order, error)
	ListByStatus(ctx context.Context, statuses ...domain.Status) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.Status) (*domain.Order, error)
}

type Service struct {
	orders    orderRepo
	machine   *lifecycle.Machine
	publisher events.Publisher
	producer  string
	logger    *zap.Logger
}

func New(orders orderRepo, publisher events.Publisher, producer string, logger *zap.Logger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if producer == "" {
		producer = "canteen-api"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{orders: orders, machine: lifecycle.New(), publisher: publisher, producer: producer, logger: logger}
}

// BoardStatuses are the columns of the staff view.
var BoardStatuses = []domain.Status{domain.StatusPending, domain.StatusPreparing, domain.StatusReady}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrNotFound
	}
	return s.orders.Get(ctx, id)
}

// ListByEmail returns a customer's orders, newest first.
func (s *Service) ListByEmail(ctx context.Context, email string) ([]domain.Order, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		verr := domain.NewValidationError()
		verr.Add("email", "required")
		return nil, verr
	}
	return s.orders.ListByEmail(ctx, email)
}

// Board groups active orders by status for staff. No statuses means BoardStatuses.
func (s *Service) Board(ctx context.Context, actor domain.Actor, statuses ...domain.Status) (map[domain.Status][]domain.Order, error) {
	if !actor.CanManageOrders() {
		return nil, domain.ErrForbidden
	}
	if len(statuses) == 0 {
		statuses = BoardStatuses
	}
	list, err := s.orders.ListByStatus(ctx, statuses...)
	if err != nil {
		return nil, err
	}
	board := make(map[domain.Status][]domain.Order, len(statuses))
	for _, st := range statuses {
		board[st] = []domain.Order{}
	}
	for _, o := range list {
		board[o.Status] = append(board[o.Status], o)
	}
	return board, nil
}

// UpdateStatus moves order id to to on behalf of actor. A concurrent transition of the
// same order surfaces as domain.ErrConflict.
func (s *Service) UpdateStatus(ctx context.Context, actor domain.Actor, id string, to domain.Status) (*domain.Order, error) {
	if !actor.CanManageOrders() {
		return nil, domain.ErrForbidden
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := s.machine.Transition(current, to, actor)
	if err != nil {
		return nil, err
	}
	saved, err := s.orders.UpdateStatus(ctx, current.ID, current.Status, next.Status)
	if err != nil {
		return nil, err
	}

	s.logger.Info("order: status changed",
		zap.String("order_id", saved.ID),
		zap.String("from", string(current.Status)),
		zap.String("to", string(saved.Status)),
		zap.String("actor", string(actor.Role)))

	env, err := events.OrderStatusChanged(s.producer, saved, current.Status, actor)
	if err == nil {
		err = s.publisher.Publish(ctx, env)
	}
	if err != nil {
		s.logger.Warn("order: publish OrderStatusChanged", zap.String("order_id", saved.ID), zap.Error(err))
	}
	return saved, nil
}
