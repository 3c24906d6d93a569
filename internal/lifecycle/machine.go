// Package lifecycle enforces the order fulfillment state machine.
package lifecycle

import (
	"fmt"

	"canteen-ordering/internal/domain"
)

var validNext = map[domain.Status]domain.Status{
	domain.StatusPending:   domain.StatusPreparing,
	domain.StatusPreparing: domain.StatusReady,
	domain.StatusReady:     domain.StatusCompleted,
}

// CanTransition reports whether from may move directly to to.
func CanTransition(from, to domain.Status) bool {
	next, ok := validNext[from]
	return ok && next == to
}

// Next returns the single successor of from, or false when from is terminal.
func Next(from domain.Status) (domain.Status, bool) {
	next, ok := validNext[from]
	return next, ok
}

// IsTerminal reports whether no transition leaves s.
func IsTerminal(s domain.Status) bool {
	_, ok := validNext[s]
	return !ok
}

// Machine applies transitions for an actor.
type Machine struct{}

// New returns a Machine.
func New() *Machine {
	return &Machine{}
}

// Transition returns a copy of o with Status set to to. Nothing else on the order changes.
func (m *Machine) Transition(o *domain.Order, to domain.Status, actor domain.Actor) (*domain.Order, error) {
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.CanManageOrders() {
		return nil, fmt.Errorf("%w: role %q cannot change order status", domain.ErrForbidden, actor.Role)
	}
	if !CanTransition(o.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, o.Status, to)
	}
	next := o.Clone()
	next.Status = to
	return &next, nil
}
