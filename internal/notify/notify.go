// Package notify reacts to order events with customer-facing notices.
package notify

import (
	"context"
	"fmt"

	"canteen-ordering/internal/domain"
	"canteen-ordering/internal/events"
	"go.uber.org/zap"
)

// Sender delivers a pickup notice. The default implementation only logs.
type Sender interface {
	Send(ctx context.Context, n Notice) error
}

type Notice struct {
	OrderID    string
	Email      string
	Name       string
	PickupTime string
	Message    string
}

type Notifier struct {
	sender Sender
	logger *zap.Logger
}

func New(sender Sender, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sender == nil {
		sender = LogSender{Logger: logger}
	}
	return &Notifier{sender: sender, logger: logger}
}

// Handle is an events.Handler. Only transitions into Ready and new orders produce a notice.
func (n *Notifier) Handle(ctx context.Context, env events.Envelope) error {
	switch env.EventType {
	case events.EventOrderPlaced:
		p, err := events.DecodePayload[events.OrderPlacedPayload](env)
		if err != nil {
			return err
		}
		return n.sender.Send(ctx, Notice{
			OrderID:    p.OrderID,
			Email:      p.Email,
			Name:       p.CustomerName,
			PickupTime: p.PickupTime,
			Message:    fmt.Sprintf("Order %s received, total %s", p.OrderID, p.Total.StringFixed(2)),
		})
	case events.EventOrderStatusChanged:
		p, err := events.DecodePayload[events.OrderStatusChangedPayload](env)
		if err != nil {
			return err
		}
		if p.To != string(domain.StatusReady) {
			n.logger.Debug("notify: status change ignored", zap.String("order_id", p.OrderID), zap.String("to", p.To))
			return nil
		}
		return n.sender.Send(ctx, Notice{
			OrderID:    p.OrderID,
			Email:      p.Email,
			Name:       p.CustomerName,
			PickupTime: p.PickupTime,
			Message:    fmt.Sprintf("Order %s is ready for pickup", p.OrderID),
		})
	default:
		n.logger.Debug("notify: unknown event type", zap.String("event_type", env.EventType))
		return nil
	}
}

// LogSender writes notices to the logger.
type LogSender struct {
	Logger *zap.Logger
}

func (s LogSender) Send(_ context.Context, n Notice) error {
	s.Logger.Info("notify: customer notice",
		zap.String("order_id", n.OrderID),
		zap.String("email", n.Email),
		zap.String("pickup_time", n.PickupTime),
		zap.String("message", n.Message))
	return nil
}
