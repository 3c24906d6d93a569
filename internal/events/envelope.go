// Package events defines order event envelopes and their Kafka transport.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"canteen-ordering/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventOrderPlaced        = "OrderPlaced"
	EventOrderStatusChanged = "OrderStatusChanged"
)

// TopicOrders carries every order event; the partition key is the order id.
const TopicOrders = "canteen.orders"

// Envelope wraps every event published on the orders topic.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type OrderPlacedPayload struct {
	OrderID       string          `json:"order_id"`
	Email         string          `json:"email"`
	CustomerName  string          `json:"customer_name"`
	PickupTime    string          `json:"pickup_time"`
	ItemCount     int             `json:"item_count"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	PointsEarned  decimal.Decimal `json:"points_earned"`
}

type OrderStatusChangedPayload struct {
	OrderID      string `json:"order_id"`
	Email        string `json:"email"`
	CustomerName string `json:"customer_name"`
	PickupTime   string `json:"pickup_time"`
	From         string `json:"from"`
	To           string `json:"to"`
	ChangedBy    string `json:"changed_by"`
}

// New wraps payload in an Envelope correlated by correlationID.
func New(eventType, producer, correlationID string, payload any) (Envelope, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		CorrelationID: correlationID,
		Payload:       b,
	}, nil
}

// OrderPlaced builds the event emitted after a successful checkout.
func OrderPlaced(producer string, o *domain.Order) (Envelope, error) {
	count := 0
	for _, l := range o.Items {
		count += l.Quantity
	}
	return New(EventOrderPlaced, producer, o.ID, OrderPlacedPayload{
		OrderID:       o.ID,
		Email:         o.Email,
		CustomerName:  o.CustomerName,
		PickupTime:    o.PickupTime,
		ItemCount:     count,
		Total:         o.Total,
		PaymentMethod: string(o.PaymentMethod),
		PointsEarned:  o.LoyaltyPointsEarned,
	})
}

// OrderStatusChanged builds the event emitted after a lifecycle transition.
func OrderStatusChanged(producer string, o *domain.Order, from domain.Status, actor domain.Actor) (Envelope, error) {
	return New(EventOrderStatusChanged, producer, o.ID, OrderStatusChangedPayload{
		OrderID:      o.ID,
		Email:        o.Email,
		CustomerName: o.CustomerName,
		PickupTime:   o.PickupTime,
		From:         string(from),
		To:           string(o.Status),
		ChangedBy:    string(actor.Role),
	})
}

// DecodePayload unmarshals the payload of env into T.
func DecodePayload[T any](env Envelope) (T, error) {
	var t T
	if err := json.Unmarshal(env.Payload, &t); err != nil {
		return t, fmt.Errorf("decode %s payload: %w", env.EventType, err)
	}
	return t, nil
}
