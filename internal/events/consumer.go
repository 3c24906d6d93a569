package events

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Handler processes one envelope. Returning an error logs it; the offset is committed either way.
type Handler func(ctx context.Context, env Envelope) error

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads the orders topic as part of a consumer group.
type Consumer struct {
	r      messageReader
	logger *zap.Logger
}

// NewConsumer joins group on topic with manual commits.
func NewConsumer(brokers []string, group, topic string, logger *zap.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        group,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0,
	})
	return newConsumer(r, logger)
}

func newConsumer(r messageReader, logger *zap.Logger) *Consumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{r: r, logger: logger}
}

// Run dispatches messages to h until ctx is cancelled. Messages are handled in partition order.
func (c *Consumer) Run(ctx context.Context, h Handler) error {
	defer c.r.Close()

	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		var env Envelope
		if err := json.Unmarshal(m.Value, &env); err != nil {
			c.logger.Warn("skip malformed envelope", zap.Int64("offset", m.Offset), zap.Error(err))
		} else if err := h(ctx, env); err != nil {
			c.logger.Error("event handler failed",
				zap.String("event_type", env.EventType),
				zap.String("event_id", env.EventID),
				zap.Error(err))
		}

		if err := c.r.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("commit offset", zap.Int64("offset", m.Offset), zap.Error(err))
		}
	}
}
