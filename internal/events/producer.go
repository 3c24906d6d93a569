package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("producer closed")

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer buffers envelopes and writes them to Kafka from a single goroutine.
type Producer struct {
	w      messageWriter
	inbox  chan kafka.Message
	quit   chan struct{}
	done   chan struct{}
	logger *zap.Logger

	mu      sync.Mutex
	closed  bool
	senders sync.WaitGroup
}

// NewProducer writes to topic on brokers, keyed by correlation id.
func NewProducer(brokers []string, topic string, buf int, logger *zap.Logger) *Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}
	return newProducer(w, buf, logger)
}

func newProducer(w messageWriter, buf int, logger *zap.Logger) *Producer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if buf <= 0 {
		buf = 256
	}
	return &Producer{
		w:      w,
		inbox:  make(chan kafka.Message, buf),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Start runs the write loop until Close drains the inbox.
func (p *Producer) Start() {
	go func() {
		defer close(p.done)
		for m := range p.inbox {
			if err := p.w.WriteMessages(context.Background(), m); err != nil {
				p.logger.Error("kafka write failed", zap.String("key", string(m.Key)), zap.Error(err))
			}
		}
		if err := p.w.Close(); err != nil {
			p.logger.Warn("kafka writer close", zap.Error(err))
		}
	}()
}

// Publish enqueues env. It blocks only while the buffer is full.
func (p *Producer) Publish(ctx context.Context, env Envelope) error {
	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(env.CorrelationID),
		Value: value,
		Time:  env.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(env.EventType)},
		},
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	p.senders.Add(1)
	p.mu.Unlock()
	defer p.senders.Done()

	select {
	case p.inbox <- msg:
		return nil
	case <-p.quit:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting envelopes and waits for the buffer to flush or ctx to end.
// Publishers blocked on a full buffer return ErrClosed.
func (p *Producer) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.quit)
		go func() {
			// inbox is closed only once no Publish can still send on it.
			p.senders.Wait()
			close(p.inbox)
		}()
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
