package events

import (
	"context"
	"sync"
)

// Publisher delivers envelopes to subscribers. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
}

// Nop discards every envelope.
type Nop struct{}

func (Nop) Publish(context.Context, Envelope) error { return nil }

// Recorder keeps published envelopes in memory.
type Recorder struct {
	mu   sync.Mutex
	sent []Envelope
}

func (r *Recorder) Publish(_ context.Context, env Envelope) error {
	r.mu.Lock()
	r.sent = append(r.sent, env)
	r.mu.Unlock()
	return nil
}

// Sent returns a copy of everything published so far.
func (r *Recorder) Sent() []Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Envelope, len(r.sent))
	copy(out, r.sent)
	return out
}
