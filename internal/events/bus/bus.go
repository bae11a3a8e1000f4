// Package bus carries domain events out of the write path. Delivery is
// best-effort: a failed publish is logged and dropped, never retried.
package bus

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Message is the wire envelope for a published domain event.
type Message struct {
	Event   string          `json:"event"`
	At      time.Time       `json:"at"`
	Payload json.RawMessage `json:"payload"`
}

type Bus interface {
	Publish(ctx context.Context, msg Message) error
	StartForwarder(ctx context.Context, onMsg func(m Message)) error
	Close() error
}

// inprocBus fans messages out to local subscribers. Used in tests and in
// single-node deployments without redis.
type inprocBus struct {
	mu          sync.RWMutex
	subscribers []func(m Message)
	closed      bool
}

func NewInprocBus() Bus {
	return &inprocBus{}
}

func (b *inprocBus) Publish(_ context.Context, msg Message) error {
	b.mu.RLock()
	subs := make([]func(m Message), len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.RUnlock()
	for _, fn := range subs {
		fn(msg)
	}
	return nil
}

func (b *inprocBus) StartForwarder(_ context.Context, onMsg func(m Message)) error {
	if onMsg == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.subscribers = append(b.subscribers, onMsg)
	return nil
}

func (b *inprocBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subscribers = nil
	return nil
}
