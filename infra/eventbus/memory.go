package eventbus

import (
	"context"
	"sync"

	"github.com/sgbank/account-ledger/pkg/eventbus"
)

// PublishedEvent pairs a topic with the event sent to it.
type PublishedEvent struct {
	Topic string
	Event any
}

// MemoryPublisher collects published events in memory. Used by tests and
// local runs without a broker.
type MemoryPublisher struct {
	mu        sync.Mutex
	published []PublishedEvent
}

// NewMemoryPublisher creates an empty MemoryPublisher.
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

// Publish implements eventbus.Publisher.
func (p *MemoryPublisher) Publish(ctx context.Context, topic string, event any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, PublishedEvent{Topic: topic, Event: event})
	return nil
}

// Published returns a copy of everything published so far.
func (p *MemoryPublisher) Published() []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PublishedEvent, len(p.published))
	copy(out, p.published)
	return out
}

var _ eventbus.Publisher = (*MemoryPublisher)(nil)
