// Package events is the publish-only audit side channel handlers use to
// announce completed state changes.
package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/persona_ledger/internal/core/domain"
)

// Event is a completed state change.
type Event interface {
	EventName() string
	Actor() domain.PersonaID
	OccurredAt() time.Time
}

// Publisher announces events. Publishing never fails from the caller's
// point of view and there may be no subscriber at all.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Subscriber receives published events.
type Subscriber interface {
	HandleEvent(ctx context.Context, event Event) error
}

// SubscriberFunc adapts a function to Subscriber.
type SubscriberFunc func(ctx context.Context, event Event) error

// HandleEvent calls f.
func (f SubscriberFunc) HandleEvent(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus fans events out synchronously to its subscribers. Subscriber errors
// and panics are logged and swallowed.
type Bus struct {
	mu          sync.RWMutex
	subscribers []Subscriber
	logger      *slog.Logger
}

// NewBus creates a bus logging subscriber failures to logger.
func NewBus(logger *slog.Logger, subscribers ...Subscriber) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{logger: logger, subscribers: subscribers}
}

var _ Publisher = (*Bus)(nil)

// Subscribe adds a subscriber.
func (b *Bus) Subscribe(s Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, s)
}

// Publish delivers event to every subscriber.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	subs := append([]Subscriber(nil), b.subscribers...)
	b.mu.RUnlock()

	for _, s := range subs {
		b.deliver(ctx, s, event)
	}
}

func (b *Bus) deliver(ctx context.Context, s Subscriber, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Event subscriber panicked",
				slog.String("event", event.EventName()),
				slog.Any("panic", r))
		}
	}()
	if err := s.HandleEvent(ctx, event); err != nil {
		b.logger.Error("Event subscriber failed",
			slog.String("event", event.EventName()),
			slog.String("error", err.Error()))
	}
}

// NopPublisher discards every event.
type NopPublisher struct{}

// Publish does nothing.
func (NopPublisher) Publish(context.Context, Event) {}
