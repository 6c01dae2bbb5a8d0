package events_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/SscSPs/persona_ledger/internal/core/domain"
	"github.com/SscSPs/persona_ledger/internal/core/events"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() domain.PropertyEvicted {
	return domain.PropertyEvicted{
		EventMeta: domain.EventMeta{
			Requestor: domain.FromSystem("PropertyEvictionScheduler"),
			At:        time.Date(2025, 11, 4, 9, 30, 0, 0, time.UTC),
		},
		PropertyID:     uuid.New(),
		PreviousTenant: domain.FromCharacter(domain.CharacterID(uuid.New())),
		Reason:         "rent overdue",
	}
}

func TestBus_FansOutToEverySubscriber(t *testing.T) {
	var got []string
	record := func(name string) events.Subscriber {
		return events.SubscriberFunc(func(_ context.Context, e events.Event) error {
			got = append(got, name+":"+e.EventName())
			return nil
		})
	}

	bus := events.NewBus(nil, record("first"))
	bus.Subscribe(record("second"))

	bus.Publish(context.Background(), sampleEvent())

	assert.Equal(t, []string{"first:property_evicted", "second:property_evicted"}, got)
}

func TestBus_SwallowsErrorsAndPanics(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	delivered := false

	bus := events.NewBus(logger,
		events.SubscriberFunc(func(context.Context, events.Event) error { return assert.AnError }),
		events.SubscriberFunc(func(context.Context, events.Event) error { panic("boom") }),
		events.SubscriberFunc(func(context.Context, events.Event) error {
			delivered = true
			return nil
		}),
	)

	require.NotPanics(t, func() { bus.Publish(context.Background(), sampleEvent()) })

	assert.True(t, delivered)
	assert.Contains(t, buf.String(), "Event subscriber failed")
	assert.Contains(t, buf.String(), "Event subscriber panicked")
}

func TestBus_NoSubscribers(t *testing.T) {
	bus := events.NewBus(nil)
	assert.NotPanics(t, func() { bus.Publish(context.Background(), sampleEvent()) })
	assert.NotPanics(t, func() { events.NopPublisher{}.Publish(context.Background(), sampleEvent()) })
}

func TestAuditLogSubscriber(t *testing.T) {
	var buf bytes.Buffer
	subscriber := events.NewAuditLogSubscriber(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, subscriber.HandleEvent(context.Background(), sampleEvent()))

	out := buf.String()
	assert.Contains(t, out, `"channel":"audit"`)
	assert.Contains(t, out, `"event":"property_evicted"`)
	assert.Contains(t, out, `"actor":"SystemProcess:PropertyEvictionScheduler"`)
}
