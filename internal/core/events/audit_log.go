package events

import (
	"context"
	"log/slog"
)

// AuditLogSubscriber writes every event as a structured audit log line.
type AuditLogSubscriber struct {
	logger *slog.Logger
}

// NewAuditLogSubscriber creates an audit log subscriber.
func NewAuditLogSubscriber(logger *slog.Logger) *AuditLogSubscriber {
	return &AuditLogSubscriber{logger: logger.With(slog.String("channel", "audit"))}
}

// HandleEvent logs the event.
func (s *AuditLogSubscriber) HandleEvent(ctx context.Context, event Event) error {
	s.logger.InfoContext(ctx, "Audit event",
		slog.String("event", event.EventName()),
		slog.String("actor", event.Actor().String()),
		slog.Time("occurred_at", event.OccurredAt()),
		slog.Any("payload", event))
	return nil
}
