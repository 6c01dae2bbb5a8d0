package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/persona_ledger/internal/core/commands"
	"github.com/SscSPs/persona_ledger/internal/core/events"
	"github.com/SscSPs/persona_ledger/internal/middleware"
	"github.com/SscSPs/persona_ledger/internal/platform/metrics"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Events  events.Publisher
	Metrics *metrics.Metrics
	// Clock overrides time.Now, mostly for tests
	Clock func() time.Time
}

// Now returns the current UTC time from Clock, or time.Now.
func (s *BaseService) Now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Publish hands an event to the configured publisher, if any.
func (s *BaseService) Publish(ctx context.Context, event events.Event) {
	if s.Events == nil {
		return
	}
	s.Events.Publish(ctx, event)
}

// reject logs and counts a business-rule rejection and returns it as a failed result.
func (s *BaseService) reject(ctx context.Context, cmd commands.Command, message string, keyvals ...any) (commands.Result, error) {
	args := append([]any{slog.String("command", cmd.CommandName()), slog.String("reason", message)}, keyvals...)
	s.LogInfo(ctx, "Command rejected", args...)
	s.Metrics.IncrementCommandOutcome(cmd.CommandName(), metrics.OutcomeRejected)
	return commands.Fail(message), nil
}

// fail logs and counts an infrastructure failure and returns it as an error.
func (s *BaseService) fail(ctx context.Context, cmd commands.Command, err error, msg string, keyvals ...any) (commands.Result, error) {
	s.LogError(ctx, err, msg, append([]any{slog.String("command", cmd.CommandName())}, keyvals...)...)
	s.Metrics.IncrementCommandOutcome(cmd.CommandName(), metrics.OutcomeErrored)
	return commands.Result{}, err
}

// succeed counts a successful command and returns its result.
func (s *BaseService) succeed(cmd commands.Command, data map[string]any) (commands.Result, error) {
	s.Metrics.IncrementCommandOutcome(cmd.CommandName(), metrics.OutcomeSucceeded)
	return commands.Ok(data), nil
}
