// Package commands holds the request/response envelope shared by every
// mutating operation, and the command records callers construct.
package commands

import (
	"context"
	"fmt"
)

// Command is an inert data record naming one mutating operation.
type Command interface {
	CommandName() string
}

// Result is the outcome of handling a command. Business-rule rejections are
// reported as a failed Result with a human readable message; only
// infrastructure failures are returned as errors by handlers.
type Result struct {
	Success      bool           `json:"success"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
	Data         map[string]any `json:"data,omitempty"`
}

// Ok builds a successful result carrying optional payload.
func Ok(data map[string]any) Result {
	return Result{Success: true, Data: data}
}

// Fail builds a failed result.
func Fail(message string) Result {
	return Result{Success: false, ErrorMessage: message}
}

// Failf builds a failed result from a format string.
func Failf(format string, args ...any) Result {
	return Fail(fmt.Sprintf(format, args...))
}

// Handler handles one command type.
type Handler[C Command] interface {
	Handle(ctx context.Context, cmd C) (Result, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc[C Command] func(ctx context.Context, cmd C) (Result, error)

// Handle calls f.
func (f HandlerFunc[C]) Handle(ctx context.Context, cmd C) (Result, error) {
	return f(ctx, cmd)
}
