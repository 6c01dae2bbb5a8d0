package middleware

import (
	"context"

	"github.com/SscSPs/persona_ledger/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// WithRequestor returns a copy of ctx carrying the authenticated persona.
func WithRequestor(ctx context.Context, requestor domain.PersonaID) context.Context {
	return context.WithValue(ctx, requestorCtxKey, requestor)
}

// GetRequestorFromCtx retrieves the authenticated persona from a context.
func GetRequestorFromCtx(ctx context.Context) (domain.PersonaID, bool) {
	requestor, ok := ctx.Value(requestorCtxKey).(domain.PersonaID)
	return requestor, ok
}

// GetRequestorFromContext retrieves the authenticated persona from the Gin request.
func GetRequestorFromContext(c *gin.Context) (domain.PersonaID, bool) {
	return GetRequestorFromCtx(c.Request.Context())
}
