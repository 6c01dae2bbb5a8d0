package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/persona_ledger/internal/apperrors"
	"github.com/SscSPs/persona_ledger/internal/core/commands"
	"github.com/SscSPs/persona_ledger/internal/core/domain"
	"github.com/SscSPs/persona_ledger/internal/dto"
	"github.com/SscSPs/persona_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondWithResult writes a command outcome. Rejected commands are 422,
// handler errors are 500.
func respondWithResult(c *gin.Context, successStatus int, result commands.Result, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if err != nil {
		logger.Error("Command handler failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if !result.Success {
		logger.Info("Command rejected", slog.String("reason", result.ErrorMessage))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": result.ErrorMessage})
		return
	}
	c.JSON(successStatus, dto.CommandResponse{Success: true, Data: result.Data})
}

// respondWithError maps service errors to status codes.
func respondWithError(c *gin.Context, err error, what string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		logger.Error("Service call failed", slog.String("what", what), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// requireRequestor fetches the authenticated persona, aborting with 401 when absent.
func requireRequestor(c *gin.Context) (requestor domain.PersonaID, ok bool) {
	requestor, ok = middleware.GetRequestorFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Requestor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return requestor, ok
}
