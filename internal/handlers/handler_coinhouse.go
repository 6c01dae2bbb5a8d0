package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/persona_ledger/internal/core/ports/services"
	"github.com/SscSPs/persona_ledger/internal/dto"
	"github.com/SscSPs/persona_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// coinhouseHandler handles HTTP requests for coinhouse accounts.
type coinhouseHandler struct {
	services *portssvc.ServiceContainer
}

func newCoinhouseHandler(services *portssvc.ServiceContainer) *coinhouseHandler {
	return &coinhouseHandler{services: services}
}

// registerCoinhouseRoutes registers the coinhouse account ledger routes.
func registerCoinhouseRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newCoinhouseHandler(services)

	accounts := rg.Group("/coinhouses/:tag/accounts")
	{
		accounts.POST("", h.openAccount)
		accounts.POST("/:accountID/holders", h.joinAccount)
		accounts.DELETE("/:accountID/holders/:holderID", h.removeHolder)
		accounts.PUT("/:accountID/holders/:holderID/role", h.updateHolderRole)
	}
}

// openAccount godoc
// @Summary Open a coinhouse account
// @Description Opens an account for a character or organization at the coinhouse
// @Tags coinhouses
// @Accept  json
// @Produce  json
// @Param   tag path string true "Coinhouse tag"
// @Param   account body dto.OpenCoinhouseAccountRequest true "Account details"
// @Success 201 {object} dto.CommandResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 422 {object} map[string]string "Command rejected"
// @Security BearerAuth
// @Router /coinhouses/{tag}/accounts [post]
func (h *coinhouseHandler) openAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var uri dto.CoinhouseURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coinhouse tag: " + err.Error()})
		return
	}
	var req dto.OpenCoinhouseAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for OpenCoinhouseAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	requestor, ok := requireRequestor(c)
	if !ok {
		return
	}

	logger.Info("Received request to open coinhouse account",
		slog.String("coinhouse", uri.Tag), slog.String("account_persona", req.AccountPersona))

	result, err := h.services.OpenAccount.Handle(c.Request.Context(), req.ToCommand(requestor, uri))
	respondWithResult(c, http.StatusCreated, result, err)
}

// joinAccount godoc
// @Summary Join a coinhouse account
// @Description Adds the requesting character as a holder of the account
// @Tags coinhouses
// @Accept  json
// @Produce  json
// @Param   tag path string true "Coinhouse tag"
// @Param   accountID path string true "Account ID"
// @Param   holder body dto.JoinCoinhouseAccountRequest true "Holder details"
// @Success 200 {object} dto.CommandResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 422 {object} map[string]string "Command rejected"
// @Security BearerAuth
// @Router /coinhouses/{tag}/accounts/{accountID}/holders [post]
func (h *coinhouseHandler) joinAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var uri dto.CoinhouseAccountURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid path: " + err.Error()})
		return
	}
	var req dto.JoinCoinhouseAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for JoinCoinhouseAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	requestor, ok := requireRequestor(c)
	if !ok {
		return
	}

	result, err := h.services.JoinAccount.Handle(c.Request.Context(), req.ToCommand(requestor, uri))
	respondWithResult(c, http.StatusOK, result, err)
}

// removeHolder godoc
// @Summary Remove an account holder
// @Tags coinhouses
// @Produce  json
// @Param   tag path string true "Coinhouse tag"
// @Param   accountID path string true "Account ID"
// @Param   holderID path string true "Holder ID"
// @Success 200 {object} dto.CommandResponse
// @Failure 422 {object} map[string]string "Command rejected"
// @Security BearerAuth
// @Router /coinhouses/{tag}/accounts/{accountID}/holders/{holderID} [delete]
func (h *coinhouseHandler) removeHolder(c *gin.Context) {
	var uri dto.CoinhouseHolderURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid path: " + err.Error()})
		return
	}
	requestor, ok := requireRequestor(c)
	if !ok {
		return
	}

	result, err := h.services.RemoveHolder.Handle(c.Request.Context(), dto.RemoveHolderCommand(requestor, uri))
	respondWithResult(c, http.StatusOK, result, err)
}

// updateHolderRole godoc
// @Summary Change a holder's role
// @Tags coinhouses
// @Accept  json
// @Produce  json
// @Param   tag path string true "Coinhouse tag"
// @Param   accountID path string true "Account ID"
// @Param   holderID path string true "Holder ID"
// @Param   role body dto.UpdateHolderRoleRequest true "New role"
// @Success 200 {object} dto.CommandResponse
// @Failure 422 {object} map[string]string "Command rejected"
// @Security BearerAuth
// @Router /coinhouses/{tag}/accounts/{accountID}/holders/{holderID}/role [put]
func (h *coinhouseHandler) updateHolderRole(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var uri dto.CoinhouseHolderURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid path: " + err.Error()})
		return
	}
	var req dto.UpdateHolderRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateHolderRole", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	requestor, ok := requireRequestor(c)
	if !ok {
		return
	}

	result, err := h.services.UpdateHolderRole.Handle(c.Request.Context(), req.ToCommand(requestor, uri))
	respondWithResult(c, http.StatusOK, result, err)
}
