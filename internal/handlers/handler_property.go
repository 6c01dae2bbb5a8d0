package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/persona_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/persona_ledger/internal/core/ports/services"
	"github.com/SscSPs/persona_ledger/internal/dto"
	"github.com/SscSPs/persona_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type propertyHandler struct {
	services *portssvc.ServiceContainer
}

func newPropertyHandler(services *portssvc.ServiceContainer) *propertyHandler {
	return &propertyHandler{services: services}
}

// registerPropertyRoutes registers rental and eviction routes.
func registerPropertyRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newPropertyHandler(services)

	properties := rg.Group("/properties")
	{
		properties.POST("/evictions/run", h.runEvictionCycle)
		properties.POST("/:propertyID/rent", h.rentProperty)
		properties.POST("/:propertyID/presence", h.recordPresence)
	}
}

// rentProperty godoc
// @Summary Rent a property
// @Tags properties
// @Accept  json
// @Produce  json
// @Param   propertyID path string true "Property ID"
// @Param   rental body dto.RentPropertyRequest true "Rental details"
// @Success 200 {object} dto.CommandResponse
// @Failure 422 {object} map[string]string "Command rejected"
// @Security BearerAuth
// @Router /properties/{propertyID}/rent [post]
func (h *propertyHandler) rentProperty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var uri dto.PropertyURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property id: " + err.Error()})
		return
	}
	var req dto.RentPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RentProperty", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	requestor, ok := requireRequestor(c)
	if !ok {
		return
	}

	result, err := h.services.RentProperty.Handle(c.Request.Context(), req.ToCommand(requestor, uri))
	respondWithResult(c, http.StatusOK, result, err)
}

// recordPresence godoc
// @Summary Record that an occupant was seen at a property
// @Tags properties
// @Accept  json
// @Produce  json
// @Param   propertyID path string true "Property ID"
// @Param   presence body dto.RecordPresenceRequest false "Sighting"
// @Success 200 {object} dto.CommandResponse
// @Failure 422 {object} map[string]string "Command rejected"
// @Security BearerAuth
// @Router /properties/{propertyID}/presence [post]
func (h *propertyHandler) recordPresence(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var uri dto.PropertyURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property id: " + err.Error()})
		return
	}
	var req dto.RecordPresenceRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for RecordPresence", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}
	requestor, ok := requireRequestor(c)
	if !ok {
		return
	}

	result, err := h.services.RecordPresence.Handle(c.Request.Context(), req.ToCommand(requestor, uri))
	respondWithResult(c, http.StatusOK, result, err)
}

// runEvictionCycle godoc
// @Summary Run one eviction sweep
// @Description Only system processes may trigger a sweep
// @Tags properties
// @Produce  json
// @Success 200 {object} portssvc.EvictionCycleReport
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /properties/evictions/run [post]
func (h *propertyHandler) runEvictionCycle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestor, ok := requireRequestor(c)
	if !ok {
		return
	}
	if requestor.Type != domain.PersonaSystemProcess {
		logger.Warn("Eviction sweep requested by non-system persona")
		c.JSON(http.StatusForbidden, gin.H{"error": "Only system processes may run eviction sweeps"})
		return
	}

	report, err := h.services.Evictions.ExecuteEvictionCycle(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "eviction cycle")
		return
	}
	c.JSON(http.StatusOK, report)
}
