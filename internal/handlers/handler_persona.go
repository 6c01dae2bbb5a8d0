package handlers

import (
	"net/http"

	"github.com/SscSPs/persona_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/persona_ledger/internal/core/ports/services"
	"github.com/SscSPs/persona_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

type personaHandler struct {
	personas   portssvc.PersonaSvcFacade
	properties portssvc.PropertyQuerySvc
}

func newPersonaHandler(personas portssvc.PersonaSvcFacade, properties portssvc.PropertyQuerySvc) *personaHandler {
	return &personaHandler{personas: personas, properties: properties}
}

func registerPersonaRoutes(rg *gin.RouterGroup, personas portssvc.PersonaSvcFacade, properties portssvc.PropertyQuerySvc) {
	h := newPersonaHandler(personas, properties)

	group := rg.Group("/personas")
	{
		group.GET("/:personaID", h.describePersona)
		group.GET("/:personaID/rentals", h.listRentals)
	}
}

// describePersona godoc
// @Summary Describe a persona
// @Tags personas
// @Produce  json
// @Param   personaID path string true "Persona ID, e.g. Character:<uuid>"
// @Success 200 {object} portssvc.PersonaDescriptor
// @Failure 404 {object} map[string]string "Persona not found"
// @Security BearerAuth
// @Router /personas/{personaID} [get]
func (h *personaHandler) describePersona(c *gin.Context) {
	var uri dto.PersonaURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid persona id: " + err.Error()})
		return
	}

	descriptor, err := h.personas.Describe(c.Request.Context(), domain.MustParsePersonaID(uri.PersonaID))
	if err != nil {
		respondWithError(c, err, "persona")
		return
	}
	c.JSON(http.StatusOK, descriptor)
}

// listRentals godoc
// @Summary List properties rented by a persona
// @Tags personas
// @Produce  json
// @Param   personaID path string true "Persona ID"
// @Success 200 {array} dto.PropertyResponse
// @Security BearerAuth
// @Router /personas/{personaID}/rentals [get]
func (h *personaHandler) listRentals(c *gin.Context) {
	var uri dto.PersonaURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid persona id: " + err.Error()})
		return
	}

	rentals, err := h.properties.ListRentalsForTenant(c.Request.Context(), domain.MustParsePersonaID(uri.PersonaID))
	if err != nil {
		respondWithError(c, err, "rentals")
		return
	}
	c.JSON(http.StatusOK, dto.ToPropertyResponses(rentals))
}
