package repositories

import (
	"context"

	"github.com/SscSPs/persona_ledger/internal/core/domain"
)

// PersonaReader resolves persona addresses to personas.
type PersonaReader interface {
	// Exists reports whether a persona with this id has been registered.
	Exists(ctx context.Context, id domain.PersonaID) (bool, error)

	// GetPersona resolves one persona.
	// Returns apperrors.ErrNotFound when the persona is unknown.
	GetPersona(ctx context.Context, id domain.PersonaID) (domain.Persona, error)

	// GetPersonas resolves many personas at once. Unknown ids are omitted from the result.
	GetPersonas(ctx context.Context, ids []domain.PersonaID) (map[domain.PersonaID]domain.Persona, error)
}

// PersonaOwnershipReader resolves which player owns a character.
type PersonaOwnershipReader interface {
	// FindOwningPlayer returns the player persona owning the character, or nil when unknown.
	FindOwningPlayer(ctx context.Context, character domain.CharacterID) (*domain.PersonaID, error)
}

// PersonaRepositoryFacade combines all persona-related repository interfaces.
type PersonaRepositoryFacade interface {
	PersonaReader
	PersonaOwnershipReader
}

// OrganizationMembershipReader resolves organization memberships.
type OrganizationMembershipReader interface {
	// FindMembership returns the character's membership in the organization.
	// Returns apperrors.ErrNotFound when the character is not a member.
	FindMembership(ctx context.Context, organizationID domain.OrganizationID, characterID domain.CharacterID) (*domain.OrganizationMember, error)
}
