package services

import (
	"context"

	"github.com/SscSPs/persona_ledger/internal/core/domain"
)

// PersonaDescriptor is a kind-agnostic view of a persona for UI and reporting
// layers, enriched with ownership metadata.
type PersonaDescriptor struct {
	ID          domain.PersonaID   `json:"id"`
	Type        domain.PersonaType `json:"type"`
	DisplayName string             `json:"displayName"`
	OwnedBy     *domain.PersonaID  `json:"ownedBy,omitempty"`
	Settlement  string             `json:"settlement,omitempty"`
	AccountID   string             `json:"accountID"`
}

// PersonaResolverSvc resolves persona addresses.
type PersonaResolverSvc interface {
	// Exists reports whether the persona is registered.
	Exists(ctx context.Context, id domain.PersonaID) (bool, error)

	// Resolve returns the persona behind the id.
	Resolve(ctx context.Context, id domain.PersonaID) (domain.Persona, error)

	// ResolveCharacter returns the character behind the id, failing with
	// apperrors.ErrValidation when the id addresses another persona kind.
	ResolveCharacter(ctx context.Context, id domain.PersonaID) (*domain.CharacterPersona, error)
}

// PersonaDescriptorSvc is the read-only descriptor service.
type PersonaDescriptorSvc interface {
	// Describe returns the descriptor of one persona.
	Describe(ctx context.Context, id domain.PersonaID) (*PersonaDescriptor, error)

	// DescribeMany returns descriptors for all known ids; unknown ids are omitted.
	DescribeMany(ctx context.Context, ids []domain.PersonaID) (map[domain.PersonaID]PersonaDescriptor, error)
}

// PersonaSvcFacade combines persona-related service interfaces.
type PersonaSvcFacade interface {
	PersonaResolverSvc
	PersonaDescriptorSvc
}
