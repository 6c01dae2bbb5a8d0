package mapping

import (
	"database/sql"
	"fmt"

	"github.com/SscSPs/persona_ledger/internal/core/domain"
	"github.com/SscSPs/persona_ledger/internal/models"
	"github.com/google/uuid"
)

// ToModelPersona converts a domain persona to a personas row.
func ToModelPersona(p domain.Persona) models.Persona {
	m := models.Persona{
		PersonaID:   p.PersonaID().String(),
		PersonaType: string(p.PersonaType()),
		DisplayName: p.Name(),
	}
	switch v := p.(type) {
	case domain.CharacterPersona:
		id := uuid.UUID(v.CharacterID)
		m.NativeID = &id
		m.FirstName = v.FirstName
		m.LastName = v.LastName
	case domain.OrganizationPersona:
		id := uuid.UUID(v.OrganizationID)
		m.NativeID = &id
	case domain.GovernmentPersona:
		id := uuid.UUID(v.GovernmentID)
		m.NativeID = &id
		m.Settlement = nullString(v.Settlement)
	case domain.WarehousePersona:
		id := uuid.UUID(v.WarehouseID)
		m.NativeID = &id
	case domain.CoinhousePersona:
		m.CoinhouseTag = nullString(string(v.Tag))
		m.Settlement = nullString(v.Settlement)
	}
	return m
}

// ToDomainPersona rebuilds the concrete persona a row describes.
func ToDomainPersona(m models.Persona) (domain.Persona, error) {
	id, err := domain.ParsePersonaID(m.PersonaID)
	if err != nil {
		return nil, err
	}
	if string(id.Type) != m.PersonaType {
		return nil, fmt.Errorf("%w: row type %q does not match id %s", domain.ErrInvalidPersonaID, m.PersonaType, m.PersonaID)
	}

	switch id.Type {
	case domain.PersonaPlayer:
		return domain.NewPlayerPersona(id.Value, m.DisplayName), nil
	case domain.PersonaCharacter:
		native, err := id.UUIDValue()
		if err != nil {
			return nil, err
		}
		return domain.NewCharacterPersona(domain.CharacterID(native), m.FirstName, m.LastName), nil
	case domain.PersonaOrganization:
		native, err := id.UUIDValue()
		if err != nil {
			return nil, err
		}
		return domain.NewOrganizationPersona(domain.OrganizationID(native), m.DisplayName), nil
	case domain.PersonaGovernment:
		native, err := id.UUIDValue()
		if err != nil {
			return nil, err
		}
		return domain.NewGovernmentPersona(domain.GovernmentID(native), m.Settlement.String, m.DisplayName), nil
	case domain.PersonaWarehouse:
		native, err := id.UUIDValue()
		if err != nil {
			return nil, err
		}
		return domain.NewWarehousePersona(domain.WarehouseID(native), m.DisplayName), nil
	case domain.PersonaCoinhouse:
		return domain.NewCoinhousePersona(domain.CoinhouseTag(id.Value), m.Settlement.String, m.DisplayName), nil
	case domain.PersonaSystemProcess:
		return domain.NewSystemPersona(id.Value), nil
	default:
		return nil, fmt.Errorf("%w: unsupported persona type %q", domain.ErrInvalidPersonaID, id.Type)
	}
}

// ToDomainOrganizationMember converts an organization_members row.
func ToDomainOrganizationMember(m models.OrganizationMember) domain.OrganizationMember {
	return domain.OrganizationMember{
		OrganizationID: domain.OrganizationID(m.OrganizationID),
		CharacterID:    domain.CharacterID(m.CharacterID),
		Status:         domain.MembershipStatus(m.Status),
		Rank:           domain.OrganizationRank(m.Rank),
		JoinedAt:       m.JoinedAt,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
