package domain

import "fmt"

// Persona is an in-world actor resolved from its PersonaID. The set of
// implementations is closed; switch on PersonaType() for kind-specific logic.
type Persona interface {
	PersonaID() PersonaID
	PersonaType() PersonaType
	Name() string
	persona()
}

// PersonaBase holds the fields every persona carries.
type PersonaBase struct {
	ID          PersonaID   `json:"id"`
	Type        PersonaType `json:"type"`
	DisplayName string      `json:"displayName"`
}

func newPersonaBase(id PersonaID, t PersonaType, displayName string) PersonaBase {
	if id.Type != t {
		panic(fmt.Sprintf("domain: persona id type %q does not match persona type %q", id.Type, t))
	}
	if id.Value == "" {
		panic("domain: persona id value is required")
	}
	return PersonaBase{ID: id, Type: t, DisplayName: displayName}
}

func (b PersonaBase) PersonaID() PersonaID     { return b.ID }
func (b PersonaBase) PersonaType() PersonaType { return b.Type }
func (b PersonaBase) Name() string             { return b.DisplayName }
func (PersonaBase) persona()                   {}

// PlayerPersona is a real-world account that owns characters.
type PlayerPersona struct {
	PersonaBase
	CDKey string `json:"cdKey"`
}

// CharacterPersona is a player character.
type CharacterPersona struct {
	PersonaBase
	CharacterID CharacterID `json:"characterID"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
}

// OrganizationPersona is a player-run organization.
type OrganizationPersona struct {
	PersonaBase
	OrganizationID OrganizationID `json:"organizationID"`
}

// CoinhousePersona is a bank.
type CoinhousePersona struct {
	PersonaBase
	Tag        CoinhouseTag `json:"tag"`
	Settlement string       `json:"settlement"`
}

// WarehousePersona is a storage facility.
type WarehousePersona struct {
	PersonaBase
	WarehouseID WarehouseID `json:"warehouseID"`
}

// GovernmentPersona is a settlement government.
type GovernmentPersona struct {
	PersonaBase
	GovernmentID GovernmentID `json:"governmentID"`
	Settlement   string       `json:"settlement"`
}

// SystemPersona is an automated process acting on its own behalf.
type SystemPersona struct {
	PersonaBase
	ProcessName string `json:"processName"`
}

// NewPlayerPersona builds a player persona.
func NewPlayerPersona(cdKey, displayName string) PlayerPersona {
	return PlayerPersona{
		PersonaBase: newPersonaBase(FromPlayer(cdKey), PersonaPlayer, displayName),
		CDKey:       cdKey,
	}
}

// NewCharacterPersona builds a character persona. The display name is
// "First Last" trimmed of empty parts.
func NewCharacterPersona(id CharacterID, firstName, lastName string) CharacterPersona {
	return CharacterPersona{
		PersonaBase: newPersonaBase(FromCharacter(id), PersonaCharacter, joinName(firstName, lastName)),
		CharacterID: id,
		FirstName:   firstName,
		LastName:    lastName,
	}
}

// NewOrganizationPersona builds an organization persona.
func NewOrganizationPersona(id OrganizationID, displayName string) OrganizationPersona {
	return OrganizationPersona{
		PersonaBase:    newPersonaBase(FromOrganization(id), PersonaOrganization, displayName),
		OrganizationID: id,
	}
}

// NewCoinhousePersona builds a coinhouse persona.
func NewCoinhousePersona(tag CoinhouseTag, settlement, displayName string) CoinhousePersona {
	id := FromCoinhouse(tag)
	return CoinhousePersona{
		PersonaBase: newPersonaBase(id, PersonaCoinhouse, displayName),
		Tag:         CoinhouseTag(id.Value),
		Settlement:  settlement,
	}
}

// NewWarehousePersona builds a warehouse persona.
func NewWarehousePersona(id WarehouseID, displayName string) WarehousePersona {
	return WarehousePersona{
		PersonaBase: newPersonaBase(FromWarehouse(id), PersonaWarehouse, displayName),
		WarehouseID: id,
	}
}

// NewGovernmentPersona builds a government persona.
func NewGovernmentPersona(id GovernmentID, settlement, displayName string) GovernmentPersona {
	return GovernmentPersona{
		PersonaBase:  newPersonaBase(FromGovernment(id), PersonaGovernment, displayName),
		GovernmentID: id,
		Settlement:   settlement,
	}
}

// NewSystemPersona builds a system process persona.
func NewSystemPersona(processName string) SystemPersona {
	return SystemPersona{
		PersonaBase: newPersonaBase(FromSystem(processName), PersonaSystemProcess, processName),
		ProcessName: processName,
	}
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}

var (
	_ Persona = PlayerPersona{}
	_ Persona = CharacterPersona{}
	_ Persona = OrganizationPersona{}
	_ Persona = CoinhousePersona{}
	_ Persona = WarehousePersona{}
	_ Persona = GovernmentPersona{}
	_ Persona = SystemPersona{}
)
