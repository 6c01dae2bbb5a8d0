package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// PersonaType identifies which kind of actor a persona addresses.
type PersonaType string

const (
	PersonaPlayer        PersonaType = "Player"
	PersonaCharacter     PersonaType = "Character"
	PersonaOrganization  PersonaType = "Organization"
	PersonaCoinhouse     PersonaType = "Coinhouse"
	PersonaWarehouse     PersonaType = "Warehouse"
	PersonaGovernment    PersonaType = "Government"
	PersonaSystemProcess PersonaType = "SystemProcess"
)

var personaTypes = []PersonaType{
	PersonaPlayer,
	PersonaCharacter,
	PersonaOrganization,
	PersonaCoinhouse,
	PersonaWarehouse,
	PersonaGovernment,
	PersonaSystemProcess,
}

// PersonaTypes returns every known persona type.
func PersonaTypes() []PersonaType {
	return append([]PersonaType(nil), personaTypes...)
}

// ParsePersonaType matches a type name case-insensitively.
func ParsePersonaType(s string) (PersonaType, error) {
	for _, t := range personaTypes {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown persona type %q", ErrInvalidPersonaID, s)
}

// IsValid reports whether t is one of the known persona types.
func (t PersonaType) IsValid() bool {
	for _, known := range personaTypes {
		if t == known {
			return true
		}
	}
	return false
}

// PersonaID is the typed address of an in-world actor.
// Two ids are equal only when both the type and the raw value match.
type PersonaID struct {
	Type  PersonaType `json:"type"`
	Value string      `json:"value"`
}

// String renders the canonical "Type:Value" form.
func (p PersonaID) String() string {
	return string(p.Type) + ":" + p.Value
}

// IsZero reports whether p is the zero value.
func (p PersonaID) IsZero() bool {
	return p.Type == "" && p.Value == ""
}

// ParsePersonaID parses the canonical "Type:Value" form. Only the first ':'
// separates type from value, so values may themselves contain ':'.
func ParsePersonaID(text string) (PersonaID, error) {
	typePart, value, found := strings.Cut(text, ":")
	if !found {
		return PersonaID{}, fmt.Errorf("%w: missing ':' separator in %q", ErrInvalidPersonaID, text)
	}
	t, err := ParsePersonaType(typePart)
	if err != nil {
		return PersonaID{}, err
	}
	if strings.TrimSpace(value) == "" {
		return PersonaID{}, fmt.Errorf("%w: empty value in %q", ErrInvalidPersonaID, text)
	}
	return PersonaID{Type: t, Value: value}, nil
}

// MustParsePersonaID is ParsePersonaID for literals known to be valid.
func MustParsePersonaID(text string) PersonaID {
	id, err := ParsePersonaID(text)
	if err != nil {
		panic(err)
	}
	return id
}

// MarshalText implements encoding.TextMarshaler.
func (p PersonaID) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *PersonaID) UnmarshalText(text []byte) error {
	id, err := ParsePersonaID(string(text))
	if err != nil {
		return err
	}
	*p = id
	return nil
}

// UUIDValue returns the value as a uuid for persona kinds backed by one.
func (p PersonaID) UUIDValue() (uuid.UUID, error) {
	id, err := uuid.Parse(p.Value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s value is not a uuid", ErrInvalidPersonaID, p.Type)
	}
	if id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: %s value is the nil uuid", ErrInvalidPersonaID, p.Type)
	}
	return id, nil
}

// CharacterID identifies a player character.
type CharacterID uuid.UUID

// OrganizationID identifies a player-run organization.
type OrganizationID uuid.UUID

// GovernmentID identifies a settlement government.
type GovernmentID uuid.UUID

// WarehouseID identifies a storage facility.
type WarehouseID uuid.UUID

func (id CharacterID) String() string    { return uuid.UUID(id).String() }
func (id OrganizationID) String() string { return uuid.UUID(id).String() }
func (id GovernmentID) String() string   { return uuid.UUID(id).String() }
func (id WarehouseID) String() string    { return uuid.UUID(id).String() }

// CoinhouseTag is the normalized lowercase handle of a coinhouse.
type CoinhouseTag string

// NormalizeCoinhouseTag trims and lowercases a raw tag.
func NormalizeCoinhouseTag(raw string) CoinhouseTag {
	return CoinhouseTag(strings.ToLower(strings.TrimSpace(raw)))
}

func (t CoinhouseTag) String() string { return string(t) }

// FromCharacter addresses a character.
func FromCharacter(id CharacterID) PersonaID {
	return fromUUID(PersonaCharacter, uuid.UUID(id))
}

// FromOrganization addresses an organization.
func FromOrganization(id OrganizationID) PersonaID {
	return fromUUID(PersonaOrganization, uuid.UUID(id))
}

// FromGovernment addresses a settlement government.
func FromGovernment(id GovernmentID) PersonaID {
	return fromUUID(PersonaGovernment, uuid.UUID(id))
}

// FromWarehouse addresses a warehouse.
func FromWarehouse(id WarehouseID) PersonaID {
	return fromUUID(PersonaWarehouse, uuid.UUID(id))
}

// FromCoinhouse addresses a coinhouse by its normalized tag.
func FromCoinhouse(tag CoinhouseTag) PersonaID {
	normalized := NormalizeCoinhouseTag(string(tag))
	if normalized == "" {
		panic("domain: coinhouse tag is required")
	}
	return PersonaID{Type: PersonaCoinhouse, Value: string(normalized)}
}

// FromSystem addresses an automated system process.
func FromSystem(processName string) PersonaID {
	if strings.TrimSpace(processName) == "" {
		panic("domain: system process name is required")
	}
	return PersonaID{Type: PersonaSystemProcess, Value: processName}
}

// FromPlayer addresses a real-world player account by CD key.
func FromPlayer(cdKey string) PersonaID {
	if strings.TrimSpace(cdKey) == "" {
		panic("domain: player cd key is required")
	}
	return PersonaID{Type: PersonaPlayer, Value: cdKey}
}

func fromUUID(t PersonaType, id uuid.UUID) PersonaID {
	if id == uuid.Nil {
		panic(fmt.Sprintf("domain: %s id is required", t))
	}
	return PersonaID{Type: t, Value: id.String()}
}
