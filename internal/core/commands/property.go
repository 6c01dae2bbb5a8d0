package commands

import (
	"time"

	"github.com/SscSPs/persona_ledger/internal/core/domain"
	"github.com/google/uuid"
)

// EvictProperty ends the tenancy of a rented property.
type EvictProperty struct {
	Requestor  domain.PersonaID
	PropertyID uuid.UUID
	Reason     string
}

func (EvictProperty) CommandName() string { return "EvictProperty" }

// RentProperty requests a vacant property for Tenant.
type RentProperty struct {
	Requestor     domain.PersonaID
	Tenant        domain.PersonaID
	PropertyID    uuid.UUID
	PaymentMethod domain.PaymentMethod
}

func (RentProperty) CommandName() string { return "RentProperty" }

// RecordOccupantPresence notes that an occupant was seen in a rented property.
// Requestor is the occupant reporting itself or a system process observing it.
type RecordOccupantPresence struct {
	Requestor  domain.PersonaID
	Occupant   domain.PersonaID
	PropertyID uuid.UUID
	SeenAt     time.Time
}

func (RecordOccupantPresence) CommandName() string { return "RecordOccupantPresence" }
