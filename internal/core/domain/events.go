package domain

import (
	"time"

	"github.com/google/uuid"
)

// Audit event names.
const (
	EventCoinhouseAccountOpened            = "coinhouse_account_opened"
	EventCoinhouseAccountHolderJoined      = "coinhouse_account_holder_joined"
	EventCoinhouseAccountHolderRemoved     = "coinhouse_account_holder_removed"
	EventCoinhouseAccountHolderRoleChanged = "coinhouse_account_holder_role_changed"
	EventPropertyRented                    = "property_rented"
	EventPropertyEvicted                   = "property_evicted"
)

// EventMeta carries who caused an event and when.
type EventMeta struct {
	Requestor PersonaID `json:"requestor"`
	At        time.Time `json:"at"`
}

func (m EventMeta) Actor() PersonaID      { return m.Requestor }
func (m EventMeta) OccurredAt() time.Time { return m.At }

// CoinhouseAccountOpened is published after a new account is persisted.
type CoinhouseAccountOpened struct {
	EventMeta
	AccountID      uuid.UUID    `json:"accountID"`
	CoinhouseTag   CoinhouseTag `json:"coinhouseTag"`
	AccountPersona PersonaID    `json:"accountPersona"`
	HolderCount    int          `json:"holderCount"`
}

func (CoinhouseAccountOpened) EventName() string { return EventCoinhouseAccountOpened }

// CoinhouseAccountHolderJoined is published after a holder joins an account.
type CoinhouseAccountHolderJoined struct {
	EventMeta
	AccountID    uuid.UUID    `json:"accountID"`
	CoinhouseTag CoinhouseTag `json:"coinhouseTag"`
	HolderID     uuid.UUID    `json:"holderID"`
	HolderName   string       `json:"holderName"`
	Role         HolderRole   `json:"role"`
	ShareType    ShareType    `json:"shareType"`
}

func (CoinhouseAccountHolderJoined) EventName() string { return EventCoinhouseAccountHolderJoined }

// CoinhouseAccountHolderRemoved is published after a holder is removed.
type CoinhouseAccountHolderRemoved struct {
	EventMeta
	AccountID    uuid.UUID    `json:"accountID"`
	CoinhouseTag CoinhouseTag `json:"coinhouseTag"`
	HolderID     uuid.UUID    `json:"holderID"`
	HolderName   string       `json:"holderName"`
	Role         HolderRole   `json:"role"`
}

func (CoinhouseAccountHolderRemoved) EventName() string { return EventCoinhouseAccountHolderRemoved }

// CoinhouseAccountHolderRoleChanged is published after a holder's role changes.
type CoinhouseAccountHolderRoleChanged struct {
	EventMeta
	AccountID    uuid.UUID    `json:"accountID"`
	CoinhouseTag CoinhouseTag `json:"coinhouseTag"`
	HolderID     uuid.UUID    `json:"holderID"`
	HolderName   string       `json:"holderName"`
	PreviousRole HolderRole   `json:"previousRole"`
	NewRole      HolderRole   `json:"newRole"`
}

func (CoinhouseAccountHolderRoleChanged) EventName() string {
	return EventCoinhouseAccountHolderRoleChanged
}

// PropertyRented is published after a rental is approved and persisted.
type PropertyRented struct {
	EventMeta
	PropertyID    uuid.UUID     `json:"propertyID"`
	Tenant        PersonaID     `json:"tenant"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	NextDueDate   time.Time     `json:"nextDueDate"`
}

func (PropertyRented) EventName() string { return EventPropertyRented }

// PropertyEvicted is published after a tenant is evicted.
type PropertyEvicted struct {
	EventMeta
	PropertyID     uuid.UUID `json:"propertyID"`
	PreviousTenant PersonaID `json:"previousTenant"`
	Reason         string    `json:"reason"`
}

func (PropertyEvicted) EventName() string { return EventPropertyEvicted }
