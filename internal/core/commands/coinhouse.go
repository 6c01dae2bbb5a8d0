package commands

import (
	"github.com/SscSPs/persona_ledger/internal/core/domain"
	"github.com/google/uuid"
)

// OpenCoinhouseAccount opens an account for AccountPersona at a coinhouse.
type OpenCoinhouseAccount struct {
	Requestor           domain.PersonaID
	AccountPersona      domain.PersonaID
	CoinhouseTag        domain.CoinhouseTag
	DisplayNameOverride *string
	AdditionalHolders   []domain.AccountHolder
}

func (OpenCoinhouseAccount) CommandName() string { return "OpenCoinhouseAccount" }

// JoinCoinhouseAccount adds the requesting character as a holder.
type JoinCoinhouseAccount struct {
	Requestor    domain.PersonaID
	AccountID    uuid.UUID
	CoinhouseTag domain.CoinhouseTag
	ShareType    domain.ShareType
	HolderType   domain.HolderType
	Role         domain.HolderRole
	FirstName    string
	LastName     string
}

func (JoinCoinhouseAccount) CommandName() string { return "JoinCoinhouseAccount" }

// RemoveCoinhouseAccountHolder removes a holder from an account.
type RemoveCoinhouseAccountHolder struct {
	Requestor      domain.PersonaID
	AccountID      uuid.UUID
	CoinhouseTag   domain.CoinhouseTag
	HolderToRemove uuid.UUID
}

func (RemoveCoinhouseAccountHolder) CommandName() string { return "RemoveCoinhouseAccountHolder" }

// UpdateCoinhouseAccountHolderRole changes a non-owner holder's role.
type UpdateCoinhouseAccountHolderRole struct {
	Requestor      domain.PersonaID
	AccountID      uuid.UUID
	CoinhouseTag   domain.CoinhouseTag
	HolderToUpdate uuid.UUID
	NewRole        domain.HolderRole
}

func (UpdateCoinhouseAccountHolderRole) CommandName() string {
	return "UpdateCoinhouseAccountHolderRole"
}
