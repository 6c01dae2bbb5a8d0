package dto

import (
	"github.com/SscSPs/persona_ledger/internal/core/commands"
	"github.com/SscSPs/persona_ledger/internal/core/domain"
	"github.com/google/uuid"
)

// CoinhouseURI binds the coinhouse tag path parameter.
type CoinhouseURI struct {
	Tag string `uri:"tag" binding:"required,coinhousetag"`
}

// CoinhouseAccountURI binds the account path parameters.
type CoinhouseAccountURI struct {
	Tag       string `uri:"tag" binding:"required,coinhousetag"`
	AccountID string `uri:"accountID" binding:"required,uuid"`
}

// CoinhouseHolderURI binds the holder path parameters.
type CoinhouseHolderURI struct {
	Tag       string `uri:"tag" binding:"required,coinhousetag"`
	AccountID string `uri:"accountID" binding:"required,uuid"`
	HolderID  string `uri:"holderID" binding:"required,uuid"`
}

// AccountHolderRequest describes one holder named when an account is opened.
type AccountHolderRequest struct {
	HolderID  string `json:"holderId" binding:"required,uuid"`
	Type      string `json:"type" binding:"required"`
	Role      string `json:"role" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// OpenCoinhouseAccountRequest is the body of POST /coinhouses/:tag/accounts.
type OpenCoinhouseAccountRequest struct {
	AccountPersona      string                 `json:"accountPersona" binding:"required,personaid"`
	DisplayNameOverride *string                `json:"displayNameOverride,omitempty"`
	AdditionalHolders   []AccountHolderRequest `json:"additionalHolders" binding:"omitempty,dive"`
}

// ToCommand builds the command issued by requestor.
func (r OpenCoinhouseAccountRequest) ToCommand(requestor domain.PersonaID, uri CoinhouseURI) commands.OpenCoinhouseAccount {
	holders := make([]domain.AccountHolder, 0, len(r.AdditionalHolders))
	for _, h := range r.AdditionalHolders {
		holders = append(holders, domain.AccountHolder{
			HolderID:  uuid.MustParse(h.HolderID),
			Type:      domain.HolderType(h.Type),
			Role:      domain.HolderRole(h.Role),
			FirstName: h.FirstName,
			LastName:  h.LastName,
		})
	}
	return commands.OpenCoinhouseAccount{
		Requestor:           requestor,
		AccountPersona:      domain.MustParsePersonaID(r.AccountPersona),
		CoinhouseTag:        domain.NormalizeCoinhouseTag(uri.Tag),
		DisplayNameOverride: r.DisplayNameOverride,
		AdditionalHolders:   holders,
	}
}

// JoinCoinhouseAccountRequest is the body of POST .../accounts/:accountID/holders.
type JoinCoinhouseAccountRequest struct {
	ShareType  string `json:"shareType" binding:"required"`
	HolderType string `json:"holderType" binding:"required"`
	Role       string `json:"role" binding:"required"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
}

// ToCommand builds the command issued by requestor.
func (r JoinCoinhouseAccountRequest) ToCommand(requestor domain.PersonaID, uri CoinhouseAccountURI) commands.JoinCoinhouseAccount {
	return commands.JoinCoinhouseAccount{
		Requestor:    requestor,
		AccountID:    uuid.MustParse(uri.AccountID),
		CoinhouseTag: domain.NormalizeCoinhouseTag(uri.Tag),
		ShareType:    domain.ShareType(r.ShareType),
		HolderType:   domain.HolderType(r.HolderType),
		Role:         domain.HolderRole(r.Role),
		FirstName:    r.FirstName,
		LastName:     r.LastName,
	}
}

// UpdateHolderRoleRequest is the body of PUT .../holders/:holderID/role.
type UpdateHolderRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ToCommand builds the command issued by requestor.
func (r UpdateHolderRoleRequest) ToCommand(requestor domain.PersonaID, uri CoinhouseHolderURI) commands.UpdateCoinhouseAccountHolderRole {
	return commands.UpdateCoinhouseAccountHolderRole{
		Requestor:      requestor,
		AccountID:      uuid.MustParse(uri.AccountID),
		CoinhouseTag:   domain.NormalizeCoinhouseTag(uri.Tag),
		HolderToUpdate: uuid.MustParse(uri.HolderID),
		NewRole:        domain.HolderRole(r.Role),
	}
}

// RemoveHolderCommand builds the removal command for the holder in uri.
func RemoveHolderCommand(requestor domain.PersonaID, uri CoinhouseHolderURI) commands.RemoveCoinhouseAccountHolder {
	return commands.RemoveCoinhouseAccountHolder{
		Requestor:      requestor,
		AccountID:      uuid.MustParse(uri.AccountID),
		CoinhouseTag:   domain.NormalizeCoinhouseTag(uri.Tag),
		HolderToRemove: uuid.MustParse(uri.HolderID),
	}
}
