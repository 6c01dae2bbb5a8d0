package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HolderType classifies who holds rights on an account.
type HolderType string

const (
	HolderIndividual   HolderType = "INDIVIDUAL"
	HolderOrganization HolderType = "ORGANIZATION"
	HolderGovernment   HolderType = "GOVERNMENT"
)

// HolderRole is the level of rights a holder has on an account.
type HolderRole string

const (
	RoleOwner      HolderRole = "OWNER"
	RoleJointOwner HolderRole = "JOINT_OWNER"
	RoleSignatory  HolderRole = "SIGNATORY"
	RoleViewer     HolderRole = "VIEWER"
)

// IsValid reports whether r is a known role.
func (r HolderRole) IsValid() bool {
	switch r {
	case RoleOwner, RoleJointOwner, RoleSignatory, RoleViewer:
		return true
	default:
		return false
	}
}

// CanManageHolders reports whether the role may add, remove or re-role holders.
func (r HolderRole) CanManageHolders() bool {
	return r == RoleOwner || r == RoleJointOwner
}

// IsValid reports whether t is a known holder type.
func (t HolderType) IsValid() bool {
	switch t {
	case HolderIndividual, HolderOrganization, HolderGovernment:
		return true
	default:
		return false
	}
}

// ShareType describes how an account was shared with a joining holder.
type ShareType string

const (
	ShareJointOwnership   ShareType = "JOINT_OWNERSHIP"
	ShareAuthorizedAccess ShareType = "AUTHORIZED_ACCESS"
)

// Permits reports whether a holder joining under this share type may take role r.
func (s ShareType) Permits(r HolderRole) bool {
	switch s {
	case ShareJointOwnership:
		return r == RoleJointOwner
	case ShareAuthorizedAccess:
		return r == RoleSignatory || r == RoleViewer
	default:
		return false
	}
}

// Coinhouse is an in-world bank.
type Coinhouse struct {
	ID          uuid.UUID    `json:"id"`
	Tag         CoinhouseTag `json:"tag"`
	Settlement  string       `json:"settlement"`
	DisplayName string       `json:"displayName"`
}

// AccountHolder is one entity with rights on a coinhouse account.
type AccountHolder struct {
	HolderID  uuid.UUID  `json:"holderID"`
	Type      HolderType `json:"type"`
	Role      HolderRole `json:"role"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
}

// FullName joins first and last name.
func (h AccountHolder) FullName() string {
	return joinName(h.FirstName, h.LastName)
}

// CoinhouseAccount is a bank account snapshot. It is treated as a value:
// the With* helpers return modified copies and never touch the receiver's
// holder slice.
type CoinhouseAccount struct {
	ID             uuid.UUID       `json:"id"`
	CoinhouseID    uuid.UUID       `json:"coinhouseID"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	OpenedAt       time.Time       `json:"openedAt"`
	LastAccessedAt time.Time       `json:"lastAccessedAt"`
	Holders        []AccountHolder `json:"holders"`
}

// Balance is deposits minus withdrawals.
func (a CoinhouseAccount) Balance() decimal.Decimal {
	return a.Debit.Sub(a.Credit)
}

// FindHolder returns the holder with the given id.
func (a CoinhouseAccount) FindHolder(holderID uuid.UUID) (AccountHolder, bool) {
	for _, h := range a.Holders {
		if h.HolderID == holderID {
			return h, true
		}
	}
	return AccountHolder{}, false
}

// HasHolder reports whether holderID is listed on the account.
func (a CoinhouseAccount) HasHolder(holderID uuid.UUID) bool {
	_, ok := a.FindHolder(holderID)
	return ok
}

// OwnerCount counts holders with RoleOwner.
func (a CoinhouseAccount) OwnerCount() int {
	n := 0
	for _, h := range a.Holders {
		if h.Role == RoleOwner {
			n++
		}
	}
	return n
}

// WithHolder returns a copy with holder appended. Duplicates are ignored.
func (a CoinhouseAccount) WithHolder(holder AccountHolder) CoinhouseAccount {
	if a.HasHolder(holder.HolderID) {
		return a.clone()
	}
	next := a.clone()
	next.Holders = append(next.Holders, holder)
	return next
}

// WithoutHolder returns a copy without the given holder.
func (a CoinhouseAccount) WithoutHolder(holderID uuid.UUID) CoinhouseAccount {
	next := a
	next.Holders = make([]AccountHolder, 0, len(a.Holders))
	for _, h := range a.Holders {
		if h.HolderID != holderID {
			next.Holders = append(next.Holders, h)
		}
	}
	return next
}

// WithHolderRole returns a copy with the holder's role replaced in place.
func (a CoinhouseAccount) WithHolderRole(holderID uuid.UUID, role HolderRole) CoinhouseAccount {
	next := a.clone()
	for i := range next.Holders {
		if next.Holders[i].HolderID == holderID {
			next.Holders[i].Role = role
		}
	}
	return next
}

// Touched returns a copy with LastAccessedAt set to at.
func (a CoinhouseAccount) Touched(at time.Time) CoinhouseAccount {
	next := a.clone()
	next.LastAccessedAt = at
	return next
}

func (a CoinhouseAccount) clone() CoinhouseAccount {
	next := a
	next.Holders = append([]AccountHolder(nil), a.Holders...)
	return next
}
