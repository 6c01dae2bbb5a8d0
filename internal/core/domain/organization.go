package domain

import "time"

// MembershipStatus is the standing of a character within an organization.
type MembershipStatus string

const (
	MembershipActive    MembershipStatus = "ACTIVE"
	MembershipInactive  MembershipStatus = "INACTIVE"
	MembershipSuspended MembershipStatus = "SUSPENDED"
	MembershipDeparted  MembershipStatus = "DEPARTED"
)

// OrganizationRank is a character's designation within an organization.
type OrganizationRank string

const (
	RankLeader  OrganizationRank = "LEADER"
	RankOfficer OrganizationRank = "OFFICER"
	RankMember  OrganizationRank = "MEMBER"
	RankRecruit OrganizationRank = "RECRUIT"
)

// OrganizationMember is a character's membership record in one organization.
type OrganizationMember struct {
	OrganizationID OrganizationID   `json:"organizationID"`
	CharacterID    CharacterID      `json:"characterID"`
	Status         MembershipStatus `json:"status"`
	Rank           OrganizationRank `json:"rank"`
	JoinedAt       time.Time        `json:"joinedAt"`
}

// IsActive reports whether the membership is in good standing.
func (m OrganizationMember) IsActive() bool {
	return m.Status == MembershipActive
}

// IsLeadership reports whether the member holds a leadership designation.
func (m OrganizationMember) IsLeadership() bool {
	return m.Rank == RankLeader || m.Rank == RankOfficer
}
