package dto

import (
	"time"

	"github.com/SscSPs/persona_ledger/internal/core/commands"
	"github.com/SscSPs/persona_ledger/internal/core/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PropertyURI binds the property path parameter.
type PropertyURI struct {
	PropertyID string `uri:"propertyID" binding:"required,uuid"`
}

// RentPropertyRequest is the body of POST /properties/:propertyID/rent.
// Tenant defaults to the requestor.
type RentPropertyRequest struct {
	Tenant        string `json:"tenant" binding:"omitempty,personaid"`
	PaymentMethod string `json:"paymentMethod" binding:"required"`
}

// ToCommand builds the command issued by requestor.
func (r RentPropertyRequest) ToCommand(requestor domain.PersonaID, uri PropertyURI) commands.RentProperty {
	tenant := requestor
	if r.Tenant != "" {
		tenant = domain.MustParsePersonaID(r.Tenant)
	}
	return commands.RentProperty{
		Requestor:     requestor,
		Tenant:        tenant,
		PropertyID:    uuid.MustParse(uri.PropertyID),
		PaymentMethod: domain.PaymentMethod(r.PaymentMethod),
	}
}

// RecordPresenceRequest is the body of POST /properties/:propertyID/presence.
// Occupant defaults to the requestor and SeenAt to now.
type RecordPresenceRequest struct {
	Occupant string     `json:"occupant" binding:"omitempty,personaid"`
	SeenAt   *time.Time `json:"seenAt,omitempty"`
}

// ToCommand builds the command issued by requestor.
func (r RecordPresenceRequest) ToCommand(requestor domain.PersonaID, uri PropertyURI) commands.RecordOccupantPresence {
	occupant := requestor
	if r.Occupant != "" {
		occupant = domain.MustParsePersonaID(r.Occupant)
	}
	cmd := commands.RecordOccupantPresence{
		Requestor:  requestor,
		Occupant:   occupant,
		PropertyID: uuid.MustParse(uri.PropertyID),
	}
	if r.SeenAt != nil {
		cmd.SeenAt = *r.SeenAt
	}
	return cmd
}

// RentalAgreementResponse is the public view of an active agreement.
type RentalAgreementResponse struct {
	Tenant              string          `json:"tenant"`
	RentalStart         string          `json:"rentalStart"`
	NextDueDate         string          `json:"nextDueDate"`
	MonthlyRent         decimal.Decimal `json:"monthlyRent"`
	PaymentMethod       string          `json:"paymentMethod"`
	LastOccupantSeenUTC *time.Time      `json:"lastOccupantSeenUtc,omitempty"`
}

// PropertyResponse is the public view of a property snapshot.
type PropertyResponse struct {
	PropertyID      string                   `json:"propertyId"`
	InternalName    string                   `json:"internalName"`
	Settlement      string                   `json:"settlement"`
	Category        string                   `json:"category"`
	MonthlyRent     decimal.Decimal          `json:"monthlyRent"`
	OccupancyStatus string                   `json:"occupancyStatus"`
	Residents       []string                 `json:"residents"`
	ActiveRental    *RentalAgreementResponse `json:"activeRental,omitempty"`
}

const dateLayout = "2006-01-02"

// ToPropertyResponse converts a snapshot.
func ToPropertyResponse(p domain.RentablePropertySnapshot) PropertyResponse {
	resp := PropertyResponse{
		PropertyID:      p.Definition.ID.String(),
		InternalName:    p.Definition.InternalName,
		Settlement:      p.Definition.Settlement,
		Category:        string(p.Definition.Category),
		MonthlyRent:     p.Definition.MonthlyRent,
		OccupancyStatus: string(p.OccupancyStatus),
		Residents:       make([]string, len(p.Residents)),
	}
	for i, r := range p.Residents {
		resp.Residents[i] = r.String()
	}
	if a := p.ActiveRental; a != nil {
		resp.ActiveRental = &RentalAgreementResponse{
			Tenant:              a.Tenant.String(),
			RentalStart:         a.RentalStart.Format(dateLayout),
			NextDueDate:         a.NextDueDate.Format(dateLayout),
			MonthlyRent:         a.MonthlyRent,
			PaymentMethod:       string(a.PaymentMethod),
			LastOccupantSeenUTC: a.LastOccupantSeenUTC,
		}
	}
	return resp
}

// ToPropertyResponses converts a list of snapshots.
func ToPropertyResponses(properties []domain.RentablePropertySnapshot) []PropertyResponse {
	out := make([]PropertyResponse, len(properties))
	for i, p := range properties {
		out[i] = ToPropertyResponse(p)
	}
	return out
}
