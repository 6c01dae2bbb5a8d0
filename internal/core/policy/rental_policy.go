// Package policy holds pure rental decisions. Nothing here performs I/O or
// mutates the snapshots it is given.
package policy

import (
	"time"

	"github.com/SscSPs/persona_ledger/internal/core/domain"
)

// RentalDecisionReason explains a rental decision.
type RentalDecisionReason string

const (
	ReasonNone                     RentalDecisionReason = "NONE"
	ReasonPropertyUnavailable      RentalDecisionReason = "PROPERTY_UNAVAILABLE"
	ReasonCoinhouseAccountRequired RentalDecisionReason = "COINHOUSE_ACCOUNT_REQUIRED"
	ReasonInsufficientDirectFunds  RentalDecisionReason = "INSUFFICIENT_DIRECT_FUNDS"
)

// Message is the sentence shown to a player for the reason.
func (r RentalDecisionReason) Message() string {
	switch r {
	case ReasonNone:
		return ""
	case ReasonPropertyUnavailable:
		return "This property is not available to rent."
	case ReasonCoinhouseAccountRequired:
		return "Renting this property through a coinhouse requires a coinhouse account able to cover the rent."
	case ReasonInsufficientDirectFunds:
		return "This property cannot be rented out of pocket with the funds on hand."
	default:
		return "The rental request was declined."
	}
}

// RentalRequest is a tenant's request to rent a property.
type RentalRequest struct {
	Tenant        domain.PersonaID
	PaymentMethod domain.PaymentMethod
}

// PaymentCapabilities summarizes what the tenant can pay with.
type PaymentCapabilities struct {
	HasUsableCoinhouseAccount bool
	HasSufficientDirectFunds  bool
}

// RentalDecision is the outcome of EvaluateRental.
type RentalDecision struct {
	Approved bool
	Reason   RentalDecisionReason
}

func approve() RentalDecision { return RentalDecision{Approved: true, Reason: ReasonNone} }

func deny(reason RentalDecisionReason) RentalDecision {
	return RentalDecision{Approved: false, Reason: reason}
}

// EvaluateRental decides whether the request may rent the property.
func EvaluateRental(request RentalRequest, property domain.RentablePropertySnapshot, caps PaymentCapabilities) RentalDecision {
	if property.OccupancyStatus != domain.OccupancyVacant {
		return deny(ReasonPropertyUnavailable)
	}

	switch request.PaymentMethod {
	case domain.PaymentCoinhouseAccount:
		if !property.Definition.AllowsCoinhouseRental || !caps.HasUsableCoinhouseAccount {
			return deny(ReasonCoinhouseAccountRequired)
		}
	case domain.PaymentOutOfPocket:
		if !property.Definition.AllowsDirectRental || !caps.HasSufficientDirectFunds {
			return deny(ReasonInsufficientDirectFunds)
		}
	}

	return approve()
}

// IsEvictionEligible reports whether a tenancy may be evicted as of asOf.
// Both must hold: asOf's calendar date is strictly after NextDueDate plus
// the grace days, and the occupant has not been seen on or after the due date.
func IsEvictionEligible(agreement domain.RentalAgreementSnapshot, definition domain.RentablePropertyDefinition, asOf time.Time) bool {
	grace := definition.EvictionGraceDays
	if grace < 0 {
		grace = 0
	}
	dueDate := domain.DateOf(agreement.NextDueDate)
	graceEnds := dueDate.AddDate(0, 0, grace)

	if !domain.DateOf(asOf).After(graceEnds) {
		return false
	}

	if seen := agreement.LastOccupantSeenUTC; seen != nil && !seen.UTC().Before(dueDate) {
		return false
	}
	return true
}

// ShouldEvict applies IsEvictionEligible to a whole snapshot. Anything not
// Rented, or Rented without an agreement, is never evicted.
func ShouldEvict(property domain.RentablePropertySnapshot, asOf time.Time) bool {
	if property.OccupancyStatus != domain.OccupancyRented || property.ActiveRental == nil {
		return false
	}
	return IsEvictionEligible(*property.ActiveRental, property.Definition, asOf)
}
