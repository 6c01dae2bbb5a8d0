package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PropertyCategory groups rentable properties.
type PropertyCategory string

const (
	CategoryResidential PropertyCategory = "RESIDENTIAL"
	CategoryCommercial  PropertyCategory = "COMMERCIAL"
	CategoryStorage     PropertyCategory = "STORAGE"
	CategoryGuildHall   PropertyCategory = "GUILD_HALL"
)

// OccupancyStatus is the current occupancy of a property.
type OccupancyStatus string

const (
	OccupancyVacant OccupancyStatus = "VACANT"
	OccupancyRented OccupancyStatus = "RENTED"
	OccupancyOwned  OccupancyStatus = "OWNED"
)

// PaymentMethod is how rent is paid.
type PaymentMethod string

const (
	PaymentOutOfPocket      PaymentMethod = "OUT_OF_POCKET"
	PaymentCoinhouseAccount PaymentMethod = "COINHOUSE_ACCOUNT"
)

// IsValid reports whether m is a known payment method.
func (m PaymentMethod) IsValid() bool {
	return m == PaymentOutOfPocket || m == PaymentCoinhouseAccount
}

// RentablePropertyDefinition is an immutable catalog entry.
type RentablePropertyDefinition struct {
	ID                     uuid.UUID        `json:"id"`
	InternalName           string           `json:"internalName"`
	Settlement             string           `json:"settlement"`
	Category               PropertyCategory `json:"category"`
	MonthlyRent            decimal.Decimal  `json:"monthlyRent"`
	AllowsCoinhouseRental  bool             `json:"allowsCoinhouseRental"`
	AllowsDirectRental     bool             `json:"allowsDirectRental"`
	SettlementCoinhouseTag *CoinhouseTag    `json:"settlementCoinhouseTag,omitempty"`
	PurchasePrice          *decimal.Decimal `json:"purchasePrice,omitempty"`
	MonthlyOwnershipTax    *decimal.Decimal `json:"monthlyOwnershipTax,omitempty"`
	EvictionGraceDays      int              `json:"evictionGraceDays"`
}

// RentalAgreementSnapshot is the active tenancy of a rented property.
// RentalStart and NextDueDate are calendar dates held as UTC midnight.
type RentalAgreementSnapshot struct {
	Tenant              PersonaID       `json:"tenant"`
	RentalStart         time.Time       `json:"rentalStart"`
	NextDueDate         time.Time       `json:"nextDueDate"`
	MonthlyRent         decimal.Decimal `json:"monthlyRent"`
	PaymentMethod       PaymentMethod   `json:"paymentMethod"`
	LastOccupantSeenUTC *time.Time      `json:"lastOccupantSeenUtc,omitempty"`
}

// RentablePropertySnapshot is a point-in-time read model of one property.
type RentablePropertySnapshot struct {
	Definition      RentablePropertyDefinition `json:"definition"`
	OccupancyStatus OccupancyStatus            `json:"occupancyStatus"`
	CurrentTenant   *PersonaID                 `json:"currentTenant,omitempty"`
	CurrentOwner    *PersonaID                 `json:"currentOwner,omitempty"`
	Residents       []PersonaID                `json:"residents"`
	ActiveRental    *RentalAgreementSnapshot   `json:"activeRental,omitempty"`
}

// HasResident reports whether persona is listed as a resident.
func (s RentablePropertySnapshot) HasResident(persona PersonaID) bool {
	for _, r := range s.Residents {
		if r == persona {
			return true
		}
	}
	return false
}

// Vacated returns a copy with tenancy, residents and agreement cleared.
func (s RentablePropertySnapshot) Vacated() RentablePropertySnapshot {
	next := s
	next.OccupancyStatus = OccupancyVacant
	next.CurrentTenant = nil
	next.Residents = []PersonaID{}
	next.ActiveRental = nil
	return next
}

// RentedTo returns a copy occupied by the agreement's tenant.
func (s RentablePropertySnapshot) RentedTo(agreement RentalAgreementSnapshot) RentablePropertySnapshot {
	tenant := agreement.Tenant
	next := s
	next.OccupancyStatus = OccupancyRented
	next.CurrentTenant = &tenant
	next.Residents = []PersonaID{tenant}
	next.ActiveRental = &agreement
	return next
}

// WithOccupantSeen returns a copy whose agreement records a sighting at seenAt.
// Snapshots without an agreement are returned unchanged.
func (s RentablePropertySnapshot) WithOccupantSeen(seenAt time.Time) RentablePropertySnapshot {
	if s.ActiveRental == nil {
		return s
	}
	agreement := *s.ActiveRental
	seen := seenAt.UTC()
	agreement.LastOccupantSeenUTC = &seen
	next := s
	next.ActiveRental = &agreement
	return next
}

// DateOf truncates t to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
