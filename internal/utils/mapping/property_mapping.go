package mapping

import (
	"database/sql"

	"github.com/SscSPs/persona_ledger/internal/core/domain"
	"github.com/SscSPs/persona_ledger/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelRentableProperty flattens a property snapshot into its row and
// resident list.
func ToModelRentableProperty(d domain.RentablePropertySnapshot) models.RentableProperty {
	def := d.Definition
	m := models.RentableProperty{
		PropertyID:            def.ID,
		InternalName:          def.InternalName,
		Settlement:            def.Settlement,
		Category:              string(def.Category),
		MonthlyRent:           def.MonthlyRent,
		AllowsCoinhouseRental: def.AllowsCoinhouseRental,
		AllowsDirectRental:    def.AllowsDirectRental,
		EvictionGraceDays:     def.EvictionGraceDays,
		OccupancyStatus:       string(d.OccupancyStatus),
		CurrentTenant:         nullPersona(d.CurrentTenant),
		CurrentOwner:          nullPersona(d.CurrentOwner),
		Residents:             make([]string, len(d.Residents)),
	}
	if def.SettlementCoinhouseTag != nil {
		m.SettlementCoinhouseTag = nullString(string(*def.SettlementCoinhouseTag))
	}
	m.PurchasePrice = nullDecimal(def.PurchasePrice)
	m.MonthlyOwnershipTax = nullDecimal(def.MonthlyOwnershipTax)

	for i, r := range d.Residents {
		m.Residents[i] = r.String()
	}

	if rental := d.ActiveRental; rental != nil {
		m.RentalTenant = nullString(rental.Tenant.String())
		m.RentalStart = sql.NullTime{Time: domain.DateOf(rental.RentalStart), Valid: true}
		m.NextDueDate = sql.NullTime{Time: domain.DateOf(rental.NextDueDate), Valid: true}
		m.RentalMonthlyRent = decimal.NewNullDecimal(rental.MonthlyRent)
		m.PaymentMethod = nullString(string(rental.PaymentMethod))
		if rental.LastOccupantSeenUTC != nil {
			seen := rental.LastOccupantSeenUTC.UTC()
			m.LastOccupantSeenUTC = &seen
		}
	}
	return m
}

// ToDomainRentableProperty rebuilds a snapshot from its row.
func ToDomainRentableProperty(m models.RentableProperty) (domain.RentablePropertySnapshot, error) {
	def := domain.RentablePropertyDefinition{
		ID:                    m.PropertyID,
		InternalName:          m.InternalName,
		Settlement:            m.Settlement,
		Category:              domain.PropertyCategory(m.Category),
		MonthlyRent:           m.MonthlyRent,
		AllowsCoinhouseRental: m.AllowsCoinhouseRental,
		AllowsDirectRental:    m.AllowsDirectRental,
		EvictionGraceDays:     m.EvictionGraceDays,
	}
	if m.SettlementCoinhouseTag.Valid {
		tag := domain.NormalizeCoinhouseTag(m.SettlementCoinhouseTag.String)
		def.SettlementCoinhouseTag = &tag
	}
	if m.PurchasePrice.Valid {
		price := m.PurchasePrice.Decimal
		def.PurchasePrice = &price
	}
	if m.MonthlyOwnershipTax.Valid {
		tax := m.MonthlyOwnershipTax.Decimal
		def.MonthlyOwnershipTax = &tax
	}

	snapshot := domain.RentablePropertySnapshot{
		Definition:      def,
		OccupancyStatus: domain.OccupancyStatus(m.OccupancyStatus),
		Residents:       make([]domain.PersonaID, 0, len(m.Residents)),
	}

	var err error
	if snapshot.CurrentTenant, err = parseNullPersona(m.CurrentTenant); err != nil {
		return domain.RentablePropertySnapshot{}, err
	}
	if snapshot.CurrentOwner, err = parseNullPersona(m.CurrentOwner); err != nil {
		return domain.RentablePropertySnapshot{}, err
	}
	for _, raw := range m.Residents {
		resident, err := domain.ParsePersonaID(raw)
		if err != nil {
			return domain.RentablePropertySnapshot{}, err
		}
		snapshot.Residents = append(snapshot.Residents, resident)
	}

	if m.RentalTenant.Valid {
		tenant, err := domain.ParsePersonaID(m.RentalTenant.String)
		if err != nil {
			return domain.RentablePropertySnapshot{}, err
		}
		agreement := domain.RentalAgreementSnapshot{
			Tenant:        tenant,
			RentalStart:   domain.DateOf(m.RentalStart.Time),
			NextDueDate:   domain.DateOf(m.NextDueDate.Time),
			MonthlyRent:   m.RentalMonthlyRent.Decimal,
			PaymentMethod: domain.PaymentMethod(m.PaymentMethod.String),
		}
		if m.LastOccupantSeenUTC != nil {
			seen := m.LastOccupantSeenUTC.UTC()
			agreement.LastOccupantSeenUTC = &seen
		}
		snapshot.ActiveRental = &agreement
	}
	return snapshot, nil
}

func nullPersona(id *domain.PersonaID) sql.NullString {
	if id == nil {
		return sql.NullString{}
	}
	return nullString(id.String())
}

func parseNullPersona(s sql.NullString) (*domain.PersonaID, error) {
	if !s.Valid {
		return nil, nil
	}
	id, err := domain.ParsePersonaID(s.String)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}
