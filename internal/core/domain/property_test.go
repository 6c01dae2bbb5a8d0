package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/persona_ledger/internal/core/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vacantProperty() domain.RentablePropertySnapshot {
	return domain.RentablePropertySnapshot{
		Definition: domain.RentablePropertyDefinition{
			ID:           uuid.New(),
			InternalName: "cordor_townhouse_3",
			Settlement:   "Cordor",
			Category:     domain.CategoryResidential,
			MonthlyRent:  decimal.NewFromInt(250),
		},
		OccupancyStatus: domain.OccupancyVacant,
		Residents:       []domain.PersonaID{},
	}
}

func TestRentablePropertySnapshot_RentedToThenVacated(t *testing.T) {
	tenant := domain.FromCharacter(domain.CharacterID(uuid.New()))
	vacant := vacantProperty()

	rented := vacant.RentedTo(domain.RentalAgreementSnapshot{
		Tenant:      tenant,
		RentalStart: time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
		NextDueDate: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		MonthlyRent: decimal.NewFromInt(250),
	})

	assert.Equal(t, domain.OccupancyVacant, vacant.OccupancyStatus)
	assert.Equal(t, domain.OccupancyRented, rented.OccupancyStatus)
	require.NotNil(t, rented.CurrentTenant)
	assert.Equal(t, tenant, *rented.CurrentTenant)
	assert.True(t, rented.HasResident(tenant))

	cleared := rented.Vacated()

	assert.Equal(t, domain.OccupancyVacant, cleared.OccupancyStatus)
	assert.Nil(t, cleared.CurrentTenant)
	assert.Nil(t, cleared.ActiveRental)
	assert.Empty(t, cleared.Residents)
	assert.Equal(t, rented.Definition, cleared.Definition)
	assert.NotNil(t, rented.ActiveRental)
}

func TestRentablePropertySnapshot_WithOccupantSeen(t *testing.T) {
	tenant := domain.FromCharacter(domain.CharacterID(uuid.New()))
	rented := vacantProperty().RentedTo(domain.RentalAgreementSnapshot{Tenant: tenant})
	seenAt := time.Date(2025, 11, 3, 22, 15, 0, 0, time.FixedZone("CET", 3600))

	next := rented.WithOccupantSeen(seenAt)

	require.NotNil(t, next.ActiveRental.LastOccupantSeenUTC)
	assert.Equal(t, time.UTC, next.ActiveRental.LastOccupantSeenUTC.Location())
	assert.True(t, seenAt.Equal(*next.ActiveRental.LastOccupantSeenUTC))
	assert.Nil(t, rented.ActiveRental.LastOccupantSeenUTC)

	vacant := vacantProperty()
	assert.Equal(t, vacant, vacant.WithOccupantSeen(seenAt))
}

func TestDateOf(t *testing.T) {
	late := time.Date(2025, 11, 1, 23, 30, 0, 0, time.FixedZone("EST", -5*3600))
	assert.Equal(t, time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC), domain.DateOf(late))
}
