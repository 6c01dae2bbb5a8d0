package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RentableProperty is one row of rentable_properties. The rental_* columns
// hold the active agreement and are all NULL when there is none.
type RentableProperty struct {
	PropertyID             uuid.UUID           `db:"property_id"`
	InternalName           string              `db:"internal_name"`
	Settlement             string              `db:"settlement"`
	Category               string              `db:"category"`
	MonthlyRent            decimal.Decimal     `db:"monthly_rent"`
	AllowsCoinhouseRental  bool                `db:"allows_coinhouse_rental"`
	AllowsDirectRental     bool                `db:"allows_direct_rental"`
	SettlementCoinhouseTag sql.NullString      `db:"settlement_coinhouse_tag"`
	PurchasePrice          decimal.NullDecimal `db:"purchase_price"`
	MonthlyOwnershipTax    decimal.NullDecimal `db:"monthly_ownership_tax"`
	EvictionGraceDays      int                 `db:"eviction_grace_days"`
	OccupancyStatus        string              `db:"occupancy_status"`
	CurrentTenant          sql.NullString      `db:"current_tenant"`
	CurrentOwner           sql.NullString      `db:"current_owner"`
	RentalTenant           sql.NullString      `db:"rental_tenant"`
	RentalStart            sql.NullTime        `db:"rental_start"`
	NextDueDate            sql.NullTime        `db:"next_due_date"`
	RentalMonthlyRent      decimal.NullDecimal `db:"rental_monthly_rent"`
	PaymentMethod          sql.NullString      `db:"payment_method"`
	LastOccupantSeenUTC    *time.Time          `db:"last_occupant_seen_utc"`
	Residents              []string            `db:"-"`
}
