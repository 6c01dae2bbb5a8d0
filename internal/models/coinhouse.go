package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Coinhouse is one row of the coinhouses table.
type Coinhouse struct {
	CoinhouseID uuid.UUID `db:"coinhouse_id"`
	Tag         string    `db:"tag"`
	Settlement  string    `db:"settlement"`
	DisplayName string    `db:"display_name"`
}

// CoinhouseAccount is one row of coinhouse_accounts.
type CoinhouseAccount struct {
	AccountID      uuid.UUID       `db:"account_id"`
	CoinhouseID    uuid.UUID       `db:"coinhouse_id"`
	Debit          decimal.Decimal `db:"debit"`
	Credit         decimal.Decimal `db:"credit"`
	OpenedAt       time.Time       `db:"opened_at"`
	LastAccessedAt time.Time       `db:"last_accessed_at"`
}

// CoinhouseAccountHolder is one row of coinhouse_account_holders.
// Position keeps the holder order stable across saves.
type CoinhouseAccountHolder struct {
	AccountID  uuid.UUID `db:"account_id"`
	HolderID   uuid.UUID `db:"holder_id"`
	HolderType string    `db:"holder_type"`
	Role       string    `db:"role"`
	FirstName  string    `db:"first_name"`
	LastName   string    `db:"last_name"`
	Position   int       `db:"position"`
}
