package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Persona is one row of the personas table. Kind-specific columns are
// NULL or empty for persona kinds that do not carry them.
type Persona struct {
	PersonaID     string         `db:"persona_id"`
	PersonaType   string         `db:"persona_type"`
	DisplayName   string         `db:"display_name"`
	NativeID      *uuid.UUID     `db:"native_id"`
	FirstName     string         `db:"first_name"`
	LastName      string         `db:"last_name"`
	CoinhouseTag  sql.NullString `db:"coinhouse_tag"`
	Settlement    sql.NullString `db:"settlement"`
	OwnerPlayerID sql.NullString `db:"owner_player_id"`
	CreatedAt     time.Time      `db:"created_at"`
}

// OrganizationMember is one row of organization_members.
type OrganizationMember struct {
	OrganizationID uuid.UUID `db:"organization_id"`
	CharacterID    uuid.UUID `db:"character_id"`
	Status         string    `db:"status"`
	Rank           string    `db:"rank"`
	JoinedAt       time.Time `db:"joined_at"`
}
