package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/persona_ledger/internal/apperrors"
	"github.com/SscSPs/persona_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/persona_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/persona_ledger/internal/models"
	"github.com/SscSPs/persona_ledger/internal/utils/mapping"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectPersonaColumns = `
	SELECT persona_id, persona_type, display_name, native_id, first_name, last_name,
	       coinhouse_tag, settlement, owner_player_id, created_at
	FROM personas`

// PgxPersonaRepository resolves personas and organization memberships.
type PgxPersonaRepository struct {
	BaseRepository
}

func newPgxPersonaRepository(pool *pgxpool.Pool) *PgxPersonaRepository {
	return &PgxPersonaRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var (
	_ portsrepo.PersonaRepositoryFacade      = (*PgxPersonaRepository)(nil)
	_ portsrepo.OrganizationMembershipReader = (*PgxPersonaRepository)(nil)
)

func scanPersona(row pgx.Row) (models.Persona, error) {
	var m models.Persona
	err := row.Scan(
		&m.PersonaID,
		&m.PersonaType,
		&m.DisplayName,
		&m.NativeID,
		&m.FirstName,
		&m.LastName,
		&m.CoinhouseTag,
		&m.Settlement,
		&m.OwnerPlayerID,
		&m.CreatedAt,
	)
	return m, err
}

// Exists reports whether a persona row is registered.
func (r *PgxPersonaRepository) Exists(ctx context.Context, id domain.PersonaID) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM personas WHERE persona_id = $1)`, id.String()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check persona %s: %w", id, err)
	}
	return exists, nil
}

// GetPersona resolves one persona.
func (r *PgxPersonaRepository) GetPersona(ctx context.Context, id domain.PersonaID) (domain.Persona, error) {
	m, err := scanPersona(r.Pool.QueryRow(ctx, selectPersonaColumns+` WHERE persona_id = $1`, id.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("persona %s not found", id))
		}
		return nil, fmt.Errorf("failed to get persona %s: %w", id, err)
	}
	return mapping.ToDomainPersona(m)
}

// GetPersonas resolves many personas in one query. Unknown ids are omitted.
func (r *PgxPersonaRepository) GetPersonas(ctx context.Context, ids []domain.PersonaID) (map[domain.PersonaID]domain.Persona, error) {
	result := make(map[domain.PersonaID]domain.Persona, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	rows, err := r.Pool.Query(ctx, selectPersonaColumns+` WHERE persona_id = ANY($1)`, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to query personas: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanPersona(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan persona row: %w", err)
		}
		p, err := mapping.ToDomainPersona(m)
		if err != nil {
			return nil, err
		}
		result[p.PersonaID()] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating persona rows: %w", err)
	}
	return result, nil
}

// FindOwningPlayer returns the player owning the character, or nil when none is recorded.
func (r *PgxPersonaRepository) FindOwningPlayer(ctx context.Context, character domain.CharacterID) (*domain.PersonaID, error) {
	var owner *string
	err := r.Pool.QueryRow(ctx,
		`SELECT owner_player_id FROM personas WHERE persona_id = $1`,
		domain.FromCharacter(character).String(),
	).Scan(&owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find owner of character %s: %w", character, err)
	}
	if owner == nil {
		return nil, nil
	}
	id, err := domain.ParsePersonaID(*owner)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// FindMembership returns the character's membership in the organization.
func (r *PgxPersonaRepository) FindMembership(ctx context.Context, organizationID domain.OrganizationID, characterID domain.CharacterID) (*domain.OrganizationMember, error) {
	var m models.OrganizationMember
	err := r.Pool.QueryRow(ctx, `
		SELECT organization_id, character_id, status, rank, joined_at
		FROM organization_members
		WHERE organization_id = $1 AND character_id = $2`,
		uuid.UUID(organizationID), uuid.UUID(characterID),
	).Scan(&m.OrganizationID, &m.CharacterID, &m.Status, &m.Rank, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}
	member := mapping.ToDomainOrganizationMember(m)
	return &member, nil
}
