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

// PgxCoinhouseRepository stores coinhouses and their accounts.
type PgxCoinhouseRepository struct {
	BaseRepository
}

func newPgxCoinhouseRepository(pool *pgxpool.Pool) *PgxCoinhouseRepository {
	return &PgxCoinhouseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CoinhouseRepositoryFacade = (*PgxCoinhouseRepository)(nil)

// GetByTag retrieves a coinhouse by its normalized tag.
func (r *PgxCoinhouseRepository) GetByTag(ctx context.Context, tag domain.CoinhouseTag) (*domain.Coinhouse, error) {
	normalized := domain.NormalizeCoinhouseTag(string(tag))
	var m models.Coinhouse
	err := r.Pool.QueryRow(ctx, `
		SELECT coinhouse_id, tag, settlement, display_name
		FROM coinhouses
		WHERE tag = $1`, string(normalized),
	).Scan(&m.CoinhouseID, &m.Tag, &m.Settlement, &m.DisplayName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("coinhouse %q not found", normalized))
		}
		return nil, fmt.Errorf("failed to get coinhouse %q: %w", normalized, err)
	}
	coinhouse := mapping.ToDomainCoinhouse(m)
	return &coinhouse, nil
}

// GetAccountFor loads an account with its holders in position order.
func (r *PgxCoinhouseRepository) GetAccountFor(ctx context.Context, accountID uuid.UUID) (*domain.CoinhouseAccount, error) {
	var m models.CoinhouseAccount
	err := r.Pool.QueryRow(ctx, `
		SELECT account_id, coinhouse_id, debit, credit, opened_at, last_accessed_at
		FROM coinhouse_accounts
		WHERE account_id = $1`, accountID,
	).Scan(&m.AccountID, &m.CoinhouseID, &m.Debit, &m.Credit, &m.OpenedAt, &m.LastAccessedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("coinhouse account %s not found", accountID))
		}
		return nil, fmt.Errorf("failed to get coinhouse account %s: %w", accountID, err)
	}

	rows, err := r.Pool.Query(ctx, `
		SELECT account_id, holder_id, holder_type, role, first_name, last_name, position
		FROM coinhouse_account_holders
		WHERE account_id = $1
		ORDER BY position`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holders of account %s: %w", accountID, err)
	}
	defer rows.Close()

	var holders []models.CoinhouseAccountHolder
	for rows.Next() {
		var h models.CoinhouseAccountHolder
		if err := rows.Scan(&h.AccountID, &h.HolderID, &h.HolderType, &h.Role, &h.FirstName, &h.LastName, &h.Position); err != nil {
			return nil, fmt.Errorf("failed to scan holder row: %w", err)
		}
		holders = append(holders, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holder rows: %w", err)
	}

	account := mapping.ToDomainCoinhouseAccount(m, holders)
	return &account, nil
}

// SaveAccount upserts the account row and replaces its holder list in one transaction.
func (r *PgxCoinhouseRepository) SaveAccount(ctx context.Context, account domain.CoinhouseAccount) error {
	m, holders := mapping.ToModelCoinhouseAccount(account)

	return r.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO coinhouse_accounts (account_id, coinhouse_id, debit, credit, opened_at, last_accessed_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (account_id) DO UPDATE SET
				debit = EXCLUDED.debit,
				credit = EXCLUDED.credit,
				last_accessed_at = EXCLUDED.last_accessed_at`,
			m.AccountID, m.CoinhouseID, m.Debit, m.Credit, m.OpenedAt, m.LastAccessedAt,
		)
		if err != nil {
			return mapWriteError(err, "coinhouse account "+m.AccountID.String())
		}

		if _, err := tx.Exec(ctx, `DELETE FROM coinhouse_account_holders WHERE account_id = $1`, m.AccountID); err != nil {
			return fmt.Errorf("failed to clear holders of account %s: %w", m.AccountID, err)
		}

		batch := &pgx.Batch{}
		for _, h := range holders {
			batch.Queue(`
				INSERT INTO coinhouse_account_holders (account_id, holder_id, holder_type, role, first_name, last_name, position)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				h.AccountID, h.HolderID, h.HolderType, h.Role, h.FirstName, h.LastName, h.Position,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return mapWriteError(err, "holders of account "+m.AccountID.String())
		}
		return nil
	})
}
