package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/persona_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/persona_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxWalletRepository reads coin carried on hand.
type PgxWalletRepository struct {
	BaseRepository
}

func newPgxWalletRepository(pool *pgxpool.Pool) *PgxWalletRepository {
	return &PgxWalletRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CharacterWalletReader = (*PgxWalletRepository)(nil)

// GetDirectFunds returns the persona's on-hand funds; zero when it has no wallet row.
func (r *PgxWalletRepository) GetDirectFunds(ctx context.Context, persona domain.PersonaID) (decimal.Decimal, error) {
	var funds decimal.Decimal
	err := r.Pool.QueryRow(ctx, `SELECT funds FROM character_wallets WHERE persona_id = $1`, persona.String()).Scan(&funds)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to get wallet of %s: %w", persona, err)
	}
	return funds, nil
}
