package repositories

import (
	"context"

	"github.com/SscSPs/persona_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CharacterWalletReader reports the coin a persona carries on hand.
type CharacterWalletReader interface {
	// GetDirectFunds returns the persona's on-hand funds; zero when it has no wallet.
	GetDirectFunds(ctx context.Context, persona domain.PersonaID) (decimal.Decimal, error)
}
