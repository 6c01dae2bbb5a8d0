package repositories

import (
	"context"

	"github.com/SscSPs/persona_ledger/internal/core/domain"
	"github.com/google/uuid"
)

// CoinhouseReader defines read operations for coinhouses.
type CoinhouseReader interface {
	// GetByTag retrieves a coinhouse by its normalized tag.
	// Returns apperrors.ErrNotFound when no coinhouse carries the tag.
	GetByTag(ctx context.Context, tag domain.CoinhouseTag) (*domain.Coinhouse, error)
}

// CoinhouseAccountReader defines read operations for coinhouse accounts.
type CoinhouseAccountReader interface {
	// GetAccountFor retrieves the full account snapshot including holders.
	// Returns apperrors.ErrNotFound when the account does not exist.
	GetAccountFor(ctx context.Context, accountID uuid.UUID) (*domain.CoinhouseAccount, error)
}

// CoinhouseAccountWriter defines write operations for coinhouse accounts.
type CoinhouseAccountWriter interface {
	// SaveAccount replaces the whole account snapshot, holders included.
	SaveAccount(ctx context.Context, account domain.CoinhouseAccount) error
}

// CoinhouseRepositoryFacade combines all coinhouse-related repository interfaces.
type CoinhouseRepositoryFacade interface {
	CoinhouseReader
	CoinhouseAccountReader
	CoinhouseAccountWriter
}
