package pgsql

import (
	portsrepo "github.com/SscSPs/persona_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	personaRepo := newPgxPersonaRepository(dbPool)

	return portsrepo.RepositoryProvider{
		CoinhouseRepo:  newPgxCoinhouseRepository(dbPool),
		PropertyRepo:   newPgxPropertyRepository(dbPool),
		PersonaRepo:    personaRepo,
		MembershipRepo: personaRepo,
		WalletRepo:     newPgxWalletRepository(dbPool),
	}
}
