package mapping

import (
	"github.com/SscSPs/persona_ledger/internal/core/domain"
	"github.com/SscSPs/persona_ledger/internal/models"
)

// ToDomainCoinhouse converts a coinhouses row.
func ToDomainCoinhouse(m models.Coinhouse) domain.Coinhouse {
	return domain.Coinhouse{
		ID:          m.CoinhouseID,
		Tag:         domain.NormalizeCoinhouseTag(m.Tag),
		Settlement:  m.Settlement,
		DisplayName: m.DisplayName,
	}
}

// ToModelCoinhouseAccount splits an account snapshot into its account row
// and ordered holder rows.
func ToModelCoinhouseAccount(d domain.CoinhouseAccount) (models.CoinhouseAccount, []models.CoinhouseAccountHolder) {
	account := models.CoinhouseAccount{
		AccountID:      d.ID,
		CoinhouseID:    d.CoinhouseID,
		Debit:          d.Debit,
		Credit:         d.Credit,
		OpenedAt:       d.OpenedAt,
		LastAccessedAt: d.LastAccessedAt,
	}
	holders := make([]models.CoinhouseAccountHolder, len(d.Holders))
	for i, h := range d.Holders {
		holders[i] = models.CoinhouseAccountHolder{
			AccountID:  d.ID,
			HolderID:   h.HolderID,
			HolderType: string(h.Type),
			Role:       string(h.Role),
			FirstName:  h.FirstName,
			LastName:   h.LastName,
			Position:   i,
		}
	}
	return account, holders
}

// ToDomainCoinhouseAccount joins an account row with its holder rows,
// which must already be ordered by position.
func ToDomainCoinhouseAccount(m models.CoinhouseAccount, holders []models.CoinhouseAccountHolder) domain.CoinhouseAccount {
	account := domain.CoinhouseAccount{
		ID:             m.AccountID,
		CoinhouseID:    m.CoinhouseID,
		Debit:          m.Debit,
		Credit:         m.Credit,
		OpenedAt:       m.OpenedAt.UTC(),
		LastAccessedAt: m.LastAccessedAt.UTC(),
		Holders:        make([]domain.AccountHolder, len(holders)),
	}
	for i, h := range holders {
		account.Holders[i] = domain.AccountHolder{
			HolderID:  h.HolderID,
			Type:      domain.HolderType(h.HolderType),
			Role:      domain.HolderRole(h.Role),
			FirstName: h.FirstName,
			LastName:  h.LastName,
		}
	}
	return account
}
