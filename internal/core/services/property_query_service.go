package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/persona_ledger/internal/apperrors"
	"github.com/SscSPs/persona_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/persona_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/persona_ledger/internal/core/ports/services"
)

// propertyQueryService implements the PropertyQuerySvc interface
type propertyQueryService struct {
	BaseService
	propertyRepo portsrepo.PropertyReader
}

// NewPropertyQueryService creates a new property query service
func NewPropertyQueryService(propertyRepo portsrepo.PropertyReader) portssvc.PropertyQuerySvc {
	return &propertyQueryService{propertyRepo: propertyRepo}
}

var _ portssvc.PropertyQuerySvc = (*propertyQueryService)(nil)

func (s *propertyQueryService) ListRentalsForTenant(ctx context.Context, tenant domain.PersonaID) ([]domain.RentablePropertySnapshot, error) {
	if !tenant.Type.IsValid() || tenant.Value == "" {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("malformed persona id %q", tenant.String()))
	}
	properties, err := s.propertyRepo.GetPropertiesRentedByTenant(ctx, tenant)
	if err != nil {
		s.LogError(ctx, err, "Failed to list rentals for tenant", slog.String("tenant", tenant.String()))
		return nil, err
	}
	if properties == nil {
		return []domain.RentablePropertySnapshot{}, nil
	}

	s.LogDebug(ctx, "Rentals listed successfully",
		slog.Int("count", len(properties)),
		slog.String("tenant", tenant.String()))
	return properties, nil
}
