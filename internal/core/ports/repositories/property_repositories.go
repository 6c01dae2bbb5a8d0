package repositories

import (
	"context"

	"github.com/SscSPs/persona_ledger/internal/core/domain"
	"github.com/google/uuid"
)

// PropertyReader defines read operations for rentable properties.
type PropertyReader interface {
	// GetAllProperties loads every property snapshot in one pass.
	GetAllProperties(ctx context.Context) ([]domain.RentablePropertySnapshot, error)

	// GetPropertiesRentedByTenant lists properties whose active agreement names tenant.
	GetPropertiesRentedByTenant(ctx context.Context, tenant domain.PersonaID) ([]domain.RentablePropertySnapshot, error)

	// GetProperty loads one property snapshot.
	// Returns apperrors.ErrNotFound when the property does not exist.
	GetProperty(ctx context.Context, propertyID uuid.UUID) (*domain.RentablePropertySnapshot, error)
}

// PropertyWriter defines write operations for rentable properties.
type PropertyWriter interface {
	// SaveProperty replaces the occupancy state of a property, residents and agreement included.
	SaveProperty(ctx context.Context, property domain.RentablePropertySnapshot) error
}

// PropertyRepositoryFacade combines all property-related repository interfaces.
type PropertyRepositoryFacade interface {
	PropertyReader
	PropertyWriter
}
