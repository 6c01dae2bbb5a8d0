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

// Residents are aggregated in position order so each property is one row.
const selectPropertyColumns = `
	SELECT p.property_id, p.internal_name, p.settlement, p.category, p.monthly_rent,
	       p.allows_coinhouse_rental, p.allows_direct_rental, p.settlement_coinhouse_tag,
	       p.purchase_price, p.monthly_ownership_tax, p.eviction_grace_days, p.occupancy_status,
	       p.current_tenant, p.current_owner, p.rental_tenant, p.rental_start, p.next_due_date,
	       p.rental_monthly_rent, p.payment_method, p.last_occupant_seen_utc,
	       COALESCE(
	           (SELECT array_agg(r.persona_id ORDER BY r.position)
	            FROM property_residents r WHERE r.property_id = p.property_id),
	           '{}'::text[]
	       ) AS residents
	FROM rentable_properties p`

// PgxPropertyRepository stores rentable properties and their occupancy.
type PgxPropertyRepository struct {
	BaseRepository
}

func newPgxPropertyRepository(pool *pgxpool.Pool) *PgxPropertyRepository {
	return &PgxPropertyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PropertyRepositoryFacade = (*PgxPropertyRepository)(nil)

func scanProperty(row pgx.Row) (domain.RentablePropertySnapshot, error) {
	var m models.RentableProperty
	err := row.Scan(
		&m.PropertyID,
		&m.InternalName,
		&m.Settlement,
		&m.Category,
		&m.MonthlyRent,
		&m.AllowsCoinhouseRental,
		&m.AllowsDirectRental,
		&m.SettlementCoinhouseTag,
		&m.PurchasePrice,
		&m.MonthlyOwnershipTax,
		&m.EvictionGraceDays,
		&m.OccupancyStatus,
		&m.CurrentTenant,
		&m.CurrentOwner,
		&m.RentalTenant,
		&m.RentalStart,
		&m.NextDueDate,
		&m.RentalMonthlyRent,
		&m.PaymentMethod,
		&m.LastOccupantSeenUTC,
		&m.Residents,
	)
	if err != nil {
		return domain.RentablePropertySnapshot{}, err
	}
	return mapping.ToDomainRentableProperty(m)
}

func (r *PgxPropertyRepository) queryProperties(ctx context.Context, query string, args ...any) ([]domain.RentablePropertySnapshot, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	properties := []domain.RentablePropertySnapshot{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property rows: %w", err)
	}
	return properties, nil
}

// GetAllProperties loads every property snapshot in one pass.
func (r *PgxPropertyRepository) GetAllProperties(ctx context.Context) ([]domain.RentablePropertySnapshot, error) {
	return r.queryProperties(ctx, selectPropertyColumns+` ORDER BY p.internal_name`)
}

// GetPropertiesRentedByTenant lists properties whose active agreement names tenant.
func (r *PgxPropertyRepository) GetPropertiesRentedByTenant(ctx context.Context, tenant domain.PersonaID) ([]domain.RentablePropertySnapshot, error) {
	return r.queryProperties(ctx,
		selectPropertyColumns+` WHERE p.rental_tenant = $1 ORDER BY p.internal_name`, tenant.String())
}

// GetProperty loads one property snapshot.
func (r *PgxPropertyRepository) GetProperty(ctx context.Context, propertyID uuid.UUID) (*domain.RentablePropertySnapshot, error) {
	p, err := scanProperty(r.Pool.QueryRow(ctx, selectPropertyColumns+` WHERE p.property_id = $1`, propertyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("property %s not found", propertyID))
		}
		return nil, fmt.Errorf("failed to get property %s: %w", propertyID, err)
	}
	return &p, nil
}

// SaveProperty replaces the occupancy state of a property, residents included.
// Catalog columns are written only when the property is new.
func (r *PgxPropertyRepository) SaveProperty(ctx context.Context, property domain.RentablePropertySnapshot) error {
	m := mapping.ToModelRentableProperty(property)

	return r.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO rentable_properties (
				property_id, internal_name, settlement, category, monthly_rent,
				allows_coinhouse_rental, allows_direct_rental, settlement_coinhouse_tag,
				purchase_price, monthly_ownership_tax, eviction_grace_days, occupancy_status,
				current_tenant, current_owner, rental_tenant, rental_start, next_due_date,
				rental_monthly_rent, payment_method, last_occupant_seen_utc)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
			ON CONFLICT (property_id) DO UPDATE SET
				occupancy_status = EXCLUDED.occupancy_status,
				current_tenant = EXCLUDED.current_tenant,
				current_owner = EXCLUDED.current_owner,
				rental_tenant = EXCLUDED.rental_tenant,
				rental_start = EXCLUDED.rental_start,
				next_due_date = EXCLUDED.next_due_date,
				rental_monthly_rent = EXCLUDED.rental_monthly_rent,
				payment_method = EXCLUDED.payment_method,
				last_occupant_seen_utc = EXCLUDED.last_occupant_seen_utc`,
			m.PropertyID, m.InternalName, m.Settlement, m.Category, m.MonthlyRent,
			m.AllowsCoinhouseRental, m.AllowsDirectRental, m.SettlementCoinhouseTag,
			m.PurchasePrice, m.MonthlyOwnershipTax, m.EvictionGraceDays, m.OccupancyStatus,
			m.CurrentTenant, m.CurrentOwner, m.RentalTenant, m.RentalStart, m.NextDueDate,
			m.RentalMonthlyRent, m.PaymentMethod, m.LastOccupantSeenUTC,
		)
		if err != nil {
			return mapWriteError(err, "property "+m.InternalName)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM property_residents WHERE property_id = $1`, m.PropertyID); err != nil {
			return fmt.Errorf("failed to clear residents of property %s: %w", m.PropertyID, err)
		}

		batch := &pgx.Batch{}
		for i, resident := range m.Residents {
			batch.Queue(`INSERT INTO property_residents (property_id, persona_id, position) VALUES ($1, $2, $3)`,
				m.PropertyID, resident, i)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return mapWriteError(err, "residents of property "+m.InternalName)
		}
		return nil
	})
}
