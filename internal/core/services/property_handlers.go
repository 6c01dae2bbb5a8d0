package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/persona_ledger/internal/apperrors"
	"github.com/SscSPs/persona_ledger/internal/core/commands"
	"github.com/SscSPs/persona_ledger/internal/core/domain"
	"github.com/SscSPs/persona_ledger/internal/core/policy"
	portsrepo "github.com/SscSPs/persona_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/persona_ledger/internal/core/ports/services"
	"github.com/google/uuid"
)

const msgPropertyNotFound = "This property could not be found."

// presenceClockSkew is how far ahead of the server clock a sighting may be
// stamped. Such sightings are recorded as now.
const presenceClockSkew = 5 * time.Minute

// propertyHandler holds what every property command handler needs.
type propertyHandler struct {
	BaseService
	properties portsrepo.PropertyRepositoryFacade
}

// loadProperty returns the property or a rejection when it does not exist.
func (h *propertyHandler) loadProperty(ctx context.Context, propertyID uuid.UUID) (*domain.RentablePropertySnapshot, string, error) {
	if propertyID == uuid.Nil {
		return nil, msgPropertyNotFound, nil
	}
	property, err := h.properties.GetProperty(ctx, propertyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, msgPropertyNotFound, nil
		}
		return nil, "", fmt.Errorf("loading property %s: %w", propertyID, err)
	}
	return property, "", nil
}

// EvictPropertyHandler handles EvictProperty.
type EvictPropertyHandler struct {
	propertyHandler
}

// NewEvictPropertyHandler creates the EvictProperty handler.
func NewEvictPropertyHandler(base BaseService, properties portsrepo.PropertyRepositoryFacade) *EvictPropertyHandler {
	return &EvictPropertyHandler{propertyHandler{BaseService: base, properties: properties}}
}

var _ commands.Handler[commands.EvictProperty] = (*EvictPropertyHandler)(nil)

// Handle ends the tenancy of a rented property and leaves it vacant.
// Only system processes and settlement governments may evict.
func (h *EvictPropertyHandler) Handle(ctx context.Context, cmd commands.EvictProperty) (commands.Result, error) {
	logAttrs := []any{
		slog.String("requestor", cmd.Requestor.String()),
		slog.String("property_id", cmd.PropertyID.String()),
	}

	switch cmd.Requestor.Type {
	case domain.PersonaSystemProcess, domain.PersonaGovernment:
	default:
		return h.reject(ctx, cmd, "Only system processes or settlement governments can evict tenants.", logAttrs...)
	}

	property, rejection, err := h.loadProperty(ctx, cmd.PropertyID)
	if err != nil {
		return h.fail(ctx, cmd, err, "Failed to load property", logAttrs...)
	}
	if rejection != "" {
		return h.reject(ctx, cmd, rejection, logAttrs...)
	}
	if property.OccupancyStatus != domain.OccupancyRented {
		return h.reject(ctx, cmd, fmt.Sprintf("%s is not currently rented.", property.Definition.InternalName), logAttrs...)
	}

	var previousTenant domain.PersonaID
	switch {
	case property.ActiveRental != nil:
		previousTenant = property.ActiveRental.Tenant
	case property.CurrentTenant != nil:
		previousTenant = *property.CurrentTenant
	}

	if err := h.properties.SaveProperty(ctx, property.Vacated()); err != nil {
		return h.fail(ctx, cmd, err, "Failed to save evicted property", logAttrs...)
	}

	reason := cmd.Reason
	if reason == "" {
		reason = "unspecified"
	}
	h.Publish(ctx, domain.PropertyEvicted{
		EventMeta:      domain.EventMeta{Requestor: cmd.Requestor, At: h.Now()},
		PropertyID:     cmd.PropertyID,
		PreviousTenant: previousTenant,
		Reason:         reason,
	})

	h.LogInfo(ctx, "Tenant evicted", append(logAttrs,
		slog.String("previous_tenant", previousTenant.String()),
		slog.String("reason", reason))...)
	return h.succeed(cmd, map[string]any{
		"propertyId":     cmd.PropertyID.String(),
		"previousTenant": previousTenant.String(),
	})
}

// RentPropertyHandler handles RentProperty.
type RentPropertyHandler struct {
	propertyHandler
	personas   portssvc.PersonaResolverSvc
	coinhouses portsrepo.CoinhouseRepositoryFacade
	wallets    portsrepo.CharacterWalletReader
}

// NewRentPropertyHandler creates the RentProperty handler.
func NewRentPropertyHandler(
	base BaseService,
	properties portsrepo.PropertyRepositoryFacade,
	personas portssvc.PersonaResolverSvc,
	coinhouses portsrepo.CoinhouseRepositoryFacade,
	wallets portsrepo.CharacterWalletReader,
) *RentPropertyHandler {
	return &RentPropertyHandler{
		propertyHandler: propertyHandler{BaseService: base, properties: properties},
		personas:        personas,
		coinhouses:      coinhouses,
		wallets:         wallets,
	}
}

var _ commands.Handler[commands.RentProperty] = (*RentPropertyHandler)(nil)

// Handle evaluates the rental request and, when approved, records the new
// tenancy starting today with rent due one month later.
func (h *RentPropertyHandler) Handle(ctx context.Context, cmd commands.RentProperty) (commands.Result, error) {
	logAttrs := []any{
		slog.String("requestor", cmd.Requestor.String()),
		slog.String("tenant", cmd.Tenant.String()),
		slog.String("property_id", cmd.PropertyID.String()),
		slog.String("payment_method", string(cmd.PaymentMethod)),
	}

	if cmd.Requestor != cmd.Tenant {
		return h.reject(ctx, cmd, "A property can only be rented by the tenant themselves.", logAttrs...)
	}
	if !cmd.PaymentMethod.IsValid() {
		return h.reject(ctx, cmd, fmt.Sprintf("Unknown payment method '%s'.", cmd.PaymentMethod), logAttrs...)
	}

	exists, err := h.personas.Exists(ctx, cmd.Tenant)
	if err != nil {
		return h.fail(ctx, cmd, err, "Failed to check tenant", logAttrs...)
	}
	if !exists {
		return h.reject(ctx, cmd, fmt.Sprintf("%s could not be found.", cmd.Tenant), logAttrs...)
	}

	property, rejection, err := h.loadProperty(ctx, cmd.PropertyID)
	if err != nil {
		return h.fail(ctx, cmd, err, "Failed to load property", logAttrs...)
	}
	if rejection != "" {
		return h.reject(ctx, cmd, rejection, logAttrs...)
	}

	caps, err := h.capabilities(ctx, cmd, property.Definition)
	if err != nil {
		return h.fail(ctx, cmd, err, "Failed to determine payment capabilities", logAttrs...)
	}

	decision := policy.EvaluateRental(policy.RentalRequest{Tenant: cmd.Tenant, PaymentMethod: cmd.PaymentMethod}, *property, caps)
	if !decision.Approved {
		return h.reject(ctx, cmd, decision.Reason.Message(), append(logAttrs, slog.String("decision", string(decision.Reason)))...)
	}

	now := h.Now()
	today := domain.DateOf(now)
	agreement := domain.RentalAgreementSnapshot{
		Tenant:              cmd.Tenant,
		RentalStart:         today,
		NextDueDate:         today.AddDate(0, 1, 0),
		MonthlyRent:         property.Definition.MonthlyRent,
		PaymentMethod:       cmd.PaymentMethod,
		LastOccupantSeenUTC: &now,
	}

	if err := h.properties.SaveProperty(ctx, property.RentedTo(agreement)); err != nil {
		return h.fail(ctx, cmd, err, "Failed to save rented property", logAttrs...)
	}

	h.Publish(ctx, domain.PropertyRented{
		EventMeta:     domain.EventMeta{Requestor: cmd.Requestor, At: now},
		PropertyID:    cmd.PropertyID,
		Tenant:        cmd.Tenant,
		PaymentMethod: cmd.PaymentMethod,
		NextDueDate:   agreement.NextDueDate,
	})

	h.LogInfo(ctx, "Property rented", logAttrs...)
	return h.succeed(cmd, map[string]any{
		"propertyId":  cmd.PropertyID.String(),
		"nextDueDate": agreement.NextDueDate.Format("2006-01-02"),
		"monthlyRent": agreement.MonthlyRent.String(),
	})
}

// capabilities only looks up the funding source the request asks for.
func (h *RentPropertyHandler) capabilities(ctx context.Context, cmd commands.RentProperty, definition domain.RentablePropertyDefinition) (policy.PaymentCapabilities, error) {
	var caps policy.PaymentCapabilities
	rent := definition.MonthlyRent

	switch cmd.PaymentMethod {
	case domain.PaymentCoinhouseAccount:
		if definition.SettlementCoinhouseTag == nil || h.coinhouses == nil {
			return caps, nil
		}
		coinhouse, err := h.coinhouses.GetByTag(ctx, *definition.SettlementCoinhouseTag)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return caps, nil
			}
			return caps, err
		}
		account, err := h.coinhouses.GetAccountFor(ctx, domain.CoinhouseAccountID(cmd.Tenant, coinhouse.Tag))
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return caps, nil
			}
			return caps, err
		}
		caps.HasUsableCoinhouseAccount = account.CoinhouseID == coinhouse.ID && account.Balance().GreaterThanOrEqual(rent)
	case domain.PaymentOutOfPocket:
		if h.wallets == nil {
			return caps, nil
		}
		funds, err := h.wallets.GetDirectFunds(ctx, cmd.Tenant)
		if err != nil {
			return caps, err
		}
		caps.HasSufficientDirectFunds = funds.GreaterThanOrEqual(rent)
	}
	return caps, nil
}

// RecordPresenceHandler handles RecordOccupantPresence.
type RecordPresenceHandler struct {
	propertyHandler
}

// NewRecordPresenceHandler creates the RecordOccupantPresence handler.
func NewRecordPresenceHandler(base BaseService, properties portsrepo.PropertyRepositoryFacade) *RecordPresenceHandler {
	return &RecordPresenceHandler{propertyHandler{BaseService: base, properties: properties}}
}

var _ commands.Handler[commands.RecordOccupantPresence] = (*RecordPresenceHandler)(nil)

// Handle stamps the time an occupant was last seen in a rented property.
// Only the occupant or a system process may report a sighting. Sightings
// older than the recorded one are ignored and future ones are refused.
func (h *RecordPresenceHandler) Handle(ctx context.Context, cmd commands.RecordOccupantPresence) (commands.Result, error) {
	logAttrs := []any{
		slog.String("requestor", cmd.Requestor.String()),
		slog.String("occupant", cmd.Occupant.String()),
		slog.String("property_id", cmd.PropertyID.String()),
	}

	if cmd.Requestor != cmd.Occupant && cmd.Requestor.Type != domain.PersonaSystemProcess {
		return h.reject(ctx, cmd, "Only the occupant or a system observer can report an occupant's presence.", logAttrs...)
	}

	now := h.Now()
	seenAt := cmd.SeenAt
	if seenAt.IsZero() {
		seenAt = now
	}
	seenAt = seenAt.UTC()
	if seenAt.After(now.Add(presenceClockSkew)) {
		return h.reject(ctx, cmd, "A sighting cannot be recorded in the future.", append(logAttrs, slog.Time("seen_at", seenAt))...)
	}
	if seenAt.After(now) {
		seenAt = now
	}

	property, rejection, err := h.loadProperty(ctx, cmd.PropertyID)
	if err != nil {
		return h.fail(ctx, cmd, err, "Failed to load property", logAttrs...)
	}
	if rejection != "" {
		return h.reject(ctx, cmd, rejection, logAttrs...)
	}
	if property.OccupancyStatus != domain.OccupancyRented || property.ActiveRental == nil {
		return h.reject(ctx, cmd, fmt.Sprintf("%s is not currently rented.", property.Definition.InternalName), logAttrs...)
	}
	if property.ActiveRental.Tenant != cmd.Occupant && !property.HasResident(cmd.Occupant) {
		return h.reject(ctx, cmd, fmt.Sprintf("%s does not live at %s.", cmd.Occupant, property.Definition.InternalName), logAttrs...)
	}

	if last := property.ActiveRental.LastOccupantSeenUTC; last != nil && !seenAt.After(*last) {
		return h.succeed(cmd, map[string]any{"lastSeen": last.UTC()})
	}

	if err := h.properties.SaveProperty(ctx, property.WithOccupantSeen(seenAt)); err != nil {
		return h.fail(ctx, cmd, err, "Failed to save occupant presence", logAttrs...)
	}

	h.LogDebug(ctx, "Occupant presence recorded", append(logAttrs, slog.Time("seen_at", seenAt))...)
	return h.succeed(cmd, map[string]any{"lastSeen": seenAt})
}
