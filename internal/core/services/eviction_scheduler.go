package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/persona_ledger/internal/core/commands"
	"github.com/SscSPs/persona_ledger/internal/core/domain"
	"github.com/SscSPs/persona_ledger/internal/core/policy"
	portsrepo "github.com/SscSPs/persona_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/persona_ledger/internal/core/ports/services"
)

// EvictionProcessName is the system persona the scheduler issues evictions as.
const EvictionProcessName = "PropertyEvictionScheduler"

const evictionReason = "Rent overdue past the grace period and the tenant has not been seen since it was due."

// PropertyEvictionScheduler sweeps rented properties and evicts absent tenants
// whose rent is overdue past the grace period.
type PropertyEvictionScheduler struct {
	BaseService
	properties portsrepo.PropertyReader
	evict      commands.Handler[commands.EvictProperty]
	requestor  domain.PersonaID
}

// NewPropertyEvictionScheduler creates the eviction scheduler.
func NewPropertyEvictionScheduler(
	base BaseService,
	properties portsrepo.PropertyReader,
	evict commands.Handler[commands.EvictProperty],
) *PropertyEvictionScheduler {
	return &PropertyEvictionScheduler{
		BaseService: base,
		properties:  properties,
		evict:       evict,
		requestor:   domain.FromSystem(EvictionProcessName),
	}
}

var _ portssvc.EvictionSchedulerSvc = (*PropertyEvictionScheduler)(nil)

// ExecuteEvictionCycle loads every property once and evicts each eligible
// tenancy in turn. A failed eviction is recorded and the sweep moves on.
// Cancellation is observed between properties and returned as ctx.Err()
// together with the partial report.
func (s *PropertyEvictionScheduler) ExecuteEvictionCycle(ctx context.Context) (portssvc.EvictionCycleReport, error) {
	asOf := s.Now()
	report := portssvc.EvictionCycleReport{
		StartedAt: asOf,
		AsOf:      asOf,
		Eligible:  []string{},
		Evicted:   []string{},
		Failed:    []string{},
	}
	defer func() {
		s.Metrics.ObserveEvictionCycleLatency(s.Now().Sub(report.StartedAt))
	}()

	properties, err := s.properties.GetAllProperties(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load properties for eviction cycle")
		s.Metrics.IncrementEvictionCycle("errored")
		report.FinishedAt = s.Now()
		return report, fmt.Errorf("loading properties: %w", err)
	}

	for _, property := range properties {
		if err := ctx.Err(); err != nil {
			report.Cancelled = true
			report.FinishedAt = s.Now()
			s.LogWarn(ctx, "Eviction cycle cancelled",
				slog.Int("evaluated", report.Evaluated),
				slog.Int("evicted", len(report.Evicted)))
			s.Metrics.IncrementEvictionCycle("cancelled")
			return report, err
		}

		report.Evaluated++
		if !policy.ShouldEvict(property, asOf) {
			continue
		}

		propertyID := property.Definition.ID.String()
		report.Eligible = append(report.Eligible, propertyID)

		if s.evictOne(ctx, property) {
			report.Evicted = append(report.Evicted, propertyID)
		} else {
			report.Failed = append(report.Failed, propertyID)
		}
	}

	report.FinishedAt = s.Now()
	s.Metrics.IncrementEvictionCycle("completed")
	if len(report.Eligible) > 0 {
		s.LogInfo(ctx, "Eviction cycle completed",
			slog.Int("evaluated", report.Evaluated),
			slog.Int("evicted", len(report.Evicted)),
			slog.Int("failed", len(report.Failed)))
	}
	return report, nil
}

// evictOne issues the eviction command and reports whether it succeeded.
// Panics from the handler are contained so one property cannot end the sweep.
func (s *PropertyEvictionScheduler) evictOne(ctx context.Context, property domain.RentablePropertySnapshot) (evicted bool) {
	attrs := []any{
		slog.String("property_id", property.Definition.ID.String()),
		slog.String("tenant", property.ActiveRental.Tenant.String()),
	}
	defer func() {
		if r := recover(); r != nil {
			s.LogError(ctx, fmt.Errorf("panic: %v", r), "Eviction command panicked", attrs...)
			evicted = false
		}
		if evicted {
			s.Metrics.IncrementEvictionAttempt("evicted")
		} else {
			s.Metrics.IncrementEvictionAttempt("failed")
		}
	}()

	result, err := s.evict.Handle(ctx, commands.EvictProperty{
		Requestor:  s.requestor,
		PropertyID: property.Definition.ID,
		Reason:     evictionReason,
	})
	if err != nil {
		s.LogError(ctx, err, "Eviction command failed", attrs...)
		return false
	}
	if !result.Success {
		s.LogWarn(ctx, "Eviction command rejected", append(attrs, slog.String("reason", result.ErrorMessage))...)
		return false
	}
	return true
}
