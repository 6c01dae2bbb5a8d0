package services

import (
	"context"
	"time"

	"github.com/SscSPs/persona_ledger/internal/core/domain"
)

// EvictionCycleReport summarizes one eviction sweep.
type EvictionCycleReport struct {
	StartedAt  time.Time `json:"startedAt"`
	AsOf       time.Time `json:"asOf"`
	Evaluated  int       `json:"evaluated"`
	Eligible   []string  `json:"eligible"`
	Evicted    []string  `json:"evicted"`
	Failed     []string  `json:"failed"`
	Cancelled  bool      `json:"cancelled"`
	FinishedAt time.Time `json:"finishedAt"`
}

// EvictionSchedulerSvc runs eviction sweeps.
type EvictionSchedulerSvc interface {
	// ExecuteEvictionCycle evaluates every rented property and evicts eligible tenants.
	// It returns ctx.Err() when cancelled between properties.
	ExecuteEvictionCycle(ctx context.Context) (EvictionCycleReport, error)
}

// PropertyQuerySvc exposes property read models.
type PropertyQuerySvc interface {
	// ListRentalsForTenant lists the properties currently rented by tenant.
	ListRentalsForTenant(ctx context.Context, tenant domain.PersonaID) ([]domain.RentablePropertySnapshot, error)
}
