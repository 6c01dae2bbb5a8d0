package services

import (
	"time"

	"github.com/SscSPs/persona_ledger/internal/core/events"
	portsrepo "github.com/SscSPs/persona_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/persona_ledger/internal/core/ports/services"
	"github.com/SscSPs/persona_ledger/internal/platform/metrics"
)

type containerOptions struct {
	publisher events.Publisher
	metrics   *metrics.Metrics
	cache     DescriptorCache
	clock     func() time.Time
}

// ContainerOption configures NewServiceContainer.
type ContainerOption func(*containerOptions)

// WithEventPublisher sets where handlers publish audit events.
func WithEventPublisher(publisher events.Publisher) ContainerOption {
	return func(o *containerOptions) { o.publisher = publisher }
}

// WithMetrics sets the metrics handlers and the scheduler record to.
func WithMetrics(m *metrics.Metrics) ContainerOption {
	return func(o *containerOptions) { o.metrics = m }
}

// WithPersonaCache caches persona descriptors.
func WithPersonaCache(cache DescriptorCache) ContainerOption {
	return func(o *containerOptions) { o.cache = cache }
}

// WithClock overrides the time source.
func WithClock(clock func() time.Time) ContainerOption {
	return func(o *containerOptions) { o.clock = clock }
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, options ...ContainerOption) *portssvc.ServiceContainer {
	opts := containerOptions{publisher: events.NopPublisher{}}
	for _, option := range options {
		option(&opts)
	}

	base := BaseService{Events: opts.publisher, Metrics: opts.metrics, Clock: opts.clock}
	container := &portssvc.ServiceContainer{}

	// Persona resolution first, every coinhouse handler depends on it
	var personaOpts []PersonaServiceOption
	if opts.cache != nil {
		personaOpts = append(personaOpts, WithDescriptorCache(opts.cache))
	}
	container.Persona = NewPersonaService(repos.PersonaRepo, personaOpts...)

	container.OpenAccount = NewOpenAccountHandler(base, repos.CoinhouseRepo, container.Persona, repos.MembershipRepo)
	container.JoinAccount = NewJoinAccountHandler(base, repos.CoinhouseRepo, container.Persona)
	container.RemoveHolder = NewRemoveHolderHandler(base, repos.CoinhouseRepo, container.Persona)
	container.UpdateHolderRole = NewUpdateHolderRoleHandler(base, repos.CoinhouseRepo, container.Persona)

	container.RentProperty = NewRentPropertyHandler(base, repos.PropertyRepo, container.Persona, repos.CoinhouseRepo, repos.WalletRepo)
	container.RecordPresence = NewRecordPresenceHandler(base, repos.PropertyRepo)
	container.EvictProperty = NewEvictPropertyHandler(base, repos.PropertyRepo)

	container.Properties = NewPropertyQueryService(repos.PropertyRepo)
	container.Evictions = NewPropertyEvictionScheduler(base, repos.PropertyRepo, container.EvictProperty)

	return container
}
