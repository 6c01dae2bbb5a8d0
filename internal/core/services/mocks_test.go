package services_test

import (
	"context"
	"sync"

	"github.com/SscSPs/persona_ledger/internal/apperrors"
	"github.com/SscSPs/persona_ledger/internal/core/commands"
	"github.com/SscSPs/persona_ledger/internal/core/domain"
	"github.com/SscSPs/persona_ledger/internal/core/events"
	portssvc "github.com/SscSPs/persona_ledger/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockCoinhouseRepository is a mock type for the CoinhouseRepositoryFacade interface
type MockCoinhouseRepository struct {
	mock.Mock
}

func (m *MockCoinhouseRepository) GetByTag(ctx context.Context, tag domain.CoinhouseTag) (*domain.Coinhouse, error) {
	args := m.Called(ctx, tag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Coinhouse), args.Error(1)
}

func (m *MockCoinhouseRepository) GetAccountFor(ctx context.Context, accountID uuid.UUID) (*domain.CoinhouseAccount, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CoinhouseAccount), args.Error(1)
}

func (m *MockCoinhouseRepository) SaveAccount(ctx context.Context, account domain.CoinhouseAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// MockPersonaRepository is a mock type for the PersonaRepositoryFacade interface
type MockPersonaRepository struct {
	mock.Mock
}

func (m *MockPersonaRepository) Exists(ctx context.Context, id domain.PersonaID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPersonaRepository) GetPersona(ctx context.Context, id domain.PersonaID) (domain.Persona, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Persona), args.Error(1)
}

func (m *MockPersonaRepository) GetPersonas(ctx context.Context, ids []domain.PersonaID) (map[domain.PersonaID]domain.Persona, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.PersonaID]domain.Persona), args.Error(1)
}

func (m *MockPersonaRepository) FindOwningPlayer(ctx context.Context, character domain.CharacterID) (*domain.PersonaID, error) {
	args := m.Called(ctx, character)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PersonaID), args.Error(1)
}

// MockMembershipRepository is a mock type for the OrganizationMembershipReader interface
type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) FindMembership(ctx context.Context, organizationID domain.OrganizationID, characterID domain.CharacterID) (*domain.OrganizationMember, error) {
	args := m.Called(ctx, organizationID, characterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrganizationMember), args.Error(1)
}

// MockPropertyRepository is a mock type for the PropertyRepositoryFacade interface
type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) GetAllProperties(ctx context.Context) ([]domain.RentablePropertySnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RentablePropertySnapshot), args.Error(1)
}

func (m *MockPropertyRepository) GetPropertiesRentedByTenant(ctx context.Context, tenant domain.PersonaID) ([]domain.RentablePropertySnapshot, error) {
	args := m.Called(ctx, tenant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RentablePropertySnapshot), args.Error(1)
}

func (m *MockPropertyRepository) GetProperty(ctx context.Context, propertyID uuid.UUID) (*domain.RentablePropertySnapshot, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentablePropertySnapshot), args.Error(1)
}

func (m *MockPropertyRepository) SaveProperty(ctx context.Context, property domain.RentablePropertySnapshot) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

// MockWalletRepository is a mock type for the CharacterWalletReader interface
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) GetDirectFunds(ctx context.Context, persona domain.PersonaID) (decimal.Decimal, error) {
	args := m.Called(ctx, persona)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockDescriptorCache is a mock type for the DescriptorCache interface
type MockDescriptorCache struct {
	mock.Mock
}

func (m *MockDescriptorCache) Get(ctx context.Context, id domain.PersonaID) (*portssvc.PersonaDescriptor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.PersonaDescriptor), args.Error(1)
}

func (m *MockDescriptorCache) Set(ctx context.Context, descriptor portssvc.PersonaDescriptor) error {
	args := m.Called(ctx, descriptor)
	return args.Error(0)
}

// MockEvictHandler is a mock type for the EvictProperty command handler
type MockEvictHandler struct {
	mock.Mock
}

func (m *MockEvictHandler) Handle(ctx context.Context, cmd commands.EvictProperty) (commands.Result, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.Result), args.Error(1)
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

// memoryCoinhouseRepo is an in-memory CoinhouseRepositoryFacade for
// multi-step scenarios where a mock's fixed return values get in the way.
type memoryCoinhouseRepo struct {
	mu         sync.Mutex
	coinhouses map[domain.CoinhouseTag]domain.Coinhouse
	accounts   map[uuid.UUID]domain.CoinhouseAccount
	saves      int
}

func newMemoryCoinhouseRepo(coinhouses ...domain.Coinhouse) *memoryCoinhouseRepo {
	r := &memoryCoinhouseRepo{
		coinhouses: map[domain.CoinhouseTag]domain.Coinhouse{},
		accounts:   map[uuid.UUID]domain.CoinhouseAccount{},
	}
	for _, c := range coinhouses {
		r.coinhouses[c.Tag] = c
	}
	return r
}

func (r *memoryCoinhouseRepo) GetByTag(_ context.Context, tag domain.CoinhouseTag) (*domain.Coinhouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.coinhouses[tag]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (r *memoryCoinhouseRepo) GetAccountFor(_ context.Context, accountID uuid.UUID) (*domain.CoinhouseAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	a.Holders = append([]domain.AccountHolder(nil), a.Holders...)
	return &a, nil
}

func (r *memoryCoinhouseRepo) SaveAccount(_ context.Context, account domain.CoinhouseAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account.Holders = append([]domain.AccountHolder(nil), account.Holders...)
	r.accounts[account.ID] = account
	r.saves++
	return nil
}

func (r *memoryCoinhouseRepo) account(id uuid.UUID) domain.CoinhouseAccount {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.accounts[id]
}
