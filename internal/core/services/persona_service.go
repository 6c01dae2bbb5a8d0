package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/persona_ledger/internal/apperrors"
	"github.com/SscSPs/persona_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/persona_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/persona_ledger/internal/core/ports/services"
)

// DescriptorCache caches persona descriptors. Misses return (nil, nil).
type DescriptorCache interface {
	Get(ctx context.Context, id domain.PersonaID) (*portssvc.PersonaDescriptor, error)
	Set(ctx context.Context, descriptor portssvc.PersonaDescriptor) error
}

// personaService implements the PersonaSvcFacade interface
type personaService struct {
	BaseService
	personaRepo portsrepo.PersonaRepositoryFacade
	cache       DescriptorCache
}

// PersonaServiceOption configures the persona service.
type PersonaServiceOption func(*personaService)

// WithDescriptorCache adds a descriptor cache.
func WithDescriptorCache(cache DescriptorCache) PersonaServiceOption {
	return func(s *personaService) {
		s.cache = cache
	}
}

// NewPersonaService creates the persona lookup and descriptor service.
func NewPersonaService(repo portsrepo.PersonaRepositoryFacade, options ...PersonaServiceOption) portssvc.PersonaSvcFacade {
	svc := &personaService{personaRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.PersonaSvcFacade = (*personaService)(nil)

func (s *personaService) Exists(ctx context.Context, id domain.PersonaID) (bool, error) {
	if !id.Type.IsValid() || id.Value == "" {
		return false, nil
	}
	exists, err := s.personaRepo.Exists(ctx, id)
	if err != nil {
		s.LogError(ctx, err, "Failed to check persona existence", slog.String("persona_id", id.String()))
		return false, err
	}
	return exists, nil
}

func (s *personaService) Resolve(ctx context.Context, id domain.PersonaID) (domain.Persona, error) {
	if !id.Type.IsValid() || id.Value == "" {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("malformed persona id %q", id.String()))
	}
	persona, err := s.personaRepo.GetPersona(ctx, id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to resolve persona", slog.String("persona_id", id.String()))
		}
		return nil, err
	}
	if persona.PersonaID() != id {
		err := fmt.Errorf("persona repository returned %s for %s", persona.PersonaID(), id)
		s.LogError(ctx, err, "Persona repository returned a mismatched persona")
		return nil, err
	}
	return persona, nil
}

func (s *personaService) ResolveCharacter(ctx context.Context, id domain.PersonaID) (*domain.CharacterPersona, error) {
	if id.Type != domain.PersonaCharacter {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("persona %s is not a character", id))
	}
	persona, err := s.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	character, ok := persona.(domain.CharacterPersona)
	if !ok {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("persona %s is not a character", id))
	}
	return &character, nil
}

func (s *personaService) Describe(ctx context.Context, id domain.PersonaID) (*portssvc.PersonaDescriptor, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			s.LogWarn(ctx, "Persona descriptor cache read failed",
				slog.String("persona_id", id.String()),
				slog.String("error", err.Error()))
		} else if cached != nil {
			return cached, nil
		}
	}

	persona, err := s.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	descriptor, err := s.describe(ctx, persona)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, *descriptor); err != nil {
			s.LogWarn(ctx, "Persona descriptor cache write failed",
				slog.String("persona_id", id.String()),
				slog.String("error", err.Error()))
		}
	}
	return descriptor, nil
}

func (s *personaService) DescribeMany(ctx context.Context, ids []domain.PersonaID) (map[domain.PersonaID]portssvc.PersonaDescriptor, error) {
	result := make(map[domain.PersonaID]portssvc.PersonaDescriptor, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	personas, err := s.personaRepo.GetPersonas(ctx, ids)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve personas", slog.Int("count", len(ids)))
		return nil, err
	}
	for id, persona := range personas {
		descriptor, err := s.describe(ctx, persona)
		if err != nil {
			return nil, err
		}
		result[id] = *descriptor
	}
	return result, nil
}

func (s *personaService) describe(ctx context.Context, persona domain.Persona) (*portssvc.PersonaDescriptor, error) {
	id := persona.PersonaID()
	descriptor := &portssvc.PersonaDescriptor{
		ID:          id,
		Type:        persona.PersonaType(),
		DisplayName: persona.Name(),
		AccountID:   domain.PersonaAccountID(id).String(),
	}

	switch p := persona.(type) {
	case domain.CharacterPersona:
		owner, err := s.personaRepo.FindOwningPlayer(ctx, p.CharacterID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find owning player", slog.String("persona_id", id.String()))
			return nil, err
		}
		descriptor.OwnedBy = owner
	case domain.CoinhousePersona:
		descriptor.Settlement = p.Settlement
	case domain.GovernmentPersona:
		descriptor.Settlement = p.Settlement
	case domain.PlayerPersona, domain.OrganizationPersona, domain.WarehousePersona, domain.SystemPersona:
	default:
		return nil, fmt.Errorf("unsupported persona implementation %T", persona)
	}
	return descriptor, nil
}
