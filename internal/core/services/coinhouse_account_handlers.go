package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/persona_ledger/internal/apperrors"
	"github.com/SscSPs/persona_ledger/internal/core/commands"
	"github.com/SscSPs/persona_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/persona_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/persona_ledger/internal/core/ports/services"
	"github.com/google/uuid"
)

// Rejection messages shown verbatim to players.
const (
	msgSoleOwner           = "Cannot remove the sole owner of an account. Every account must keep at least one owner."
	msgOwnershipTransfer   = "Ownership transfer is not permitted. The owner role cannot be granted to another holder."
	msgOwnerRoleFixed      = "The role of an account owner cannot be changed."
	msgJoinAsOwner         = "Ownership transfer is not permitted. Joining holders cannot become owners."
	msgAdditionalOwner     = "Additional holders cannot be added as owners when opening an account."
	msgNotCharacter        = "Only characters can manage coinhouse account holders."
	msgNotManager          = "Only an owner or joint owner of this account can manage its holders."
	msgAccountNotFound     = "This coinhouse account could not be found."
	msgWrongCoinhouse      = "This account does not belong to the selected coinhouse."
	msgUnsupportedHolder   = "Coinhouse accounts can only be opened for characters or organizations."
	msgOpenOwnAccount      = "A character may only open a personal account for themselves."
	msgOrganizationLeaders = "Only active leaders or officers of the organization can open an account on its behalf."
)

// coinhouseHandler holds what every coinhouse account handler needs.
type coinhouseHandler struct {
	BaseService
	coinhouses portsrepo.CoinhouseRepositoryFacade
	personas   portssvc.PersonaResolverSvc
}

// resolveCoinhouse looks up the coinhouse for a tag. A non-empty rejection
// means the tag does not name a coinhouse.
func (h *coinhouseHandler) resolveCoinhouse(ctx context.Context, tag domain.CoinhouseTag) (*domain.Coinhouse, string, error) {
	normalized := domain.NormalizeCoinhouseTag(string(tag))
	if normalized == "" {
		return nil, "A coinhouse must be specified.", nil
	}
	coinhouse, err := h.coinhouses.GetByTag(ctx, normalized)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Sprintf("No coinhouse is registered under the tag '%s'.", normalized), nil
		}
		return nil, "", fmt.Errorf("resolving coinhouse %s: %w", normalized, err)
	}
	return coinhouse, "", nil
}

// loadAccount loads an account and checks it belongs to the tag's coinhouse.
func (h *coinhouseHandler) loadAccount(ctx context.Context, accountID uuid.UUID, tag domain.CoinhouseTag) (*domain.CoinhouseAccount, *domain.Coinhouse, string, error) {
	coinhouse, rejection, err := h.resolveCoinhouse(ctx, tag)
	if err != nil || rejection != "" {
		return nil, nil, rejection, err
	}
	if accountID == uuid.Nil {
		return nil, nil, msgAccountNotFound, nil
	}
	account, err := h.coinhouses.GetAccountFor(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, msgAccountNotFound, nil
		}
		return nil, nil, "", fmt.Errorf("loading account %s: %w", accountID, err)
	}
	if account.CoinhouseID != coinhouse.ID {
		return nil, nil, msgWrongCoinhouse, nil
	}
	return account, coinhouse, "", nil
}

// resolveRequestor resolves the requestor as a character persona.
func (h *coinhouseHandler) resolveRequestor(ctx context.Context, requestor domain.PersonaID) (*domain.CharacterPersona, string, error) {
	if requestor.Type != domain.PersonaCharacter {
		return nil, msgNotCharacter, nil
	}
	character, err := h.personas.ResolveCharacter(ctx, requestor)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			return nil, fmt.Sprintf("Character %s could not be found.", requestor), nil
		case errors.Is(err, apperrors.ErrValidation):
			return nil, msgNotCharacter, nil
		default:
			return nil, "", fmt.Errorf("resolving requestor %s: %w", requestor, err)
		}
	}
	return character, "", nil
}

// resolveManager resolves the requestor and checks it may manage holders
// of account.
func (h *coinhouseHandler) resolveManager(ctx context.Context, requestor domain.PersonaID, account domain.CoinhouseAccount) (string, error) {
	character, rejection, err := h.resolveRequestor(ctx, requestor)
	if err != nil || rejection != "" {
		return rejection, err
	}
	holder, ok := account.FindHolder(uuid.UUID(character.CharacterID))
	if !ok || !holder.Role.CanManageHolders() {
		return msgNotManager, nil
	}
	return "", nil
}

// OpenAccountHandler handles OpenCoinhouseAccount.
type OpenAccountHandler struct {
	coinhouseHandler
	memberships portsrepo.OrganizationMembershipReader
}

// NewOpenAccountHandler creates the OpenCoinhouseAccount handler.
func NewOpenAccountHandler(
	base BaseService,
	coinhouses portsrepo.CoinhouseRepositoryFacade,
	personas portssvc.PersonaResolverSvc,
	memberships portsrepo.OrganizationMembershipReader,
) *OpenAccountHandler {
	return &OpenAccountHandler{
		coinhouseHandler: coinhouseHandler{BaseService: base, coinhouses: coinhouses, personas: personas},
		memberships:      memberships,
	}
}

var _ commands.Handler[commands.OpenCoinhouseAccount] = (*OpenAccountHandler)(nil)

// Handle opens a new account owned by cmd.AccountPersona.
func (h *OpenAccountHandler) Handle(ctx context.Context, cmd commands.OpenCoinhouseAccount) (commands.Result, error) {
	logAttrs := []any{
		slog.String("requestor", cmd.Requestor.String()),
		slog.String("account_persona", cmd.AccountPersona.String()),
		slog.String("coinhouse_tag", string(cmd.CoinhouseTag)),
	}

	if rejection, err := h.authorize(ctx, cmd); err != nil {
		return h.fail(ctx, cmd, err, "Failed to authorize account opening", logAttrs...)
	} else if rejection != "" {
		return h.reject(ctx, cmd, rejection, logAttrs...)
	}

	coinhouse, rejection, err := h.resolveCoinhouse(ctx, cmd.CoinhouseTag)
	if err != nil {
		return h.fail(ctx, cmd, err, "Failed to resolve coinhouse", logAttrs...)
	}
	if rejection != "" {
		return h.reject(ctx, cmd, rejection, logAttrs...)
	}

	accountID := domain.CoinhouseAccountID(cmd.AccountPersona, coinhouse.Tag)
	logAttrs = append(logAttrs, slog.String("account_id", accountID.String()))

	_, err = h.coinhouses.GetAccountFor(ctx, accountID)
	switch {
	case err == nil:
		return h.reject(ctx, cmd, fmt.Sprintf("An account for %s already exists at %s.", cmd.AccountPersona, coinhouse.DisplayName), logAttrs...)
	case !errors.Is(err, apperrors.ErrNotFound):
		return h.fail(ctx, cmd, err, "Failed to check for an existing account", logAttrs...)
	}

	primary, rejection, err := h.primaryHolder(ctx, cmd)
	if err != nil {
		return h.fail(ctx, cmd, err, "Failed to build primary holder", logAttrs...)
	}
	if rejection != "" {
		return h.reject(ctx, cmd, rejection, logAttrs...)
	}

	now := h.Now()
	account := domain.CoinhouseAccount{
		ID:             accountID,
		CoinhouseID:    coinhouse.ID,
		OpenedAt:       now,
		LastAccessedAt: now,
	}.WithHolder(*primary)

	for _, extra := range cmd.AdditionalHolders {
		if rejection := validateAdditionalHolder(extra); rejection != "" {
			return h.reject(ctx, cmd, rejection, logAttrs...)
		}
		account = account.WithHolder(extra)
	}

	if err := h.coinhouses.SaveAccount(ctx, account); err != nil {
		return h.fail(ctx, cmd, err, "Failed to save new account", logAttrs...)
	}

	h.Publish(ctx, domain.CoinhouseAccountOpened{
		EventMeta:      domain.EventMeta{Requestor: cmd.Requestor, At: now},
		AccountID:      account.ID,
		CoinhouseTag:   coinhouse.Tag,
		AccountPersona: cmd.AccountPersona,
		HolderCount:    len(account.Holders),
	})

	h.LogInfo(ctx, "Coinhouse account opened", append(logAttrs, slog.Int("holders", len(account.Holders)))...)
	return h.succeed(cmd, map[string]any{
		"accountId": account.ID.String(),
		"holders":   len(account.Holders),
	})
}

// authorize applies the opening permission rule for the account persona kind.
func (h *OpenAccountHandler) authorize(ctx context.Context, cmd commands.OpenCoinhouseAccount) (string, error) {
	switch cmd.AccountPersona.Type {
	case domain.PersonaCharacter:
		if cmd.Requestor != cmd.AccountPersona {
			return msgOpenOwnAccount, nil
		}
		return "", nil
	case domain.PersonaOrganization:
		return h.authorizeOrganization(ctx, cmd.Requestor, cmd.AccountPersona)
	case domain.PersonaPlayer, domain.PersonaCoinhouse, domain.PersonaWarehouse,
		domain.PersonaGovernment, domain.PersonaSystemProcess:
		return msgUnsupportedHolder, nil
	default:
		return fmt.Sprintf("Unknown persona type '%s'.", cmd.AccountPersona.Type), nil
	}
}

func (h *OpenAccountHandler) authorizeOrganization(ctx context.Context, requestor, organization domain.PersonaID) (string, error) {
	if requestor.Type != domain.PersonaCharacter {
		return msgOrganizationLeaders, nil
	}
	orgID, err := organization.UUIDValue()
	if err != nil {
		return fmt.Sprintf("Organization %s is not a valid organization id.", organization), nil
	}
	charID, err := requestor.UUIDValue()
	if err != nil {
		return fmt.Sprintf("Character %s is not a valid character id.", requestor), nil
	}

	member, err := h.memberships.FindMembership(ctx, domain.OrganizationID(orgID), domain.CharacterID(charID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return msgOrganizationLeaders, nil
		}
		return "", fmt.Errorf("loading membership of %s in %s: %w", requestor, organization, err)
	}
	if !member.IsActive() || !member.IsLeadership() {
		return msgOrganizationLeaders, nil
	}
	return "", nil
}

// primaryHolder derives the owning holder from the account persona.
func (h *OpenAccountHandler) primaryHolder(ctx context.Context, cmd commands.OpenCoinhouseAccount) (*domain.AccountHolder, string, error) {
	persona, err := h.personas.Resolve(ctx, cmd.AccountPersona)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			return nil, fmt.Sprintf("%s could not be found.", cmd.AccountPersona), nil
		case errors.Is(err, apperrors.ErrValidation):
			return nil, fmt.Sprintf("%s is not a valid account holder.", cmd.AccountPersona), nil
		default:
			return nil, "", err
		}
	}

	var holder domain.AccountHolder
	switch p := persona.(type) {
	case domain.CharacterPersona:
		holder = domain.AccountHolder{
			HolderID:  uuid.UUID(p.CharacterID),
			Type:      domain.HolderIndividual,
			FirstName: p.FirstName,
			LastName:  p.LastName,
		}
	case domain.OrganizationPersona:
		holder = domain.AccountHolder{
			HolderID:  uuid.UUID(p.OrganizationID),
			Type:      domain.HolderOrganization,
			FirstName: p.Name(),
		}
	default:
		return nil, msgUnsupportedHolder, nil
	}
	if holder.HolderID == uuid.Nil {
		return nil, fmt.Sprintf("%s is not a valid account holder.", cmd.AccountPersona), nil
	}

	holder.Role = domain.RoleOwner
	if cmd.DisplayNameOverride != nil && *cmd.DisplayNameOverride != "" {
		holder.FirstName = *cmd.DisplayNameOverride
		holder.LastName = ""
	}
	return &holder, "", nil
}

func validateAdditionalHolder(holder domain.AccountHolder) string {
	switch {
	case holder.HolderID == uuid.Nil:
		return "Every additional holder needs an id."
	case !holder.Type.IsValid():
		return fmt.Sprintf("Unknown holder type '%s'.", holder.Type)
	case !holder.Role.IsValid():
		return fmt.Sprintf("Unknown holder role '%s'.", holder.Role)
	case holder.Role == domain.RoleOwner:
		return msgAdditionalOwner
	}
	return ""
}

// JoinAccountHandler handles JoinCoinhouseAccount.
type JoinAccountHandler struct {
	coinhouseHandler
}

// NewJoinAccountHandler creates the JoinCoinhouseAccount handler.
func NewJoinAccountHandler(base BaseService, coinhouses portsrepo.CoinhouseRepositoryFacade, personas portssvc.PersonaResolverSvc) *JoinAccountHandler {
	return &JoinAccountHandler{
		coinhouseHandler: coinhouseHandler{BaseService: base, coinhouses: coinhouses, personas: personas},
	}
}

var _ commands.Handler[commands.JoinCoinhouseAccount] = (*JoinAccountHandler)(nil)

// Handle adds the requesting character to an existing account.
func (h *JoinAccountHandler) Handle(ctx context.Context, cmd commands.JoinCoinhouseAccount) (commands.Result, error) {
	logAttrs := []any{
		slog.String("requestor", cmd.Requestor.String()),
		slog.String("account_id", cmd.AccountID.String()),
		slog.String("coinhouse_tag", string(cmd.CoinhouseTag)),
		slog.String("role", string(cmd.Role)),
	}

	switch {
	case cmd.Role == domain.RoleOwner:
		return h.reject(ctx, cmd, msgJoinAsOwner, logAttrs...)
	case !cmd.Role.IsValid():
		return h.reject(ctx, cmd, fmt.Sprintf("Unknown holder role '%s'.", cmd.Role), logAttrs...)
	case !cmd.HolderType.IsValid():
		return h.reject(ctx, cmd, fmt.Sprintf("Unknown holder type '%s'.", cmd.HolderType), logAttrs...)
	case !cmd.ShareType.Permits(cmd.Role):
		return h.reject(ctx, cmd, fmt.Sprintf("A %s share does not allow the %s role.", cmd.ShareType, cmd.Role), logAttrs...)
	}

	character, rejection, err := h.resolveRequestor(ctx, cmd.Requestor)
	if err != nil {
		return h.fail(ctx, cmd, err, "Failed to resolve requestor", logAttrs...)
	}
	if rejection != "" {
		return h.reject(ctx, cmd, rejection, logAttrs...)
	}

	account, coinhouse, rejection, err := h.loadAccount(ctx, cmd.AccountID, cmd.CoinhouseTag)
	if err != nil {
		return h.fail(ctx, cmd, err, "Failed to load account", logAttrs...)
	}
	if rejection != "" {
		return h.reject(ctx, cmd, rejection, logAttrs...)
	}

	holderID := uuid.UUID(character.CharacterID)
	if account.HasHolder(holderID) {
		return h.reject(ctx, cmd, "You are already a holder on this account.", logAttrs...)
	}

	holder := domain.AccountHolder{
		HolderID:  holderID,
		Type:      cmd.HolderType,
		Role:      cmd.Role,
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
	}
	if holder.FirstName == "" && holder.LastName == "" {
		holder.FirstName, holder.LastName = character.FirstName, character.LastName
	}

	now := h.Now()
	updated := account.WithHolder(holder).Touched(now)
	if err := h.coinhouses.SaveAccount(ctx, updated); err != nil {
		return h.fail(ctx, cmd, err, "Failed to save account", logAttrs...)
	}

	h.Publish(ctx, domain.CoinhouseAccountHolderJoined{
		EventMeta:    domain.EventMeta{Requestor: cmd.Requestor, At: now},
		AccountID:    updated.ID,
		CoinhouseTag: coinhouse.Tag,
		HolderID:     holderID,
		HolderName:   holder.FullName(),
		Role:         holder.Role,
		ShareType:    cmd.ShareType,
	})

	h.LogInfo(ctx, "Holder joined coinhouse account", logAttrs...)
	return h.succeed(cmd, map[string]any{
		"accountId": updated.ID.String(),
		"holderId":  holderID.String(),
	})
}

// RemoveHolderHandler handles RemoveCoinhouseAccountHolder.
type RemoveHolderHandler struct {
	coinhouseHandler
}

// NewRemoveHolderHandler creates the RemoveCoinhouseAccountHolder handler.
func NewRemoveHolderHandler(base BaseService, coinhouses portsrepo.CoinhouseRepositoryFacade, personas portssvc.PersonaResolverSvc) *RemoveHolderHandler {
	return &RemoveHolderHandler{
		coinhouseHandler: coinhouseHandler{BaseService: base, coinhouses: coinhouses, personas: personas},
	}
}

var _ commands.Handler[commands.RemoveCoinhouseAccountHolder] = (*RemoveHolderHandler)(nil)

// Handle removes a holder, refusing to remove the last owner.
func (h *RemoveHolderHandler) Handle(ctx context.Context, cmd commands.RemoveCoinhouseAccountHolder) (commands.Result, error) {
	logAttrs := []any{
		slog.String("requestor", cmd.Requestor.String()),
		slog.String("account_id", cmd.AccountID.String()),
		slog.String("holder_id", cmd.HolderToRemove.String()),
	}

	account, coinhouse, rejection, err := h.loadAccount(ctx, cmd.AccountID, cmd.CoinhouseTag)
	if err != nil {
		return h.fail(ctx, cmd, err, "Failed to load account", logAttrs...)
	}
	if rejection != "" {
		return h.reject(ctx, cmd, rejection, logAttrs...)
	}

	if rejection, err := h.resolveManager(ctx, cmd.Requestor, *account); err != nil {
		return h.fail(ctx, cmd, err, "Failed to resolve requestor", logAttrs...)
	} else if rejection != "" {
		return h.reject(ctx, cmd, rejection, logAttrs...)
	}

	target, ok := account.FindHolder(cmd.HolderToRemove)
	if !ok {
		return h.reject(ctx, cmd, "That holder is not listed on this account.", logAttrs...)
	}
	if target.Role == domain.RoleOwner && account.OwnerCount() <= 1 {
		return h.reject(ctx, cmd, msgSoleOwner, logAttrs...)
	}

	now := h.Now()
	updated := account.WithoutHolder(target.HolderID).Touched(now)
	if err := h.coinhouses.SaveAccount(ctx, updated); err != nil {
		return h.fail(ctx, cmd, err, "Failed to save account", logAttrs...)
	}

	h.Publish(ctx, domain.CoinhouseAccountHolderRemoved{
		EventMeta:    domain.EventMeta{Requestor: cmd.Requestor, At: now},
		AccountID:    updated.ID,
		CoinhouseTag: coinhouse.Tag,
		HolderID:     target.HolderID,
		HolderName:   target.FullName(),
		Role:         target.Role,
	})

	h.LogInfo(ctx, "Holder removed from coinhouse account", logAttrs...)
	return h.succeed(cmd, map[string]any{
		"accountId": updated.ID.String(),
		"holders":   len(updated.Holders),
	})
}

// UpdateHolderRoleHandler handles UpdateCoinhouseAccountHolderRole.
type UpdateHolderRoleHandler struct {
	coinhouseHandler
}

// NewUpdateHolderRoleHandler creates the UpdateCoinhouseAccountHolderRole handler.
func NewUpdateHolderRoleHandler(base BaseService, coinhouses portsrepo.CoinhouseRepositoryFacade, personas portssvc.PersonaResolverSvc) *UpdateHolderRoleHandler {
	return &UpdateHolderRoleHandler{
		coinhouseHandler: coinhouseHandler{BaseService: base, coinhouses: coinhouses, personas: personas},
	}
}

var _ commands.Handler[commands.UpdateCoinhouseAccountHolderRole] = (*UpdateHolderRoleHandler)(nil)

// Handle changes a non-owner holder's role. The owner role can be neither
// granted nor taken away here.
func (h *UpdateHolderRoleHandler) Handle(ctx context.Context, cmd commands.UpdateCoinhouseAccountHolderRole) (commands.Result, error) {
	logAttrs := []any{
		slog.String("requestor", cmd.Requestor.String()),
		slog.String("account_id", cmd.AccountID.String()),
		slog.String("holder_id", cmd.HolderToUpdate.String()),
		slog.String("new_role", string(cmd.NewRole)),
	}

	if cmd.NewRole == domain.RoleOwner {
		return h.reject(ctx, cmd, msgOwnershipTransfer, logAttrs...)
	}
	if !cmd.NewRole.IsValid() {
		return h.reject(ctx, cmd, fmt.Sprintf("Unknown holder role '%s'.", cmd.NewRole), logAttrs...)
	}

	account, coinhouse, rejection, err := h.loadAccount(ctx, cmd.AccountID, cmd.CoinhouseTag)
	if err != nil {
		return h.fail(ctx, cmd, err, "Failed to load account", logAttrs...)
	}
	if rejection != "" {
		return h.reject(ctx, cmd, rejection, logAttrs...)
	}

	if rejection, err := h.resolveManager(ctx, cmd.Requestor, *account); err != nil {
		return h.fail(ctx, cmd, err, "Failed to resolve requestor", logAttrs...)
	} else if rejection != "" {
		return h.reject(ctx, cmd, rejection, logAttrs...)
	}

	target, ok := account.FindHolder(cmd.HolderToUpdate)
	if !ok {
		return h.reject(ctx, cmd, "That holder is not listed on this account.", logAttrs...)
	}
	if target.Role == domain.RoleOwner {
		return h.reject(ctx, cmd, msgOwnerRoleFixed, logAttrs...)
	}
	if target.Role == cmd.NewRole {
		return h.reject(ctx, cmd, fmt.Sprintf("%s already holds the %s role.", target.FullName(), target.Role), logAttrs...)
	}

	now := h.Now()
	updated := account.WithHolderRole(target.HolderID, cmd.NewRole).Touched(now)
	if err := h.coinhouses.SaveAccount(ctx, updated); err != nil {
		return h.fail(ctx, cmd, err, "Failed to save account", logAttrs...)
	}

	h.Publish(ctx, domain.CoinhouseAccountHolderRoleChanged{
		EventMeta:    domain.EventMeta{Requestor: cmd.Requestor, At: now},
		AccountID:    updated.ID,
		CoinhouseTag: coinhouse.Tag,
		HolderID:     target.HolderID,
		HolderName:   target.FullName(),
		PreviousRole: target.Role,
		NewRole:      cmd.NewRole,
	})

	h.LogInfo(ctx, "Holder role changed", append(logAttrs, slog.String("previous_role", string(target.Role)))...)
	return h.succeed(cmd, map[string]any{
		"accountId":    updated.ID.String(),
		"previousRole": string(target.Role),
		"newRole":      string(cmd.NewRole),
	})
}
