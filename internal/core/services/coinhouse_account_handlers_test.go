package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/persona_ledger/internal/apperrors"
	"github.com/SscSPs/persona_ledger/internal/core/commands"
	"github.com/SscSPs/persona_ledger/internal/core/domain"
	"github.com/SscSPs/persona_ledger/internal/core/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var testNow = time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)

func testCoinhouse() domain.Coinhouse {
	return domain.Coinhouse{
		ID:          uuid.New(),
		Tag:         "cordor_bank",
		Settlement:  "Cordor",
		DisplayName: "Cordor Coinhouse",
	}
}

func newCharacter(first, last string) domain.CharacterPersona {
	return domain.NewCharacterPersona(domain.CharacterID(uuid.New()), first, last)
}

func holderFor(c domain.CharacterPersona, role domain.HolderRole) domain.AccountHolder {
	return domain.AccountHolder{
		HolderID:  uuid.UUID(c.CharacterID),
		Type:      domain.HolderIndividual,
		Role:      role,
		FirstName: c.FirstName,
		LastName:  c.LastName,
	}
}

// --- Test Suite Setup ---

type CoinhouseAccountHandlersTestSuite struct {
	suite.Suite
	ctx            context.Context
	coinhouseRepo  *MockCoinhouseRepository
	personaRepo    *MockPersonaRepository
	membershipRepo *MockMembershipRepository
	publisher      *recordingPublisher
	base           services.BaseService
	coinhouse      domain.Coinhouse
	owner          domain.CharacterPersona

	open   *services.OpenAccountHandler
	join   *services.JoinAccountHandler
	remove *services.RemoveHolderHandler
	update *services.UpdateHolderRoleHandler
}

func (suite *CoinhouseAccountHandlersTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.coinhouseRepo = new(MockCoinhouseRepository)
	suite.personaRepo = new(MockPersonaRepository)
	suite.membershipRepo = new(MockMembershipRepository)
	suite.publisher = &recordingPublisher{}
	suite.base = services.BaseService{
		Events: suite.publisher,
		Clock:  func() time.Time { return testNow },
	}
	suite.coinhouse = testCoinhouse()
	suite.owner = newCharacter("Aria", "Vale")

	personas := services.NewPersonaService(suite.personaRepo)
	suite.open = services.NewOpenAccountHandler(suite.base, suite.coinhouseRepo, personas, suite.membershipRepo)
	suite.join = services.NewJoinAccountHandler(suite.base, suite.coinhouseRepo, personas)
	suite.remove = services.NewRemoveHolderHandler(suite.base, suite.coinhouseRepo, personas)
	suite.update = services.NewUpdateHolderRoleHandler(suite.base, suite.coinhouseRepo, personas)
}

func (suite *CoinhouseAccountHandlersTestSuite) expectPersona(p domain.Persona) {
	suite.personaRepo.On("GetPersona", mock.Anything, p.PersonaID()).Return(p, nil)
}

func (suite *CoinhouseAccountHandlersTestSuite) expectCoinhouse() {
	c := suite.coinhouse
	suite.coinhouseRepo.On("GetByTag", mock.Anything, c.Tag).Return(&c, nil)
}

func (suite *CoinhouseAccountHandlersTestSuite) existingAccount(holders ...domain.AccountHolder) *domain.CoinhouseAccount {
	account := &domain.CoinhouseAccount{
		ID:          domain.CoinhouseAccountID(suite.owner.PersonaID(), suite.coinhouse.Tag),
		CoinhouseID: suite.coinhouse.ID,
		OpenedAt:    testNow.AddDate(0, -1, 0),
		Holders:     holders,
	}
	suite.coinhouseRepo.On("GetAccountFor", mock.Anything, account.ID).Return(account, nil)
	return account
}

// --- OpenCoinhouseAccount ---

func (suite *CoinhouseAccountHandlersTestSuite) TestOpen_CharacterOwnAccount_Success() {
	ownerID := suite.owner.PersonaID()
	expectedID := domain.CoinhouseAccountID(ownerID, suite.coinhouse.Tag)

	suite.expectCoinhouse()
	suite.expectPersona(suite.owner)
	suite.coinhouseRepo.On("GetAccountFor", mock.Anything, expectedID).Return(nil, apperrors.ErrNotFound).Once()
	suite.coinhouseRepo.On("SaveAccount", mock.Anything, mock.MatchedBy(func(a domain.CoinhouseAccount) bool {
		return a.ID == expectedID &&
			a.CoinhouseID == suite.coinhouse.ID &&
			len(a.Holders) == 1 &&
			a.Holders[0].Role == domain.RoleOwner &&
			a.Holders[0].HolderID == uuid.UUID(suite.owner.CharacterID) &&
			a.OpenedAt.Equal(testNow)
	})).Return(nil).Once()

	result, err := suite.open.Handle(suite.ctx, commands.OpenCoinhouseAccount{
		Requestor:      ownerID,
		AccountPersona: ownerID,
		CoinhouseTag:   " Cordor_Bank ",
	})

	suite.Require().NoError(err)
	suite.True(result.Success, result.ErrorMessage)
	suite.Equal(expectedID.String(), result.Data["accountId"])

	published := suite.publisher.Events()
	suite.Require().Len(published, 1)
	opened, ok := published[0].(domain.CoinhouseAccountOpened)
	suite.Require().True(ok)
	suite.Equal(expectedID, opened.AccountID)
	suite.Equal(ownerID, opened.Actor())
	suite.coinhouseRepo.AssertExpectations(suite.T())
}

func (suite *CoinhouseAccountHandlersTestSuite) TestOpen_ForAnotherCharacter_Rejected() {
	other := newCharacter("Bren", "Holt")

	result, err := suite.open.Handle(suite.ctx, commands.OpenCoinhouseAccount{
		Requestor:      other.PersonaID(),
		AccountPersona: suite.owner.PersonaID(),
		CoinhouseTag:   suite.coinhouse.Tag,
	})

	suite.Require().NoError(err)
	suite.False(result.Success)
	suite.Contains(result.ErrorMessage, "for themselves")
	suite.coinhouseRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
	suite.Empty(suite.publisher.Events())
}

func (suite *CoinhouseAccountHandlersTestSuite) TestOpen_Duplicate_Rejected() {
	ownerID := suite.owner.PersonaID()
	suite.expectCoinhouse()
	suite.existingAccount(holderFor(suite.owner, domain.RoleOwner))

	result, err := suite.open.Handle(suite.ctx, commands.OpenCoinhouseAccount{
		Requestor:      ownerID,
		AccountPersona: ownerID,
		CoinhouseTag:   suite.coinhouse.Tag,
	})

	suite.Require().NoError(err)
	suite.False(result.Success)
	suite.Contains(result.ErrorMessage, "already exists")
	suite.coinhouseRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *CoinhouseAccountHandlersTestSuite) TestOpen_UnknownCoinhouse_Rejected() {
	ownerID := suite.owner.PersonaID()
	suite.coinhouseRepo.On("GetByTag", mock.Anything, domain.CoinhouseTag("nowhere")).Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.open.Handle(suite.ctx, commands.OpenCoinhouseAccount{
		Requestor:      ownerID,
		AccountPersona: ownerID,
		CoinhouseTag:   "nowhere",
	})

	suite.Require().NoError(err)
	suite.False(result.Success)
	suite.Contains(result.ErrorMessage, "nowhere")
	suite.coinhouseRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *CoinhouseAccountHandlersTestSuite) TestOpen_UnsupportedPersonaKinds_Rejected() {
	for _, accountPersona := range []domain.PersonaID{
		domain.FromGovernment(domain.GovernmentID(uuid.New())),
		domain.FromCoinhouse("cordor_bank"),
		domain.FromSystem("Scheduler"),
		domain.FromPlayer("CDKEY123"),
		domain.FromWarehouse(domain.WarehouseID(uuid.New())),
	} {
		result, err := suite.open.Handle(suite.ctx, commands.OpenCoinhouseAccount{
			Requestor:      accountPersona,
			AccountPersona: accountPersona,
			CoinhouseTag:   suite.coinhouse.Tag,
		})
		suite.Require().NoError(err)
		suite.False(result.Success, accountPersona.String())
	}
	suite.coinhouseRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *CoinhouseAccountHandlersTestSuite) TestOpen_Organization_ActiveLeader_Success() {
	org := domain.NewOrganizationPersona(domain.OrganizationID(uuid.New()), "Silver Hand")
	expectedID := domain.CoinhouseAccountID(org.PersonaID(), suite.coinhouse.Tag)

	suite.membershipRepo.On("FindMembership", mock.Anything, org.OrganizationID, suite.owner.CharacterID).
		Return(&domain.OrganizationMember{
			OrganizationID: org.OrganizationID,
			CharacterID:    suite.owner.CharacterID,
			Status:         domain.MembershipActive,
			Rank:           domain.RankOfficer,
		}, nil).Once()
	suite.expectCoinhouse()
	suite.expectPersona(org)
	suite.coinhouseRepo.On("GetAccountFor", mock.Anything, expectedID).Return(nil, apperrors.ErrNotFound).Once()
	suite.coinhouseRepo.On("SaveAccount", mock.Anything, mock.MatchedBy(func(a domain.CoinhouseAccount) bool {
		return len(a.Holders) == 1 &&
			a.Holders[0].Type == domain.HolderOrganization &&
			a.Holders[0].HolderID == uuid.UUID(org.OrganizationID) &&
			a.Holders[0].FirstName == "Silver Hand Treasury"
	})).Return(nil).Once()

	override := "Silver Hand Treasury"
	result, err := suite.open.Handle(suite.ctx, commands.OpenCoinhouseAccount{
		Requestor:           suite.owner.PersonaID(),
		AccountPersona:      org.PersonaID(),
		CoinhouseTag:        suite.coinhouse.Tag,
		DisplayNameOverride: &override,
	})

	suite.Require().NoError(err)
	suite.True(result.Success, result.ErrorMessage)
	suite.Equal(expectedID.String(), result.Data["accountId"])
	suite.membershipRepo.AssertExpectations(suite.T())
	suite.coinhouseRepo.AssertExpectations(suite.T())
}

func (suite *CoinhouseAccountHandlersTestSuite) TestOpen_Organization_NotLeadership_Rejected() {
	org := domain.NewOrganizationPersona(domain.OrganizationID(uuid.New()), "Silver Hand")
	tests := []struct {
		name   string
		member *domain.OrganizationMember
		err    error
	}{
		{name: "not a member", err: apperrors.ErrNotFound},
		{name: "plain member", member: &domain.OrganizationMember{Status: domain.MembershipActive, Rank: domain.RankMember}},
		{name: "suspended leader", member: &domain.OrganizationMember{Status: domain.MembershipSuspended, Rank: domain.RankLeader}},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			membershipRepo := new(MockMembershipRepository)
			if tt.member != nil {
				membershipRepo.On("FindMembership", mock.Anything, org.OrganizationID, suite.owner.CharacterID).Return(tt.member, nil).Once()
			} else {
				membershipRepo.On("FindMembership", mock.Anything, org.OrganizationID, suite.owner.CharacterID).Return(nil, tt.err).Once()
			}
			handler := services.NewOpenAccountHandler(suite.base, suite.coinhouseRepo, services.NewPersonaService(suite.personaRepo), membershipRepo)

			result, err := handler.Handle(suite.ctx, commands.OpenCoinhouseAccount{
				Requestor:      suite.owner.PersonaID(),
				AccountPersona: org.PersonaID(),
				CoinhouseTag:   suite.coinhouse.Tag,
			})

			suite.Require().NoError(err)
			suite.False(result.Success)
			suite.Contains(result.ErrorMessage, "leaders or officers")
			membershipRepo.AssertExpectations(suite.T())
		})
	}
	suite.coinhouseRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *CoinhouseAccountHandlersTestSuite) TestOpen_AdditionalHolders_SkipsDuplicates() {
	ownerID := suite.owner.PersonaID()
	expectedID := domain.CoinhouseAccountID(ownerID, suite.coinhouse.Tag)
	partner := newCharacter("Cal", "Reyes")

	suite.expectCoinhouse()
	suite.expectPersona(suite.owner)
	suite.coinhouseRepo.On("GetAccountFor", mock.Anything, expectedID).Return(nil, apperrors.ErrNotFound).Once()
	suite.coinhouseRepo.On("SaveAccount", mock.Anything, mock.MatchedBy(func(a domain.CoinhouseAccount) bool {
		return len(a.Holders) == 2 &&
			a.Holders[0].Role == domain.RoleOwner &&
			a.Holders[1].HolderID == uuid.UUID(partner.CharacterID) &&
			a.Holders[1].Role == domain.RoleJointOwner
	})).Return(nil).Once()

	result, err := suite.open.Handle(suite.ctx, commands.OpenCoinhouseAccount{
		Requestor:      ownerID,
		AccountPersona: ownerID,
		CoinhouseTag:   suite.coinhouse.Tag,
		AdditionalHolders: []domain.AccountHolder{
			holderFor(partner, domain.RoleJointOwner),
			holderFor(suite.owner, domain.RoleViewer),
			holderFor(partner, domain.RoleSignatory),
		},
	})

	suite.Require().NoError(err)
	suite.True(result.Success, result.ErrorMessage)
	suite.Equal(2, result.Data["holders"])
	suite.coinhouseRepo.AssertExpectations(suite.T())
}

func (suite *CoinhouseAccountHandlersTestSuite) TestOpen_AdditionalOwner_Rejected() {
	ownerID := suite.owner.PersonaID()
	expectedID := domain.CoinhouseAccountID(ownerID, suite.coinhouse.Tag)
	suite.expectCoinhouse()
	suite.expectPersona(suite.owner)
	suite.coinhouseRepo.On("GetAccountFor", mock.Anything, expectedID).Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.open.Handle(suite.ctx, commands.OpenCoinhouseAccount{
		Requestor:         ownerID,
		AccountPersona:    ownerID,
		CoinhouseTag:      suite.coinhouse.Tag,
		AdditionalHolders: []domain.AccountHolder{holderFor(newCharacter("Dax", "Moor"), domain.RoleOwner)},
	})

	suite.Require().NoError(err)
	suite.False(result.Success)
	suite.coinhouseRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *CoinhouseAccountHandlersTestSuite) TestOpen_RepositoryError_Propagates() {
	ownerID := suite.owner.PersonaID()
	expectedID := domain.CoinhouseAccountID(ownerID, suite.coinhouse.Tag)
	suite.expectCoinhouse()
	suite.coinhouseRepo.On("GetAccountFor", mock.Anything, expectedID).Return(nil, assert.AnError).Once()

	result, err := suite.open.Handle(suite.ctx, commands.OpenCoinhouseAccount{
		Requestor:      ownerID,
		AccountPersona: ownerID,
		CoinhouseTag:   suite.coinhouse.Tag,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, assert.AnError)
	suite.False(result.Success)
}

// --- JoinCoinhouseAccount ---

func (suite *CoinhouseAccountHandlersTestSuite) TestJoin_Success() {
	joiner := newCharacter("Bren", "Holt")
	account := suite.existingAccount(holderFor(suite.owner, domain.RoleOwner))
	suite.expectCoinhouse()
	suite.expectPersona(joiner)
	suite.coinhouseRepo.On("SaveAccount", mock.Anything, mock.MatchedBy(func(a domain.CoinhouseAccount) bool {
		return len(a.Holders) == 2 &&
			a.Holders[1].HolderID == uuid.UUID(joiner.CharacterID) &&
			a.Holders[1].Role == domain.RoleViewer &&
			a.LastAccessedAt.Equal(testNow)
	})).Return(nil).Once()

	result, err := suite.join.Handle(suite.ctx, commands.JoinCoinhouseAccount{
		Requestor:    joiner.PersonaID(),
		AccountID:    account.ID,
		CoinhouseTag: suite.coinhouse.Tag,
		ShareType:    domain.ShareAuthorizedAccess,
		HolderType:   domain.HolderIndividual,
		Role:         domain.RoleViewer,
	})

	suite.Require().NoError(err)
	suite.True(result.Success, result.ErrorMessage)
	suite.Len(account.Holders, 1, "loaded snapshot must not be mutated")
	suite.Require().Len(suite.publisher.Events(), 1)
	joined := suite.publisher.Events()[0].(domain.CoinhouseAccountHolderJoined)
	suite.Equal("Bren Holt", joined.HolderName)
	suite.coinhouseRepo.AssertExpectations(suite.T())
}

func (suite *CoinhouseAccountHandlersTestSuite) TestJoin_InvalidRoleRequests_Rejected() {
	joiner := newCharacter("Bren", "Holt")
	tests := []struct {
		name  string
		share domain.ShareType
		role  domain.HolderRole
		want  string
	}{
		{name: "owner", share: domain.ShareJointOwnership, role: domain.RoleOwner, want: "Ownership transfer is not permitted"},
		{name: "joint owner through authorized access", share: domain.ShareAuthorizedAccess, role: domain.RoleJointOwner, want: "does not allow"},
		{name: "viewer through joint ownership", share: domain.ShareJointOwnership, role: domain.RoleViewer, want: "does not allow"},
		{name: "unknown role", share: domain.ShareJointOwnership, role: "BANKER", want: "Unknown holder role"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			result, err := suite.join.Handle(suite.ctx, commands.JoinCoinhouseAccount{
				Requestor:    joiner.PersonaID(),
				AccountID:    uuid.New(),
				CoinhouseTag: suite.coinhouse.Tag,
				ShareType:    tt.share,
				HolderType:   domain.HolderIndividual,
				Role:         tt.role,
			})
			suite.Require().NoError(err)
			suite.False(result.Success)
			suite.Contains(result.ErrorMessage, tt.want)
		})
	}
	suite.coinhouseRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *CoinhouseAccountHandlersTestSuite) TestJoin_NonCharacterRequestor_Rejected() {
	org := domain.FromOrganization(domain.OrganizationID(uuid.New()))

	result, err := suite.join.Handle(suite.ctx, commands.JoinCoinhouseAccount{
		Requestor:    org,
		AccountID:    uuid.New(),
		CoinhouseTag: suite.coinhouse.Tag,
		ShareType:    domain.ShareAuthorizedAccess,
		HolderType:   domain.HolderOrganization,
		Role:         domain.RoleSignatory,
	})

	suite.Require().NoError(err)
	suite.False(result.Success)
	suite.personaRepo.AssertNotCalled(suite.T(), "GetPersona", mock.Anything, mock.Anything)
}

func (suite *CoinhouseAccountHandlersTestSuite) TestJoin_AlreadyHolder_Rejected() {
	account := suite.existingAccount(holderFor(suite.owner, domain.RoleOwner))
	suite.expectCoinhouse()
	suite.expectPersona(suite.owner)

	result, err := suite.join.Handle(suite.ctx, commands.JoinCoinhouseAccount{
		Requestor:    suite.owner.PersonaID(),
		AccountID:    account.ID,
		CoinhouseTag: suite.coinhouse.Tag,
		ShareType:    domain.ShareJointOwnership,
		HolderType:   domain.HolderIndividual,
		Role:         domain.RoleJointOwner,
	})

	suite.Require().NoError(err)
	suite.False(result.Success)
	suite.Contains(result.ErrorMessage, "already a holder")
	suite.coinhouseRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *CoinhouseAccountHandlersTestSuite) TestJoin_AccountAtOtherCoinhouse_Rejected() {
	joiner := newCharacter("Bren", "Holt")
	account := suite.existingAccount(holderFor(suite.owner, domain.RoleOwner))
	account.CoinhouseID = uuid.New()
	suite.expectCoinhouse()
	suite.expectPersona(joiner)

	result, err := suite.join.Handle(suite.ctx, commands.JoinCoinhouseAccount{
		Requestor:    joiner.PersonaID(),
		AccountID:    account.ID,
		CoinhouseTag: suite.coinhouse.Tag,
		ShareType:    domain.ShareAuthorizedAccess,
		HolderType:   domain.HolderIndividual,
		Role:         domain.RoleSignatory,
	})

	suite.Require().NoError(err)
	suite.False(result.Success)
	suite.Contains(result.ErrorMessage, "does not belong")
}

func (suite *CoinhouseAccountHandlersTestSuite) TestJoin_AccountNotFound_Rejected() {
	joiner := newCharacter("Bren", "Holt")
	missing := uuid.New()
	suite.expectCoinhouse()
	suite.expectPersona(joiner)
	suite.coinhouseRepo.On("GetAccountFor", mock.Anything, missing).Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.join.Handle(suite.ctx, commands.JoinCoinhouseAccount{
		Requestor:    joiner.PersonaID(),
		AccountID:    missing,
		CoinhouseTag: suite.coinhouse.Tag,
		ShareType:    domain.ShareAuthorizedAccess,
		HolderType:   domain.HolderIndividual,
		Role:         domain.RoleSignatory,
	})

	suite.Require().NoError(err)
	suite.False(result.Success)
	suite.Contains(result.ErrorMessage, "could not be found")
}

// --- RemoveCoinhouseAccountHolder ---

func (suite *CoinhouseAccountHandlersTestSuite) TestRemove_SoleOwner_Rejected() {
	account := suite.existingAccount(holderFor(suite.owner, domain.RoleOwner))
	suite.expectCoinhouse()
	suite.expectPersona(suite.owner)

	result, err := suite.remove.Handle(suite.ctx, commands.RemoveCoinhouseAccountHolder{
		Requestor:      suite.owner.PersonaID(),
		AccountID:      account.ID,
		CoinhouseTag:   suite.coinhouse.Tag,
		HolderToRemove: uuid.UUID(suite.owner.CharacterID),
	})

	suite.Require().NoError(err)
	suite.False(result.Success)
	suite.Contains(result.ErrorMessage, "Cannot remove the sole owner")
	suite.coinhouseRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
	suite.Empty(suite.publisher.Events())
}

func (suite *CoinhouseAccountHandlersTestSuite) TestRemove_JointOwnerRemovesSignatory_Success() {
	joint := newCharacter("Bren", "Holt")
	signatory := newCharacter("Cal", "Reyes")
	account := suite.existingAccount(
		holderFor(suite.owner, domain.RoleOwner),
		holderFor(joint, domain.RoleJointOwner),
		holderFor(signatory, domain.RoleSignatory),
	)
	suite.expectCoinhouse()
	suite.expectPersona(joint)
	suite.coinhouseRepo.On("SaveAccount", mock.Anything, mock.MatchedBy(func(a domain.CoinhouseAccount) bool {
		return len(a.Holders) == 2 && !a.HasHolder(uuid.UUID(signatory.CharacterID)) && a.OwnerCount() == 1
	})).Return(nil).Once()

	result, err := suite.remove.Handle(suite.ctx, commands.RemoveCoinhouseAccountHolder{
		Requestor:      joint.PersonaID(),
		AccountID:      account.ID,
		CoinhouseTag:   suite.coinhouse.Tag,
		HolderToRemove: uuid.UUID(signatory.CharacterID),
	})

	suite.Require().NoError(err)
	suite.True(result.Success, result.ErrorMessage)
	suite.Require().Len(suite.publisher.Events(), 1)
	removed := suite.publisher.Events()[0].(domain.CoinhouseAccountHolderRemoved)
	suite.Equal("Cal Reyes", removed.HolderName)
	suite.Equal(domain.RoleSignatory, removed.Role)
	suite.Equal(joint.PersonaID(), removed.Requestor)
	suite.coinhouseRepo.AssertExpectations(suite.T())
}

func (suite *CoinhouseAccountHandlersTestSuite) TestRemove_SignatoryRequestor_Rejected() {
	signatory := newCharacter("Cal", "Reyes")
	viewer := newCharacter("Dax", "Moor")
	account := suite.existingAccount(
		holderFor(suite.owner, domain.RoleOwner),
		holderFor(signatory, domain.RoleSignatory),
		holderFor(viewer, domain.RoleViewer),
	)
	suite.expectCoinhouse()
	suite.expectPersona(signatory)

	result, err := suite.remove.Handle(suite.ctx, commands.RemoveCoinhouseAccountHolder{
		Requestor:      signatory.PersonaID(),
		AccountID:      account.ID,
		CoinhouseTag:   suite.coinhouse.Tag,
		HolderToRemove: uuid.UUID(viewer.CharacterID),
	})

	suite.Require().NoError(err)
	suite.False(result.Success)
	suite.Contains(result.ErrorMessage, "owner or joint owner")
	suite.coinhouseRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *CoinhouseAccountHandlersTestSuite) TestRemove_UnknownHolder_Rejected() {
	account := suite.existingAccount(holderFor(suite.owner, domain.RoleOwner))
	suite.expectCoinhouse()
	suite.expectPersona(suite.owner)

	result, err := suite.remove.Handle(suite.ctx, commands.RemoveCoinhouseAccountHolder{
		Requestor:      suite.owner.PersonaID(),
		AccountID:      account.ID,
		CoinhouseTag:   suite.coinhouse.Tag,
		HolderToRemove: uuid.New(),
	})

	suite.Require().NoError(err)
	suite.False(result.Success)
	suite.Contains(result.ErrorMessage, "not listed")
}

func (suite *CoinhouseAccountHandlersTestSuite) TestRemove_SaveError_Propagates() {
	viewer := newCharacter("Dax", "Moor")
	account := suite.existingAccount(holderFor(suite.owner, domain.RoleOwner), holderFor(viewer, domain.RoleViewer))
	suite.expectCoinhouse()
	suite.expectPersona(suite.owner)
	suite.coinhouseRepo.On("SaveAccount", mock.Anything, mock.Anything).Return(assert.AnError).Once()

	_, err := suite.remove.Handle(suite.ctx, commands.RemoveCoinhouseAccountHolder{
		Requestor:      suite.owner.PersonaID(),
		AccountID:      account.ID,
		CoinhouseTag:   suite.coinhouse.Tag,
		HolderToRemove: uuid.UUID(viewer.CharacterID),
	})

	suite.Require().ErrorIs(err, assert.AnError)
	suite.Empty(suite.publisher.Events())
}

// --- UpdateCoinhouseAccountHolderRole ---

func (suite *CoinhouseAccountHandlersTestSuite) TestUpdate_GrantOwner_Rejected() {
	result, err := suite.update.Handle(suite.ctx, commands.UpdateCoinhouseAccountHolderRole{
		Requestor:      suite.owner.PersonaID(),
		AccountID:      uuid.New(),
		CoinhouseTag:   suite.coinhouse.Tag,
		HolderToUpdate: uuid.New(),
		NewRole:        domain.RoleOwner,
	})

	suite.Require().NoError(err)
	suite.False(result.Success)
	suite.Contains(result.ErrorMessage, "Ownership transfer is not permitted")
	suite.coinhouseRepo.AssertNotCalled(suite.T(), "GetAccountFor", mock.Anything, mock.Anything)
}

func (suite *CoinhouseAccountHandlersTestSuite) TestUpdate_OwnerTarget_Rejected() {
	joint := newCharacter("Bren", "Holt")
	account := suite.existingAccount(holderFor(suite.owner, domain.RoleOwner), holderFor(joint, domain.RoleJointOwner))
	suite.expectCoinhouse()
	suite.expectPersona(joint)

	result, err := suite.update.Handle(suite.ctx, commands.UpdateCoinhouseAccountHolderRole{
		Requestor:      joint.PersonaID(),
		AccountID:      account.ID,
		CoinhouseTag:   suite.coinhouse.Tag,
		HolderToUpdate: uuid.UUID(suite.owner.CharacterID),
		NewRole:        domain.RoleViewer,
	})

	suite.Require().NoError(err)
	suite.False(result.Success)
	suite.Contains(result.ErrorMessage, "account owner cannot be changed")
	suite.coinhouseRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *CoinhouseAccountHandlersTestSuite) TestUpdate_SameRole_Rejected() {
	viewer := newCharacter("Dax", "Moor")
	account := suite.existingAccount(holderFor(suite.owner, domain.RoleOwner), holderFor(viewer, domain.RoleViewer))
	suite.expectCoinhouse()
	suite.expectPersona(suite.owner)

	result, err := suite.update.Handle(suite.ctx, commands.UpdateCoinhouseAccountHolderRole{
		Requestor:      suite.owner.PersonaID(),
		AccountID:      account.ID,
		CoinhouseTag:   suite.coinhouse.Tag,
		HolderToUpdate: uuid.UUID(viewer.CharacterID),
		NewRole:        domain.RoleViewer,
	})

	suite.Require().NoError(err)
	suite.False(result.Success)
	suite.Contains(result.ErrorMessage, "already holds")
}

func (suite *CoinhouseAccountHandlersTestSuite) TestUpdate_Success() {
	viewer := newCharacter("Dax", "Moor")
	account := suite.existingAccount(holderFor(suite.owner, domain.RoleOwner), holderFor(viewer, domain.RoleViewer))
	suite.expectCoinhouse()
	suite.expectPersona(suite.owner)
	suite.coinhouseRepo.On("SaveAccount", mock.Anything, mock.MatchedBy(func(a domain.CoinhouseAccount) bool {
		h, ok := a.FindHolder(uuid.UUID(viewer.CharacterID))
		return ok && h.Role == domain.RoleSignatory && a.Holders[1].HolderID == h.HolderID
	})).Return(nil).Once()

	result, err := suite.update.Handle(suite.ctx, commands.UpdateCoinhouseAccountHolderRole{
		Requestor:      suite.owner.PersonaID(),
		AccountID:      account.ID,
		CoinhouseTag:   suite.coinhouse.Tag,
		HolderToUpdate: uuid.UUID(viewer.CharacterID),
		NewRole:        domain.RoleSignatory,
	})

	suite.Require().NoError(err)
	suite.True(result.Success, result.ErrorMessage)
	suite.Require().Len(suite.publisher.Events(), 1)
	changed := suite.publisher.Events()[0].(domain.CoinhouseAccountHolderRoleChanged)
	suite.Equal(domain.RoleViewer, changed.PreviousRole)
	suite.Equal(domain.RoleSignatory, changed.NewRole)
	suite.coinhouseRepo.AssertExpectations(suite.T())
}

func TestCoinhouseAccountHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(CoinhouseAccountHandlersTestSuite))
}

// --- Invariant scenarios against an in-memory repository ---

type accountFixture struct {
	repo      *memoryCoinhouseRepo
	coinhouse domain.Coinhouse
	accountID uuid.UUID
	members   []domain.CharacterPersona
	personas  *MockPersonaRepository
}

func newAccountFixture(t *testing.T, roles ...domain.HolderRole) accountFixture {
	t.Helper()
	coinhouse := testCoinhouse()
	repo := newMemoryCoinhouseRepo(coinhouse)
	personas := new(MockPersonaRepository)

	account := domain.CoinhouseAccount{ID: uuid.New(), CoinhouseID: coinhouse.ID, OpenedAt: testNow}
	var members []domain.CharacterPersona
	for _, role := range roles {
		c := newCharacter("Member", string(role))
		members = append(members, c)
		account = account.WithHolder(holderFor(c, role))
		personas.On("GetPersona", mock.Anything, c.PersonaID()).Return(c, nil).Maybe()
	}
	if err := repo.SaveAccount(context.Background(), account); err != nil {
		t.Fatal(err)
	}
	return accountFixture{repo: repo, coinhouse: coinhouse, accountID: account.ID, members: members, personas: personas}
}

func TestRemoveHolder_NeverDropsBelowOneOwner(t *testing.T) {
	f := newAccountFixture(t, domain.RoleOwner, domain.RoleOwner, domain.RoleJointOwner, domain.RoleViewer)
	handler := services.NewRemoveHolderHandler(services.BaseService{}, f.repo, services.NewPersonaService(f.personas))
	ctx := context.Background()

	// Every member tries to remove every member, in every order the loops produce.
	for _, requestor := range f.members {
		for _, target := range f.members {
			result, err := handler.Handle(ctx, commands.RemoveCoinhouseAccountHolder{
				Requestor:      requestor.PersonaID(),
				AccountID:      f.accountID,
				CoinhouseTag:   f.coinhouse.Tag,
				HolderToRemove: uuid.UUID(target.CharacterID),
			})
			assert.NoError(t, err)
			assert.GreaterOrEqual(t, f.repo.account(f.accountID).OwnerCount(), 1,
				"after removal attempt %s -> %s: %s", requestor.LastName, target.LastName, result.ErrorMessage)
		}
	}

	final := f.repo.account(f.accountID)
	assert.Equal(t, 1, final.OwnerCount())
}

func TestUpdateHolderRole_NeverGrantsOrRevokesOwner(t *testing.T) {
	roles := []domain.HolderRole{domain.RoleOwner, domain.RoleJointOwner, domain.RoleSignatory, domain.RoleViewer}
	f := newAccountFixture(t, roles...)
	handler := services.NewUpdateHolderRoleHandler(services.BaseService{}, f.repo, services.NewPersonaService(f.personas))
	ctx := context.Background()

	originalOwners := map[uuid.UUID]bool{}
	for _, h := range f.repo.account(f.accountID).Holders {
		originalOwners[h.HolderID] = h.Role == domain.RoleOwner
	}

	for _, requestor := range f.members {
		for _, target := range f.members {
			for _, role := range roles {
				_, err := handler.Handle(ctx, commands.UpdateCoinhouseAccountHolderRole{
					Requestor:      requestor.PersonaID(),
					AccountID:      f.accountID,
					CoinhouseTag:   f.coinhouse.Tag,
					HolderToUpdate: uuid.UUID(target.CharacterID),
					NewRole:        role,
				})
				assert.NoError(t, err)

				for _, h := range f.repo.account(f.accountID).Holders {
					assert.Equal(t, originalOwners[h.HolderID], h.Role == domain.RoleOwner,
						"holder %s ownership changed", h.FullName())
				}
			}
		}
	}
}
