package woodlandowner_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	id "fellgate/pkg/domain"
	dErrors "fellgate/pkg/domain-errors"
	"fellgate/pkg/platform/audit"
	auditmem "fellgate/pkg/platform/audit/store/memory"

	"fellgate/internal/useraccess"
	"fellgate/internal/woodlandowner"
)

type WoodlandOwnerSuite struct {
	suite.Suite

	store    *woodlandowner.InMemoryStore
	accounts *useraccess.InMemoryStore
	recorder *auditmem.InMemoryStore

	service *woodlandowner.Service

	account   useraccess.UserAccount
	applicant useraccess.ExternalApplicant
}

func TestWoodlandOwnerSuite(t *testing.T) {
	suite.Run(t, new(WoodlandOwnerSuite))
}

func (s *WoodlandOwnerSuite) SetupTest() {
	s.store = woodlandowner.NewInMemoryStore()
	s.accounts = useraccess.NewInMemoryStore()
	s.recorder = auditmem.NewInMemoryStore()

	var err error
	s.service, err = woodlandowner.New(s.store, s.accounts, audit.NewPublisher(s.recorder))
	s.Require().NoError(err)

	s.account = useraccess.UserAccount{
		ID:          id.NewUserAccountID(),
		Email:       "owner@example.com",
		FirstName:   "Olive",
		LastName:    "Owner",
		Status:      useraccess.StatusActive,
		AccountType: useraccess.TypeWoodlandOwnerAdministrator,
	}
	s.Require().NoError(s.accounts.Save(context.Background(), s.account))

	s.applicant = useraccess.ExternalApplicant{
		UserAccountID: s.account.ID,
		Email:         s.account.Email,
	}
}

func (s *WoodlandOwnerSuite) TestCreateWoodlandOwner() {
	ctx := context.Background()

	result, err := s.service.CreateWoodlandOwnerAndAgency(ctx, &s.applicant, woodlandowner.CreateRequest{
		OwnerName:      "Oak Wood Estates",
		ContactName:    "Olive Owner",
		ContactEmail:   "owner@example.com",
		IsOrganisation: true,
	})
	s.Require().NoError(err)
	s.Nil(result.Agency)
	s.Equal("Oak Wood Estates", result.WoodlandOwner.Name)

	account, err := s.accounts.FindByID(ctx, s.account.ID)
	s.Require().NoError(err)
	s.Require().NotNil(account.WoodlandOwnerID)
	s.Equal(result.WoodlandOwner.ID, *account.WoodlandOwnerID)

	events := s.mustListAll()
	s.Require().Len(events, 1)
	s.Equal(audit.EventCreateWoodlandOwnerSuccess, events[0].Name)
	s.Equal(result.WoodlandOwner.ID.String(), events[0].Data["woodlandOwnerId"])
	s.NotContains(events[0].Data, "agencyId")
}

func (s *WoodlandOwnerSuite) TestCreateWoodlandOwnerWithAgency() {
	ctx := context.Background()

	result, err := s.service.CreateWoodlandOwnerAndAgency(ctx, &s.applicant, woodlandowner.CreateRequest{
		OwnerName:    "Client Estate",
		ContactEmail: "owner@example.com",
		CreateAgency: true,
		AgencyName:   "Forest Agents Ltd",
	})
	s.Require().NoError(err)
	s.Require().NotNil(result.Agency)
	s.Equal("Forest Agents Ltd", result.Agency.Name)

	account, err := s.accounts.FindByID(ctx, s.account.ID)
	s.Require().NoError(err)
	s.Equal(useraccess.TypeAgentAdministrator, account.AccountType)
	s.Require().NotNil(account.AgencyID)
	s.Equal(result.Agency.ID, *account.AgencyID)

	events := s.mustListAll()
	s.Require().Len(events, 1)
	s.Equal(audit.EventCreateWoodlandOwnerSuccess, events[0].Name)
	s.Equal(result.Agency.ID.String(), events[0].Data["agencyId"])
}

func (s *WoodlandOwnerSuite) TestArgumentErrors() {
	ctx := context.Background()

	s.Run("nil applicant", func() {
		_, err := s.service.CreateWoodlandOwnerAndAgency(ctx, nil, woodlandowner.CreateRequest{OwnerName: "X"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
		s.Empty(s.mustListAll())
	})

	s.Run("missing agency name when agency requested", func() {
		_, err := s.service.CreateWoodlandOwnerAndAgency(ctx, &s.applicant, woodlandowner.CreateRequest{
			OwnerName:    "X",
			CreateAgency: true,
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
		s.Empty(s.mustListAll())
	})
}

func (s *WoodlandOwnerSuite) TestCollaboratorFailureIsAuditedAndInternal() {
	ctx := context.Background()

	// An applicant with no stored account makes the account-link step fail
	// after the owner record is created.
	ghost := useraccess.ExternalApplicant{UserAccountID: id.NewUserAccountID(), Email: "ghost@example.com"}

	_, err := s.service.CreateWoodlandOwnerAndAgency(ctx, &ghost, woodlandowner.CreateRequest{
		OwnerName: "Ghost Wood",
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))

	events := s.mustListAll()
	s.Require().Len(events, 1)
	s.Equal(audit.EventCreateWoodlandOwnerFailure, events[0].Name)
	s.NotEmpty(events[0].Data["error"])
}

func (s *WoodlandOwnerSuite) TestFcAgencyIDIsStable() {
	first := woodlandowner.FcAgencyID()
	s.False(first.IsNil())
	s.Equal(first, woodlandowner.FcAgencyID())
}

func (s *WoodlandOwnerSuite) mustListAll() []audit.Event {
	events, err := s.recorder.ListAll(context.Background())
	s.Require().NoError(err)
	return events
}
