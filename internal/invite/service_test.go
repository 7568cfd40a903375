package invite_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	id "fellgate/pkg/domain"
	dErrors "fellgate/pkg/domain-errors"
	"fellgate/pkg/platform/audit"
	auditmem "fellgate/pkg/platform/audit/store/memory"
	"fellgate/pkg/requestcontext"

	"fellgate/internal/invite"
	"fellgate/internal/invite/mocks"
	"fellgate/internal/platform/config"
	"fellgate/internal/useraccess"
)

type InviteServiceSuite struct {
	suite.Suite

	ctrl          *gomock.Controller
	accounts      *useraccess.InMemoryStore
	notifications *mocks.MockNotifications
	recorder      *auditmem.InMemoryStore

	service *invite.Service

	fcAgencyID id.AgencyID
	ownerID    id.WoodlandOwnerID
	agencyID   id.AgencyID
	admin      useraccess.UserAccount
	applicant  useraccess.ExternalApplicant
	now        time.Time
}

func TestInviteServiceSuite(t *testing.T) {
	suite.Run(t, new(InviteServiceSuite))
}

func (s *InviteServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.accounts = useraccess.NewInMemoryStore()
	s.notifications = mocks.NewMockNotifications(s.ctrl)
	s.recorder = auditmem.NewInMemoryStore()

	s.fcAgencyID = id.NewAgencyID()
	s.ownerID = id.NewWoodlandOwnerID()
	s.agencyID = id.NewAgencyID()
	s.now = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

	var err error
	s.service, err = invite.New(s.accounts, s.notifications, audit.NewPublisher(s.recorder),
		config.Invite{LinkExpiryDays: 7, BaseURL: "https://felling.example.com/invite/accept"},
		invite.WithFcAgency(s.fcAgencyID, config.FcAgency{PermittedEmailDomains: []string{"forestry.example.gov.uk"}}),
	)
	s.Require().NoError(err)

	s.admin = useraccess.UserAccount{
		ID:              id.NewUserAccountID(),
		Email:           "admin@example.com",
		FirstName:       "Ada",
		LastName:        "Admin",
		Status:          useraccess.StatusActive,
		AccountType:     useraccess.TypeWoodlandOwnerAdministrator,
		WoodlandOwnerID: &s.ownerID,
	}
	s.Require().NoError(s.accounts.Save(context.Background(), s.admin))

	s.applicant = useraccess.ExternalApplicant{
		UserAccountID:   s.admin.ID,
		Email:           s.admin.Email,
		WoodlandOwnerID: &s.ownerID,
	}
}

func (s *InviteServiceSuite) ctx() context.Context {
	return requestcontext.WithTime(context.Background(), s.now)
}

func (s *InviteServiceSuite) request(email string) invite.Request {
	return invite.Request{Email: email, WoodlandOwnerID: s.ownerID}
}

func (s *InviteServiceSuite) TestInviteWoodlandOwnerUser_NewUser() {
	var sentTo invite.Notification
	s.notifications.EXPECT().Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n invite.Notification) error {
			sentTo = n
			return nil
		})

	outcome, err := s.service.InviteWoodlandOwnerUser(s.ctx(), &s.applicant, s.request("new.user@example.com"))
	s.Require().NoError(err)
	s.Equal(invite.OutcomeInviteSent, outcome)

	account, err := s.accounts.FindByEmail(context.Background(), "new.user@example.com")
	s.Require().NoError(err)
	s.Equal(useraccess.StatusInvited, account.Status)
	s.Equal("New", account.FirstName)
	s.Equal("User", account.LastName)
	s.Equal(s.now.AddDate(0, 0, 7), account.InviteTokenExpiry)

	s.Equal("new.user@example.com", sentTo.Recipient)
	s.Contains(sentTo.Data["inviteLink"], account.InviteToken.String())

	events := s.mustListAll()
	s.Require().Len(events, 1)
	s.Equal(audit.EventInviteWoodlandOwnerUserSent, events[0].Name)
	s.Equal(false, events[0].Data["resend"])
}

func (s *InviteServiceSuite) TestInviteWoodlandOwnerUser_ExistingStates() {
	ctx := s.ctx()

	s.Run("active user already exists", func() {
		s.recorder.Clear()
		active := useraccess.UserAccount{
			ID:              id.NewUserAccountID(),
			Email:           "active@example.com",
			Status:          useraccess.StatusActive,
			AccountType:     useraccess.TypeWoodlandOwnerAdministrator,
			WoodlandOwnerID: &s.ownerID,
		}
		s.Require().NoError(s.accounts.Save(context.Background(), active))

		outcome, err := s.service.InviteWoodlandOwnerUser(ctx, &s.applicant, s.request("active@example.com"))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Equal(invite.OutcomeUserAlreadyExists, outcome)

		events := s.mustListAll()
		s.Require().Len(events, 1)
		s.Equal(audit.EventInviteWoodlandOwnerUserFailure, events[0].Name)
	})

	s.Run("invited to a different organisation", func() {
		s.recorder.Clear()
		otherOwner := id.NewWoodlandOwnerID()
		invited := useraccess.UserAccount{
			ID:              id.NewUserAccountID(),
			Email:           "elsewhere@example.com",
			Status:          useraccess.StatusInvited,
			AccountType:     useraccess.TypeWoodlandOwnerAdministrator,
			WoodlandOwnerID: &otherOwner,
			InviteToken:     uuid.New(),
		}
		s.Require().NoError(s.accounts.Save(context.Background(), invited))

		outcome, err := s.service.InviteWoodlandOwnerUser(ctx, &s.applicant, s.request("elsewhere@example.com"))
		s.Require().Error(err)
		s.Equal(invite.OutcomeUserAlreadyExists, outcome)
	})

	s.Run("already invited to the same organisation without resend", func() {
		s.recorder.Clear()
		invited := useraccess.UserAccount{
			ID:              id.NewUserAccountID(),
			Email:           "pending@example.com",
			Status:          useraccess.StatusInvited,
			AccountType:     useraccess.TypeWoodlandOwnerAdministrator,
			WoodlandOwnerID: &s.ownerID,
			InviteToken:     uuid.New(),
		}
		s.Require().NoError(s.accounts.Save(context.Background(), invited))

		outcome, err := s.service.InviteWoodlandOwnerUser(ctx, &s.applicant, s.request("pending@example.com"))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Equal(invite.OutcomeUserAlreadyInvited, outcome)
	})
}

func (s *InviteServiceSuite) TestInviteWoodlandOwnerUser_ExplicitResendRotatesToken() {
	ctx := s.ctx()
	oldToken := uuid.New()
	invited := useraccess.UserAccount{
		ID:                id.NewUserAccountID(),
		Email:             "pending@example.com",
		Status:            useraccess.StatusInvited,
		AccountType:       useraccess.TypeWoodlandOwnerAdministrator,
		WoodlandOwnerID:   &s.ownerID,
		InviteToken:       oldToken,
		InviteTokenExpiry: s.now.AddDate(0, 0, 1),
	}
	s.Require().NoError(s.accounts.Save(context.Background(), invited))

	s.notifications.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil)

	req := s.request("pending@example.com")
	req.Resend = true
	outcome, err := s.service.InviteWoodlandOwnerUser(ctx, &s.applicant, req)
	s.Require().NoError(err)
	s.Equal(invite.OutcomeInviteSent, outcome)

	refreshed, err := s.accounts.FindByEmail(context.Background(), "pending@example.com")
	s.Require().NoError(err)
	s.NotEqual(oldToken, refreshed.InviteToken)
	s.Equal(s.now.AddDate(0, 0, 7), refreshed.InviteTokenExpiry)

	events := s.mustListAll()
	s.Require().Len(events, 1)
	s.Equal(audit.EventInviteWoodlandOwnerUserSent, events[0].Name)
	s.Equal(true, events[0].Data["resend"])
}

func (s *InviteServiceSuite) TestInviteAgentToOrganisation() {
	ctx := s.ctx()
	agencyAdmin := useraccess.UserAccount{
		ID:          id.NewUserAccountID(),
		Email:       "agency.admin@example.com",
		Status:      useraccess.StatusActive,
		AccountType: useraccess.TypeAgentAdministrator,
		AgencyID:    &s.agencyID,
	}
	s.Require().NoError(s.accounts.Save(context.Background(), agencyAdmin))
	caller := useraccess.ExternalApplicant{UserAccountID: agencyAdmin.ID, Email: agencyAdmin.Email, AgencyID: &s.agencyID}

	s.Run("success creates an agent account", func() {
		s.notifications.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil)

		outcome, err := s.service.InviteAgentToOrganisation(ctx, &caller, invite.Request{
			Email:    "new.agent@example.com",
			AgencyID: s.agencyID,
		})
		s.Require().NoError(err)
		s.Equal(invite.OutcomeInviteSent, outcome)

		account, err := s.accounts.FindByEmail(context.Background(), "new.agent@example.com")
		s.Require().NoError(err)
		s.Equal(useraccess.TypeAgent, account.AccountType)
		s.Require().NotNil(account.AgencyID)
		s.Equal(s.agencyID, *account.AgencyID)

		events := s.mustListAll()
		s.Require().Len(events, 1)
		s.Equal(audit.EventInviteAgentToOrganisationSent, events[0].Name)
	})

	s.Run("non-administrator caller is forbidden", func() {
		s.recorder.Clear()
		agent := useraccess.UserAccount{
			ID:          id.NewUserAccountID(),
			Email:       "plain.agent@example.com",
			Status:      useraccess.StatusActive,
			AccountType: useraccess.TypeAgent,
			AgencyID:    &s.agencyID,
		}
		s.Require().NoError(s.accounts.Save(context.Background(), agent))
		plainCaller := useraccess.ExternalApplicant{UserAccountID: agent.ID, Email: agent.Email, AgencyID: &s.agencyID}

		_, err := s.service.InviteAgentToOrganisation(ctx, &plainCaller, invite.Request{
			Email:    "another.agent@example.com",
			AgencyID: s.agencyID,
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

		events := s.mustListAll()
		s.Require().Len(events, 1)
		s.Equal(audit.EventInviteAgentToOrganisationFailure, events[0].Name)
	})
}

func (s *InviteServiceSuite) TestVerifyInvitedUserAccount() {
	ctx := s.ctx()
	token := uuid.New()
	invited := useraccess.UserAccount{
		ID:                id.NewUserAccountID(),
		Email:             "pending@example.com",
		Status:            useraccess.StatusInvited,
		AccountType:       useraccess.TypeWoodlandOwnerAdministrator,
		WoodlandOwnerID:   &s.ownerID,
		InviteToken:       token,
		InviteTokenExpiry: s.now.AddDate(0, 0, 3),
	}
	s.Require().NoError(s.accounts.Save(context.Background(), invited))

	s.Run("wrong token is a generic failure", func() {
		s.recorder.Clear()
		_, err := s.service.VerifyInvitedUserAccount(ctx, "pending@example.com", uuid.New())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))

		events := s.mustListAll()
		s.Require().Len(events, 1)
		s.Equal(audit.EventAcceptInvitationFailure, events[0].Name)
	})

	s.Run("unknown email is the same generic failure", func() {
		s.recorder.Clear()
		_, err := s.service.VerifyInvitedUserAccount(ctx, "nobody@example.com", token)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("expired token is the same generic failure", func() {
		s.recorder.Clear()
		lateCtx := requestcontext.WithTime(context.Background(), s.now.AddDate(0, 0, 10))
		_, err := s.service.VerifyInvitedUserAccount(lateCtx, "pending@example.com", token)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("matching email, token and unexpired invite activates the account", func() {
		s.recorder.Clear()
		account, err := s.service.VerifyInvitedUserAccount(ctx, "Pending@Example.com", token)
		s.Require().NoError(err)
		s.Equal(useraccess.StatusActive, account.Status)

		events := s.mustListAll()
		s.Require().Len(events, 1)
		s.Equal(audit.EventAcceptInvitationSuccess, events[0].Name)
	})
}

func (s *InviteServiceSuite) TestAssignFcStaffToFcAgency() {
	ctx := s.ctx()

	s.Run("permitted domain assigns and audits", func() {
		staff := useraccess.UserAccount{
			ID:          id.NewUserAccountID(),
			Email:       "ranger@forestry.example.gov.uk",
			Status:      useraccess.StatusActive,
			AccountType: useraccess.TypeFcUser,
		}
		s.Require().NoError(s.accounts.Save(context.Background(), staff))

		assigned, err := s.service.AssignFcStaffToFcAgency(ctx, staff)
		s.Require().NoError(err)
		s.True(assigned)

		refreshed, err := s.accounts.FindByID(context.Background(), staff.ID)
		s.Require().NoError(err)
		s.Require().NotNil(refreshed.AgencyID)
		s.Equal(s.fcAgencyID, *refreshed.AgencyID)

		events := s.mustListAll()
		s.Require().Len(events, 1)
		s.Equal(audit.EventFcStaffAssignedToFcAgency, events[0].Name)
		s.Equal(id.ActorSystem, events[0].ActorType)
	})

	s.Run("non-permitted domain skips assignment and audit entirely", func() {
		s.recorder.Clear()
		outsider := useraccess.UserAccount{
			ID:          id.NewUserAccountID(),
			Email:       "someone@contractor.example.com",
			Status:      useraccess.StatusActive,
			AccountType: useraccess.TypeFcUser,
		}
		s.Require().NoError(s.accounts.Save(context.Background(), outsider))

		assigned, err := s.service.AssignFcStaffToFcAgency(ctx, outsider)
		s.Require().NoError(err)
		s.False(assigned)

		refreshed, err := s.accounts.FindByID(context.Background(), outsider.ID)
		s.Require().NoError(err)
		s.Nil(refreshed.AgencyID)
		s.Empty(s.mustListAll())
	})
}

func (s *InviteServiceSuite) mustListAll() []audit.Event {
	events, err := s.recorder.ListAll(context.Background())
	s.Require().NoError(err)
	return events
}
